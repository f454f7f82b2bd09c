package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore is a BlobStore over a shared Redis instance. Blob and version
// live in one hash; change notifications ride Redis pub/sub, so views in
// separate processes observe each other's saves. The pub/sub payload is the
// writer's origin, letting each subscriber drop its own echoes.
type RedisStore struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisStore creates a Redis-backed blob store.
func NewRedisStore(rdb *redis.Client, log zerolog.Logger) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		log: log.With().Str("component", "redis_blob_store").Logger(),
	}
}

func blobKey(key string) string    { return "blob:" + key }
func changeChan(key string) string { return "blob_changed:" + key }

// Load returns the blob and version; a missing key yields (nil, 0, nil).
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, int64, error) {
	vals, err := s.rdb.HMGet(ctx, blobKey(key), "data", "version").Result()
	if err != nil {
		return nil, 0, fmt.Errorf("load blob: %w", err)
	}

	var data []byte
	if raw, ok := vals[0].(string); ok {
		data = []byte(raw)
	}
	var version int64
	if raw, ok := vals[1].(string); ok {
		if _, err := fmt.Sscan(raw, &version); err != nil {
			return nil, 0, fmt.Errorf("parse version: %w", err)
		}
	}
	return data, version, nil
}

// Save overwrites the blob iff its version still equals expected. The check
// and write run under WATCH so a concurrent save forces ErrConflict rather
// than a silent lost update.
func (s *RedisStore) Save(ctx context.Context, key string, data []byte, expected int64, origin string) (int64, error) {
	var next int64

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, blobKey(key), "version").Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("read version: %w", err)
		}
		if current != expected {
			return ErrConflict
		}

		next = current + 1
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, blobKey(key), "data", data, "version", next)
			return nil
		})
		return err
	}, blobKey(key))
	if errors.Is(err, redis.TxFailedErr) {
		return 0, ErrConflict
	}
	if err != nil {
		return 0, err
	}

	s.publish(ctx, key, origin)
	return next, nil
}

// ForceSave overwrites the blob unconditionally.
func (s *RedisStore) ForceSave(ctx context.Context, key string, data []byte, origin string) (int64, error) {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, blobKey(key), "data", data)
	incr := pipe.HIncrBy(ctx, blobKey(key), "version", 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("force save: %w", err)
	}

	s.publish(ctx, key, origin)
	return incr.Val(), nil
}

// Subscribe listens on the key's pub/sub channel and runs fn for every
// change published by another origin. The returned func tears the
// subscription down.
func (s *RedisStore) Subscribe(key, origin string, fn func()) (func(), error) {
	sub := s.rdb.Subscribe(context.Background(), changeChan(key))

	// Force the subscription to be established before returning so a save
	// right after Subscribe cannot be missed.
	if _, err := sub.Receive(context.Background()); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	go func() {
		for msg := range sub.Channel() {
			if msg.Payload == origin {
				continue
			}
			fn()
		}
	}()

	return func() { _ = sub.Close() }, nil
}

func (s *RedisStore) publish(ctx context.Context, key, origin string) {
	if err := s.rdb.Publish(ctx, changeChan(key), origin).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("change notification publish failed")
	}
}
