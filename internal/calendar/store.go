package calendar

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventsKey is the well-known blob key holding the full event collection.
const EventsKey = "lms_calendar_events"

// ErrConflict is returned when a versioned save loses a race with another
// writer. The caller reloads and retries; nothing is written.
var ErrConflict = errors.New("calendar: blob version conflict")

// BlobStore is durable keyed blob persistence with change notification.
// Writes bump a monotonic version; Save is an optimistic compare-and-swap
// on that version, ForceSave is plain last-writer-wins. Subscribers are
// notified of writes made through OTHER origins, never their own; the
// origin string identifies one view handle so a view is not re-notified of
// its own saves.
type BlobStore interface {
	// Load returns the blob and its current version. A missing key is not
	// an error: it returns (nil, 0, nil).
	Load(ctx context.Context, key string) (data []byte, version int64, err error)
	// Save overwrites the blob iff its version still equals expected.
	// Returns the new version, or ErrConflict without writing.
	Save(ctx context.Context, key string, data []byte, expected int64, origin string) (int64, error)
	// ForceSave overwrites unconditionally (last-writer-wins).
	ForceSave(ctx context.Context, key string, data []byte, origin string) (int64, error)
	// Subscribe registers fn to run after another origin saves the key.
	// The returned func unsubscribes; call it on view teardown.
	Subscribe(key, origin string, fn func()) (func(), error)
}

// EventStore layers the calendar event collection over a BlobStore at the
// fixed EventsKey. One EventStore belongs to one view; its generated origin
// keeps the view from being notified of its own writes.
type EventStore struct {
	blobs  BlobStore
	origin string
	log    zerolog.Logger
}

// NewEventStore creates an event store handle over the given blob store.
func NewEventStore(blobs BlobStore, log zerolog.Logger) *EventStore {
	return &EventStore{
		blobs:  blobs,
		origin: uuid.New().String(),
		log:    log.With().Str("component", "event_store").Logger(),
	}
}

// LoadAll returns the full event collection and the blob version to pass
// to SaveAll. A missing or unreadable blob yields an empty collection and
// never an error: a corrupt local blob must not stop the calendar from
// rendering. The version is still returned so the next save overwrites the
// corrupt data.
func (s *EventStore) LoadAll(ctx context.Context) ([]Event, int64) {
	data, version, err := s.blobs.Load(ctx, EventsKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("calendar blob unreadable, rendering empty")
		return []Event{}, version
	}
	if len(data) == 0 {
		return []Event{}, version
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		s.log.Warn().Err(err).Msg("calendar blob corrupt, rendering empty")
		return []Event{}, version
	}
	if events == nil {
		events = []Event{}
	}
	return events, version
}

// SaveAll replaces the whole event collection. The version must be the one
// returned by the LoadAll that produced events; ErrConflict means another
// view saved in between and nothing was written.
func (s *EventStore) SaveAll(ctx context.Context, events []Event, version int64) (int64, error) {
	if events == nil {
		events = []Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return 0, err
	}
	return s.blobs.Save(ctx, EventsKey, data, version, s.origin)
}

// SaveAllForce replaces the collection unconditionally, preserving plain
// last-writer-wins semantics for callers that opt out of conflict checks.
func (s *EventStore) SaveAllForce(ctx context.Context, events []Event) (int64, error) {
	if events == nil {
		events = []Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return 0, err
	}
	return s.blobs.ForceSave(ctx, EventsKey, data, s.origin)
}

// Subscribe registers fn to run whenever another view saves the event
// collection. The returned func unsubscribes.
func (s *EventStore) Subscribe(fn func()) (func(), error) {
	return s.blobs.Subscribe(EventsKey, s.origin, fn)
}
