package calendar

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "calendar.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteLoadMissingKey(t *testing.T) {
	store := openTestSQLite(t)

	data, version, err := store.Load(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data != nil || version != 0 {
		t.Fatalf("missing key = (%v, %d), want (nil, 0)", data, version)
	}
}

func TestSQLiteSaveLoadRoundTrip(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	v1, err := store.Save(ctx, "k", []byte(`[{"id":"1"}]`), 0, "origin-a")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if v1 != 1 {
		t.Fatalf("version = %d, want 1", v1)
	}

	data, version, err := store.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != `[{"id":"1"}]` || version != 1 {
		t.Fatalf("loaded (%s, %d)", data, version)
	}
}

func TestSQLiteVersionConflict(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, "k", []byte("one"), 0, "a"); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// A second writer holding the stale version 0 must be rejected.
	if _, err := store.Save(ctx, "k", []byte("two"), 0, "b"); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	data, _, err := store.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "one" {
		t.Fatalf("data = %q, the losing write must not land", data)
	}

	// ForceSave ignores the version.
	if _, err := store.ForceSave(ctx, "k", []byte("three"), "b"); err != nil {
		t.Fatalf("ForceSave: %v", err)
	}
	data, version, _ := store.Load(ctx, "k")
	if string(data) != "three" || version != 2 {
		t.Fatalf("after force save: (%s, %d)", data, version)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.db")
	ctx := context.Background()

	store, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Save(ctx, "k", []byte("durable"), 0, "a"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	data, version, err := reopened.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if string(data) != "durable" || version != 1 {
		t.Fatalf("after reopen: (%s, %d)", data, version)
	}
}

func TestSQLiteSubscribeNotifiesOtherOrigins(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	notified := make(chan struct{}, 1)
	unsub, err := store.Subscribe("k", "watcher", func() { notified <- struct{}{} })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsub()

	if _, err := store.Save(ctx, "k", []byte("x"), 0, "writer"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was never notified")
	}
}

func TestSQLiteEventStoreCorruptBlob(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	// Write garbage where the event collection lives.
	if _, err := store.Save(ctx, EventsKey, []byte("{corrupt"), 0, "x"); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	events, version := testStore(store).LoadAll(ctx)
	if len(events) != 0 {
		t.Fatalf("corrupt blob must read as empty, got %v", events)
	}
	if version != 1 {
		t.Fatalf("version = %d, want the real blob version for recovery", version)
	}
}
