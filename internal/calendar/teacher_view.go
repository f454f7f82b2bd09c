package calendar

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// ErrInvalidEvent is returned when a mutation carries a blank title,
	// an unknown event type, or a malformed date.
	ErrInvalidEvent = errors.New("calendar: invalid event")
	// ErrEventNotFound is returned when editing an event that is no longer
	// in the collection.
	ErrEventNotFound = errors.New("calendar: event not found")
)

var dateForm = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// teacherUpcomingCount is the display truncation for the teacher view.
const teacherUpcomingCount = 5

// ConfirmFunc answers a destructive-action confirmation prompt.
type ConfirmFunc func() bool

// TeacherView is the read-write calendar. Every mutation is a whole-
// collection read-modify-write through the shared store: load, apply the
// single-event change in memory, save the full collection back. Saves are
// versioned, so a racing view surfaces ErrConflict instead of silently
// losing the other view's write.
type TeacherView struct {
	*View
}

// NewTeacherView mounts a read-write calendar view.
func NewTeacherView(ctx context.Context, store *EventStore, log zerolog.Logger, opts ...ViewOption) (*TeacherView, error) {
	v, err := NewView(ctx, store, log, opts...)
	if err != nil {
		return nil, err
	}
	return &TeacherView{View: v}, nil
}

// Upcoming returns the next events from the start of the displayed month.
func (v *TeacherView) Upcoming() []Event {
	v.mu.Lock()
	defer v.mu.Unlock()
	return UpcomingEvents(v.events, v.year, v.month, teacherUpcomingCount)
}

// AddEvent appends a new event, assigning its ID, and saves the whole
// collection. Returns the stored event.
func (v *TeacherView) AddEvent(ctx context.Context, evt Event) (Event, error) {
	if err := validateEvent(evt); err != nil {
		return Event{}, err
	}
	evt.ID = NewEventID()

	events, version := v.store.LoadAll(ctx)
	events = append(events, evt)
	if err := v.saveAndRefresh(ctx, events, version); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// UpdateEvent replaces the stored event with the same ID.
func (v *TeacherView) UpdateEvent(ctx context.Context, evt Event) error {
	if err := validateEvent(evt); err != nil {
		return err
	}

	events, version := v.store.LoadAll(ctx)
	replaced := false
	for i := range events {
		if events[i].ID == evt.ID {
			events[i] = evt
			replaced = true
			break
		}
	}
	if !replaced {
		return ErrEventNotFound
	}
	return v.saveAndRefresh(ctx, events, version)
}

// DeleteEvent removes the event with the given ID after confirm answers
// true. Deletion is permanent. Returns whether an event was removed; a
// declined confirmation is a no-op, not an error.
func (v *TeacherView) DeleteEvent(ctx context.Context, id string, confirm ConfirmFunc) (bool, error) {
	if confirm == nil || !confirm() {
		return false, nil
	}

	events, version := v.store.LoadAll(ctx)
	kept := events[:0]
	removed := false
	for _, evt := range events {
		if evt.ID == id {
			removed = true
			continue
		}
		kept = append(kept, evt)
	}
	if !removed {
		return false, nil
	}
	if err := v.saveAndRefresh(ctx, kept, version); err != nil {
		return false, err
	}
	return true, nil
}

func (v *TeacherView) saveAndRefresh(ctx context.Context, events []Event, version int64) error {
	if _, err := v.store.SaveAll(ctx, events, version); err != nil {
		return err
	}
	v.Refresh(ctx)
	return nil
}

// validateEvent enforces the stored-event shape: non-blank title, known
// event type, canonical date. StartTime/EndTime ordering is deliberately
// not checked; the contract defines none.
func validateEvent(evt Event) error {
	if strings.TrimSpace(evt.Title) == "" {
		return ErrInvalidEvent
	}
	if !evt.EventType.Valid() {
		return ErrInvalidEvent
	}
	if !dateForm.MatchString(evt.Date) {
		return ErrInvalidEvent
	}
	return nil
}
