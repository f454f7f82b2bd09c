package calendar

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// GridCell is one cell of the month grid. Day 0 marks a leading empty cell
// before the first of the month.
type GridCell struct {
	Day int
}

// Empty reports whether the cell is a leading filler before day 1.
func (c GridCell) Empty() bool { return c.Day == 0 }

// MonthGrid builds the cells for a zero-based month of the given year:
// one empty cell per weekday before the 1st (Sunday = 0), then one cell per
// day, with no trailing fill.
func MonthGrid(year, month int) []GridCell {
	first := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	days := daysInMonth(year, month)
	lead := int(first.Weekday())

	cells := make([]GridCell, 0, lead+days)
	for i := 0; i < lead; i++ {
		cells = append(cells, GridCell{})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, GridCell{Day: d})
	}
	return cells
}

// daysInMonth returns the day count of a zero-based month. Day zero of the
// following month normalizes to this month's last day.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+2, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EventsForDay selects the events on day d of the zero-based (year, month).
// Membership is exact string equality with the canonical date form; date
// objects and timezones never enter the comparison.
func EventsForDay(events []Event, year, month, day int) []Event {
	if day <= 0 {
		return nil
	}
	want := DateString(year, month, day)
	var out []Event
	for _, evt := range events {
		if evt.Date == want {
			out = append(out, evt)
		}
	}
	return out
}

// UpcomingEvents returns at most n events dated on or after the first day
// of the displayed zero-based month, ascending by date. Truncation is
// display-only; the underlying collection is untouched.
func UpcomingEvents(events []Event, year, month, n int) []Event {
	from := DateString(year, month, 1)

	upcoming := make([]Event, 0, len(events))
	for _, evt := range events {
		if evt.Date >= from {
			upcoming = append(upcoming, evt)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date < upcoming[j].Date
	})

	if len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming
}

// PrevMonth steps a zero-based month backwards, wrapping December after
// January. The year never changes.
func PrevMonth(month int) int {
	if month == 0 {
		return 11
	}
	return month - 1
}

// NextMonth steps a zero-based month forwards, wrapping January after
// December. The year never changes.
func NextMonth(month int) int {
	if month == 11 {
		return 0
	}
	return month + 1
}

// upcomingCount is the display truncation for the read-only view.
const upcomingCount = 6

// View is the read-only calendar: a month grid plus upcoming events,
// rendered from the shared event store. Every mounted view holds only a
// snapshot; the store is the single source of truth and the subscription
// refreshes the snapshot whenever another view saves.
type View struct {
	store *EventStore
	log   zerolog.Logger

	mu      sync.Mutex
	year    int
	month   int
	events  []Event
	version int64

	unsubscribe func()
}

// ViewOption adjusts view construction.
type ViewOption func(*View)

// WithYear pins the displayed year. The default is the current year.
func WithYear(year int) ViewOption {
	return func(v *View) {
		if year != 0 {
			v.year = year
		}
	}
}

// WithMonth sets the initially displayed zero-based month (default January).
func WithMonth(month int) ViewOption {
	return func(v *View) {
		if month >= 0 && month <= 11 {
			v.month = month
		}
	}
}

// NewView mounts a read-only calendar view: it loads the collection and
// subscribes to change notifications. Close must be called on teardown.
func NewView(ctx context.Context, store *EventStore, log zerolog.Logger, opts ...ViewOption) (*View, error) {
	v := &View{
		store: store,
		log:   log.With().Str("component", "calendar_view").Logger(),
		year:  time.Now().Year(),
	}
	for _, opt := range opts {
		opt(v)
	}

	v.Refresh(ctx)

	unsub, err := store.Subscribe(func() {
		v.Refresh(context.Background())
	})
	if err != nil {
		return nil, err
	}
	v.unsubscribe = unsub

	return v, nil
}

// Close unsubscribes the view so a defunct view is never notified.
func (v *View) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// Refresh re-reads the full collection from the store.
func (v *View) Refresh(ctx context.Context) {
	events, version := v.store.LoadAll(ctx)

	v.mu.Lock()
	v.events = events
	v.version = version
	v.mu.Unlock()
}

// Year returns the fixed display year.
func (v *View) Year() int { return v.year }

// Month returns the current zero-based display month.
func (v *View) Month() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.month
}

// Prev navigates to the previous month, wrapping within the year.
func (v *View) Prev() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.month = PrevMonth(v.month)
}

// Next navigates to the following month, wrapping within the year.
func (v *View) Next() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.month = NextMonth(v.month)
}

// Events returns a snapshot of the loaded collection.
func (v *View) Events() []Event {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Event, len(v.events))
	copy(out, v.events)
	return out
}

// Grid returns the cells of the displayed month.
func (v *View) Grid() []GridCell {
	v.mu.Lock()
	defer v.mu.Unlock()
	return MonthGrid(v.year, v.month)
}

// EventsOn returns the events on the given day of the displayed month.
func (v *View) EventsOn(day int) []Event {
	v.mu.Lock()
	defer v.mu.Unlock()
	return EventsForDay(v.events, v.year, v.month, day)
}

// Upcoming returns the next events from the start of the displayed month.
func (v *View) Upcoming() []Event {
	v.mu.Lock()
	defer v.mu.Unlock()
	return UpcomingEvents(v.events, v.year, v.month, upcomingCount)
}

// snapshot returns the current events and version for read-modify-write.
func (v *View) snapshot() ([]Event, int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Event, len(v.events))
	copy(out, v.events)
	return out, v.version
}
