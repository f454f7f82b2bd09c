package calendar

import (
	"reflect"
	"testing"
)

func TestMonthGridFebruaryLeapYear(t *testing.T) {
	// February 2024: 29 days, the 1st is a Thursday (weekday 4).
	cells := MonthGrid(2024, 1)

	if len(cells) != 33 {
		t.Fatalf("cell count = %d, want 33", len(cells))
	}
	for i := 0; i < 4; i++ {
		if !cells[i].Empty() {
			t.Fatalf("cell %d should be a leading empty cell", i)
		}
	}
	for i := 4; i < 33; i++ {
		if want := i - 3; cells[i].Day != want {
			t.Fatalf("cell %d = day %d, want %d", i, cells[i].Day, want)
		}
	}
}

func TestMonthGridNoTrailingFill(t *testing.T) {
	// September 2024: the 1st is a Sunday, 30 days, zero leading cells.
	cells := MonthGrid(2024, 8)
	if len(cells) != 30 {
		t.Fatalf("cell count = %d, want 30", len(cells))
	}
	if cells[0].Day != 1 || cells[len(cells)-1].Day != 30 {
		t.Fatalf("grid = [%d..%d], want [1..30]", cells[0].Day, cells[len(cells)-1].Day)
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year, month, want int
	}{
		{2024, 1, 29}, // leap February
		{2023, 1, 28},
		{2024, 0, 31},
		{2024, 11, 31}, // December normalizes through year end
		{2024, 3, 30},
	}
	for _, tc := range cases {
		if got := daysInMonth(tc.year, tc.month); got != tc.want {
			t.Errorf("daysInMonth(%d, %d) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestEventsForDayStringEquality(t *testing.T) {
	events := []Event{
		{ID: "1", Title: "Quiz", Date: "2024-03-05", EventType: EventExam},
		{ID: "2", Title: "Homework", Date: "2024-03-15", EventType: EventAssignment},
		{ID: "3", Title: "Other March 5", Date: "2024-03-05", EventType: EventClass},
	}

	got := EventsForDay(events, 2024, 2, 5)
	if len(got) != 2 {
		t.Fatalf("events on day 5 = %d, want 2", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("wrong events selected: %v", got)
	}

	if out := EventsForDay(events, 2024, 2, 0); out != nil {
		t.Fatal("empty grid cell must have no events")
	}
}

func TestUpcomingEventsFilterSortTruncate(t *testing.T) {
	events := []Event{
		{ID: "past", Date: "2024-02-20"},
		{ID: "d", Date: "2024-04-01"},
		{ID: "a", Date: "2024-03-01"},
		{ID: "c", Date: "2024-03-20"},
		{ID: "b", Date: "2024-03-05"},
	}

	got := UpcomingEvents(events, 2024, 2, 6)
	ids := make([]string, len(got))
	for i, evt := range got {
		ids[i] = evt.ID
	}
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("upcoming = %v, want %v", ids, want)
	}

	// An event on the first of the displayed month is included.
	if got[0].Date != "2024-03-01" {
		t.Fatalf("first-of-month event missing, got %v", got[0])
	}

	truncated := UpcomingEvents(events, 2024, 2, 2)
	if len(truncated) != 2 || truncated[0].ID != "a" || truncated[1].ID != "b" {
		t.Fatalf("truncated = %v, want first two", truncated)
	}
}

func TestMonthNavigationWraps(t *testing.T) {
	if got := PrevMonth(0); got != 11 {
		t.Fatalf("PrevMonth(0) = %d, want 11", got)
	}
	if got := NextMonth(11); got != 0 {
		t.Fatalf("NextMonth(11) = %d, want 0", got)
	}
	if got := NextMonth(4); got != 5 {
		t.Fatalf("NextMonth(4) = %d, want 5", got)
	}
	if got := PrevMonth(5); got != 4 {
		t.Fatalf("PrevMonth(5) = %d, want 4", got)
	}
}

func TestEventTypeColors(t *testing.T) {
	colors := map[EventType]string{
		EventAssignment: "#667eea",
		EventDeadline:   "#e74c3c",
		EventExam:       "#f39c12",
		EventClass:      "#27ae60",
	}
	for typ, want := range colors {
		if got := typ.Color(); got != want {
			t.Errorf("%s color = %q, want %q", typ, got, want)
		}
		if !typ.Valid() {
			t.Errorf("%s should be valid", typ)
		}
	}
	if EventType("meeting").Valid() {
		t.Error("unknown event type must be invalid")
	}
}

func TestDateStringZeroPadding(t *testing.T) {
	if got := DateString(2024, 2, 5); got != "2024-03-05" {
		t.Fatalf("DateString = %q, want 2024-03-05", got)
	}
	if got := DateString(2024, 10, 21); got != "2024-11-21" {
		t.Fatalf("DateString = %q, want 2024-11-21", got)
	}
}
