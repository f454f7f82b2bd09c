// Package calendar implements the shared academic calendar: a durable
// keyed blob holding the full event collection, change notifications that
// keep independently-mounted views consistent, and the month-grid and
// upcoming-events logic those views render from.
package calendar

import (
	"fmt"

	"github.com/google/uuid"
)

// EventType is the closed set of calendar event kinds.
type EventType string

const (
	EventAssignment EventType = "assignment"
	EventDeadline   EventType = "deadline"
	EventExam       EventType = "exam"
	EventClass      EventType = "class"
)

// Valid reports whether t is a known event kind.
func (t EventType) Valid() bool {
	switch t {
	case EventAssignment, EventDeadline, EventExam, EventClass:
		return true
	}
	return false
}

// Color returns the fixed display color for the event kind.
func (t EventType) Color() string {
	switch t {
	case EventAssignment:
		return "#667eea"
	case EventDeadline:
		return "#e74c3c"
	case EventExam:
		return "#f39c12"
	case EventClass:
		return "#27ae60"
	}
	return ""
}

// Event is one scheduled calendar item. Date is a zero-padded YYYY-MM-DD
// string; day membership is decided by string equality so no timezone
// conversion can shift an event across days. StartTime and EndTime carry no
// ordering constraint relative to each other.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	EventType   EventType `json:"eventType"`
}

// NewEventID generates a collision-free event identifier.
func NewEventID() string {
	return uuid.New().String()
}

// DateString formats a (year, month, day) as the canonical zero-padded
// YYYY-MM-DD form. Months are zero-based (January = 0) throughout this
// package, matching the view contract.
func DateString(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
}

// monthNames indexes display names by zero-based month.
var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the display name for a zero-based month, or "" when
// the index is out of range.
func MonthName(month int) string {
	if month < 0 || month > 11 {
		return ""
	}
	return monthNames[month]
}
