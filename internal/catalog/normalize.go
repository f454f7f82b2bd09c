// Package catalog is the client side of the class catalog: payload
// normalization between the editable text form and the canonical wire
// shape, plus the HTTP client that talks to the service.
package catalog

import (
	"strings"

	"github.com/learnhub/lms-backend/internal/model"
)

// JoinLessons renders the canonical lessons sequence as editable text.
func JoinLessons(lessons []string) string {
	return strings.Join(lessons, ", ")
}

// SplitLessons parses editable lessons text back into the canonical
// ordered sequence: split on commas, trim each element, drop elements that
// trim to nothing, keep the rest in order. Applying it to its own output
// changes nothing.
func SplitLessons(text string) []string {
	parts := strings.Split(text, ",")
	lessons := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			lessons = append(lessons, trimmed)
		}
	}
	return lessons
}

// Sections are the class list partitioned by type for display. Every class
// lands in exactly one section; the three together are the full list.
type Sections struct {
	Theory   []model.Class
	Revision []model.Class
	Paper    []model.Class
}

// PartitionByType splits classes into the three catalog sections.
func PartitionByType(classes []model.Class) Sections {
	var s Sections
	for _, c := range classes {
		switch c.Type {
		case model.ClassRevision:
			s.Revision = append(s.Revision, c)
		case model.ClassPaper:
			s.Paper = append(s.Paper, c)
		default:
			// The type enum is closed upstream; anything else renders with
			// the theory section rather than vanishing.
			s.Theory = append(s.Theory, c)
		}
	}
	return s
}
