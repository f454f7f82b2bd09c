package model

import "github.com/google/uuid"

// ClassType is the closed set of catalog sections a class belongs to.
type ClassType string

const (
	ClassTheory   ClassType = "theory"
	ClassRevision ClassType = "revision"
	ClassPaper    ClassType = "paper"
)

// Valid reports whether t is one of the three catalog sections.
func (t ClassType) Valid() bool {
	switch t {
	case ClassTheory, ClassRevision, ClassPaper:
		return true
	}
	return false
}

// DefaultClassColor is the accent color applied when a class has none.
const DefaultClassColor = "#667eea"

// Class is one catalog entry. The ID is assigned by the repository on
// creation and never changes; all other fields are replaced wholesale on
// update. Lessons keeps its order through create, list and edit round trips.
type Class struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Instructor string    `json:"instructor"`
	Type       ClassType `json:"type"`
	Lessons    []string  `json:"lessons"`
	TimeTable  string    `json:"timeTable"`
	Place      string    `json:"place"`
	Duration   string    `json:"duration"`
	Students   int       `json:"students"`
	Color      string    `json:"color"`
}
