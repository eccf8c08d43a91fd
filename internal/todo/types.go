package todo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFilter is returned for a filter name outside the enum.
	ErrUnknownFilter = errors.New("unknown visibility filter")
	// ErrUnknownAction is returned when decoding an unrecognized action type.
	ErrUnknownAction = errors.New("unknown action type")
)

// Todo is a single list entry.
type Todo struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// VisibilityFilter selects which todos are displayed.
type VisibilityFilter string

const (
	ShowAll       VisibilityFilter = "SHOW_ALL"
	ShowActive    VisibilityFilter = "SHOW_ACTIVE"
	ShowCompleted VisibilityFilter = "SHOW_COMPLETED"
)

// Filters lists the recognized filters in display order.
func Filters() []VisibilityFilter {
	return []VisibilityFilter{ShowAll, ShowActive, ShowCompleted}
}

// Valid reports whether f is one of the recognized filters.
func (f VisibilityFilter) Valid() bool {
	switch f {
	case ShowAll, ShowActive, ShowCompleted:
		return true
	}
	return false
}

// Label returns the short human name of the filter.
func (f VisibilityFilter) Label() string {
	switch f {
	case ShowAll:
		return "All"
	case ShowActive:
		return "Active"
	case ShowCompleted:
		return "Completed"
	default:
		return string(f)
	}
}

// ParseVisibilityFilter accepts SHOW_ALL, SHOW_ACTIVE, SHOW_COMPLETED
// (any case) and the short forms all, active, completed.
func ParseVisibilityFilter(s string) (VisibilityFilter, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch normalized {
	case "SHOW_ALL", "ALL":
		return ShowAll, nil
	case "SHOW_ACTIVE", "ACTIVE":
		return ShowActive, nil
	case "SHOW_COMPLETED", "COMPLETED", "DONE":
		return ShowCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// State is the whole application state.
type State struct {
	Todos            []Todo           `json:"todos"`
	VisibilityFilter VisibilityFilter `json:"visibility_filter"`
}

// GetTodo returns the todo with id, or nil if none matches.
func (s State) GetTodo(id int) *Todo {
	for i := range s.Todos {
		if s.Todos[i].ID == id {
			return &s.Todos[i]
		}
	}
	return nil
}

// HasID reports whether any todo uses id.
func (s State) HasID(id int) bool {
	return s.GetTodo(id) != nil
}

// MaxID returns the largest id in use, or -1 for an empty list.
func (s State) MaxID() int {
	max := -1
	for _, t := range s.Todos {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}
