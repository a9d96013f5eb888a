package domain

import (
	"fmt"
	"strings"
)

// Status represents the completion state of a task.
type Status string

const (
	StatusTodo Status = "todo" // Not yet completed
	StatusDone Status = "done" // Completed
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusTodo, StatusDone}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	return s == StatusTodo || s == StatusDone
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusDone {
		return StatusTodo
	}
	return StatusDone
}

// ParseStatus converts a stored string into a Status.
// Legacy integer encodings ("0", "1") are accepted.
func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "todo", "0", "":
		return StatusTodo, nil
	case "done", "1":
		return StatusDone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
}

// String returns the status as a string.
func (s Status) String() string {
	return string(s)
}
