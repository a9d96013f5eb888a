// Package domain contains core business entities and interfaces.
package domain

import "strings"

// Task represents a single to-do entry.
// Fields are ordered to minimize memory padding.
type Task struct {
	Description string `json:"description" yaml:"description"` // What needs doing (required)
	Status      Status `json:"status" yaml:"status"`           // todo or done
	Position    int    `json:"position" yaml:"-"`              // 1-based among siblings (0 = unset)
}

// NewTask creates a todo task with the given description and no position.
func NewTask(description string) Task {
	return Task{
		Description: strings.TrimSpace(description),
		Status:      StatusTodo,
	}
}

// IsDone returns true if the task has been completed.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

// Validate checks that the task can be stored.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// Record is one task row as held by the durable store.
// Fields are ordered to minimize memory padding.
type Record struct {
	Task     Task  // Task payload
	ID       int64 // Stable identifier assigned by the store
	ParentID int64 // Parent identifier (0 = none, root only)
	Depth    int   // Distance from the root (root = 0, mode = 1)
}

// IsRoot returns true if the record has no parent.
func (r Record) IsRoot() bool {
	return r.ParentID == 0
}

// NewRecord describes a task to insert into the durable store.
// Fields are ordered to minimize memory padding.
type NewRecord struct {
	Task     Task  // Task payload; Position 0 appends after the last sibling
	ID       int64 // Requested identifier (0 = let the store assign one)
	ParentID int64 // Parent identifier (required)
}
