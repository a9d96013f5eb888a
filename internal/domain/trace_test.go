package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrace_IsImmutable(t *testing.T) {
	entries := []TraceEntry{
		{ID: 1, Task: Task{Description: "A", Position: 2}},
		{ID: 2, ParentID: 1, ParentLabel: "2.", Task: Task{Description: "A1", Position: 1}},
	}
	trace := NewTrace(entries)

	// Mutating the source slice does not leak into the trace.
	entries[0].Task.Description = "changed"
	got := trace.Entries()
	assert.Equal(t, "A", got[0].Task.Description)

	// Mutating the returned copy does not leak either.
	got[1].Task.Description = "changed"
	assert.Equal(t, "A1", trace.Entries()[1].Task.Description)
}

func TestTrace_WithRootPosition(t *testing.T) {
	trace := NewTrace([]TraceEntry{
		{ID: 1, Task: Task{Description: "A", Position: 2}},
		{ID: 2, ParentID: 1, Task: Task{Description: "A1", Position: 1}},
	})

	moved := trace.WithRootPosition(5)

	root, ok := moved.Root()
	assert.True(t, ok)
	assert.Equal(t, 5, root.Task.Position)
	assert.Equal(t, 1, moved.Entries()[1].Task.Position)

	orig, _ := trace.Root()
	assert.Equal(t, 2, orig.Task.Position)
}

func TestTrace_Empty(t *testing.T) {
	var trace Trace
	assert.True(t, trace.IsEmpty())
	_, ok := trace.Root()
	assert.False(t, ok)
	assert.Equal(t, 0, trace.WithRootPosition(3).Len())
}
