package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTask(t *testing.T) {
	task := NewTask("  buy milk ")

	assert.Equal(t, "buy milk", task.Description)
	assert.Equal(t, StatusTodo, task.Status)
	assert.Equal(t, 0, task.Position)
	assert.False(t, task.IsDone())
}

func TestRecord_IsRoot(t *testing.T) {
	assert.True(t, Record{ID: 1}.IsRoot())
	assert.False(t, Record{ID: 2, ParentID: 1}.IsRoot())
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(nil))
	assert.True(t, IsRecoverable(ErrLabelNotFound))
	assert.True(t, IsRecoverable(ErrStoreTransaction))
	assert.False(t, IsRecoverable(ErrStoreUnavailable))
}
