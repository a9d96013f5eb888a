package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"todo", StatusTodo},
		{"DONE", StatusDone},
		{" done ", StatusDone},
		{"0", StatusTodo},
		{"1", StatusDone},
		{"", StatusTodo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Status("in_progress").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatus_Toggle(t *testing.T) {
	assert.Equal(t, StatusDone, StatusTodo.Toggle())
	assert.Equal(t, StatusTodo, StatusDone.Toggle())
	assert.Equal(t, "done", StatusDone.String())
}
