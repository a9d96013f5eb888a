package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/mfnd/internal/domain"
)

// AddTaskInput contains the parameters for adding a task.
type AddTaskInput struct {
	Description string // Task description (required)
	Parent      string // Parent label (empty = top level)
}

// AddTaskOutput contains the result of adding a task.
type AddTaskOutput struct {
	Label string // Label of the new task
}

// AddTask is the use case for adding a single task outside the shell.
type AddTask struct {
	tree   TaskTree
	logger domain.Logger
}

// NewAddTask creates a new AddTask use case.
func NewAddTask(tree TaskTree, logger domain.Logger) *AddTask {
	return &AddTask{
		tree:   tree,
		logger: logger,
	}
}

// Execute inserts the task and returns its label.
func (uc *AddTask) Execute(ctx context.Context, in AddTaskInput) (*AddTaskOutput, error) {
	label, err := uc.tree.Insert(ctx, domain.NewTask(in.Description), in.Parent)
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	uc.logger.Info("task", fmt.Sprintf("added %s %q", label, in.Description))
	return &AddTaskOutput{Label: label}, nil
}
