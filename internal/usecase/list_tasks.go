package usecase

import (
	"context"

	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/tasktree"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct{}

// ListTasksOutput contains the rendered task list.
// Fields are ordered to minimize memory padding.
type ListTasksOutput struct {
	Header string          // Date header, e.g. "MFND - March 09, 2026"
	Text   string          // Indented listing, one task per line
	Lines  []tasktree.Line // Structured form of Text
}

// ListTasks is the use case for printing the task tree once.
type ListTasks struct {
	tree  TaskTree
	clock domain.Clock
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tree TaskTree, clock domain.Clock) *ListTasks {
	return &ListTasks{
		tree:  tree,
		clock: clock,
	}
}

// Execute renders the current tree.
func (uc *ListTasks) Execute(_ context.Context, _ ListTasksInput) (*ListTasksOutput, error) {
	return &ListTasksOutput{
		Header: domain.Header(uc.clock.Now()),
		Text:   uc.tree.String(),
		Lines:  uc.tree.Lines(),
	}, nil
}
