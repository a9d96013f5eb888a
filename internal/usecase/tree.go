// Package usecase contains the application use cases.
package usecase

import (
	"context"

	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/tasktree"
)

// TaskTree is the part of the task tree the use cases read and extend.
// *tasktree.Tree satisfies it.
type TaskTree interface {
	Insert(ctx context.Context, task domain.Task, parentLabel string) (string, error)
	String() string
	Lines() []tasktree.Line
	Snapshot() []tasktree.Snapshot
	Size() int
}

var _ TaskTree = (*tasktree.Tree)(nil)
