// Package history provides the undo/redo command log of a session.
package history

import (
	"context"

	"github.com/runoshun/mfnd/internal/domain"
)

// Tree is the part of the task tree commands operate on.
// *tasktree.Tree satisfies it.
type Tree interface {
	Insert(ctx context.Context, task domain.Task, parentLabel string) (string, error)
	Delete(ctx context.Context, label string) (domain.Trace, error)
	InsertTrace(ctx context.Context, trace domain.Trace) (string, error)
	SetStatusByID(ctx context.Context, id int64, status domain.Status) error
	MoveUp(ctx context.Context, label string) (string, error)
	MoveDown(ctx context.Context, label string) (string, error)
	MoveTop(ctx context.Context, label string) (string, error)
	MoveBottom(ctx context.Context, label string) (string, error)
	Move(ctx context.Context, label string, position int) (string, int, error)
	MoveID(ctx context.Context, id int64, position int) (string, error)
	LookupID(label string) (int64, error)
	LookupLabel(id int64) (string, error)
	Status(id int64) (domain.Status, error)
	Position(id int64) (int, error)
}

// Command is a reversible mutation of the tree.
// Execute is also used for redo and must reproduce the same result.
type Command interface {
	Execute(ctx context.Context, tree Tree) error
	Undo(ctx context.Context, tree Tree) error
	Name() string
}

// Log records executed commands in a single linear timeline.
// Entries in [0, next) are done; entries in [next, max) can be redone.
type Log struct {
	tree    Tree
	entries []Command
	next    int
	max     int
}

// NewLog creates an empty log operating on tree.
func NewLog(tree Tree) *Log {
	return &Log{tree: tree}
}

// Do runs cmd and records it, discarding any redo branch.
// A command that fails is not recorded.
func (l *Log) Do(ctx context.Context, cmd Command) error {
	return l.execute(ctx, cmd, false)
}

func (l *Log) execute(ctx context.Context, cmd Command, isRedo bool) error {
	if err := cmd.Execute(ctx, l.tree); err != nil {
		return err
	}
	if isRedo {
		l.entries[l.next] = cmd
		l.next++
		return nil
	}
	l.entries = append(l.entries[:l.next], cmd)
	l.next++
	l.max = l.next
	return nil
}

// Undo reverts the most recent done command. It returns false when there
// is nothing to undo. If the inverse fails the cursor is left unchanged.
func (l *Log) Undo(ctx context.Context) (bool, error) {
	if l.next == 0 {
		return false, nil
	}
	cmd := l.entries[l.next-1]
	if err := cmd.Undo(ctx, l.tree); err != nil {
		return false, err
	}
	l.next--
	return true, nil
}

// Redo re-runs the most recently undone command. It returns false when
// there is nothing to redo.
func (l *Log) Redo(ctx context.Context) (bool, error) {
	if l.next == l.max {
		return false, nil
	}
	if err := l.execute(ctx, l.entries[l.next], true); err != nil {
		return false, err
	}
	return true, nil
}

// CanUndo reports whether Undo would do anything.
func (l *Log) CanUndo() bool { return l.next > 0 }

// CanRedo reports whether Redo would do anything.
func (l *Log) CanRedo() bool { return l.next < l.max }

// Len returns the number of done commands.
func (l *Log) Len() int { return l.next }

// Names returns the names of the done commands, oldest first.
func (l *Log) Names() []string {
	names := make([]string, l.next)
	for i, cmd := range l.entries[:l.next] {
		names[i] = cmd.Name()
	}
	return names
}
