package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/runoshun/mfnd/internal/domain"
)

// AddTask inserts a task under Parent ("" = top level).
// Fields are ordered to minimize memory padding.
type AddTask struct {
	Task   domain.Task
	Parent string
	Label  string       // Label assigned by the last Execute
	trace  domain.Trace // Captured by Undo, replayed by redo
	id     int64
}

// NewAddTask creates a top-level add.
func NewAddTask(description string) *AddTask {
	return &AddTask{Task: domain.NewTask(description)}
}

// Execute inserts the task, or on redo restores the exact node removed by Undo.
func (c *AddTask) Execute(ctx context.Context, tree Tree) error {
	var (
		label string
		err   error
	)
	if c.trace.IsEmpty() {
		label, err = tree.Insert(ctx, c.Task, c.Parent)
	} else {
		label, err = tree.InsertTrace(ctx, c.trace)
	}
	if err != nil {
		return err
	}
	id, err := tree.LookupID(label)
	if err != nil {
		return err
	}
	c.Label, c.id = label, id
	return nil
}

// Undo removes the inserted task.
func (c *AddTask) Undo(ctx context.Context, tree Tree) error {
	label, err := tree.LookupLabel(c.id)
	if err != nil {
		return err
	}
	trace, err := tree.Delete(ctx, label)
	if err != nil {
		return err
	}
	c.trace = trace
	return nil
}

// Name returns the shell verb.
func (c *AddTask) Name() string { return "todo" }

// AddSubtask inserts a task under an existing one.
type AddSubtask struct {
	AddTask
}

// NewAddSubtask creates an add under parentLabel.
func NewAddSubtask(parentLabel, description string) *AddSubtask {
	return &AddSubtask{AddTask: AddTask{
		Task:   domain.NewTask(description),
		Parent: parentLabel,
	}}
}

// Name returns the shell verb.
func (c *AddSubtask) Name() string { return "todosub" }

// MarkDone completes the task at Label.
// Fields are ordered to minimize memory padding.
type MarkDone struct {
	Label    string
	previous domain.Status
	id       int64
}

// NewMarkDone creates a completion of the task at label.
func NewMarkDone(label string) *MarkDone {
	return &MarkDone{Label: label}
}

// Execute marks the task done, remembering its previous status.
func (c *MarkDone) Execute(ctx context.Context, tree Tree) error {
	id := c.id
	if id == 0 {
		var err error
		if id, err = tree.LookupID(c.Label); err != nil {
			return err
		}
	}
	prev, err := tree.Status(id)
	if err != nil {
		return err
	}
	if err := tree.SetStatusByID(ctx, id, domain.StatusDone); err != nil {
		return err
	}
	c.id, c.previous = id, prev
	return nil
}

// Undo restores the previous status.
func (c *MarkDone) Undo(ctx context.Context, tree Tree) error {
	return tree.SetStatusByID(ctx, c.id, c.previous)
}

// Name returns the shell verb.
func (c *MarkDone) Name() string { return "done" }

// Remove deletes the task at Label with its subtree.
// Fields are ordered to minimize memory padding.
type Remove struct {
	Label string
	trace domain.Trace
	id    int64
}

// NewRemove creates a removal of the task at label.
func NewRemove(label string) *Remove {
	return &Remove{Label: label}
}

// Execute deletes the subtree and keeps its trace.
func (c *Remove) Execute(ctx context.Context, tree Tree) error {
	label := c.Label
	if c.id != 0 {
		var err error
		if label, err = tree.LookupLabel(c.id); err != nil {
			return err
		}
	}
	trace, err := tree.Delete(ctx, label)
	if err != nil {
		return err
	}
	root, _ := trace.Root()
	c.trace, c.id = trace, root.ID
	return nil
}

// Undo reinserts the removed subtree.
func (c *Remove) Undo(ctx context.Context, tree Tree) error {
	_, err := tree.InsertTrace(ctx, c.trace)
	return err
}

// Name returns the shell verb.
func (c *Remove) Name() string { return "remove" }

// MoveKind selects how Move repositions a task.
type MoveKind int

// Move kinds.
const (
	MoveUp MoveKind = iota
	MoveDown
	MoveTop
	MoveBottom
	MoveTo
)

var moveKindNames = map[MoveKind]string{
	MoveUp:     "up",
	MoveDown:   "down",
	MoveTop:    "top",
	MoveBottom: "bottom",
	MoveTo:     "to",
}

func (k MoveKind) String() string {
	return moveKindNames[k]
}

// ParseMoveTarget reads a move direction ("up", "down", "top", "bottom")
// or a 1-based position.
func ParseMoveTarget(s string) (MoveKind, int, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for k, name := range moveKindNames {
		if k != MoveTo && name == v {
			return k, 0, nil
		}
	}
	pos, err := strconv.Atoi(v)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q (expected up, down, top, bottom or a number)", domain.ErrInvalidPosition, s)
	}
	return MoveTo, pos, nil
}

// Move repositions the task at Label among its siblings.
// Fields are ordered to minimize memory padding.
type Move struct {
	Label    string
	NewLabel string // Label after the last Execute
	Kind     MoveKind
	Position int // Target for MoveTo
	id       int64
	oldPos   int
	newPos   int
}

// NewMove creates a move of the task at label.
func NewMove(label string, kind MoveKind, position int) *Move {
	return &Move{Label: label, Kind: kind, Position: position}
}

// Execute moves the task. On redo the task is found by identifier and
// placed at the position the first run produced.
func (c *Move) Execute(ctx context.Context, tree Tree) error {
	if c.id != 0 {
		label, err := tree.MoveID(ctx, c.id, c.newPos)
		if err != nil {
			return err
		}
		c.NewLabel = label
		return nil
	}

	id, err := tree.LookupID(c.Label)
	if err != nil {
		return err
	}
	oldPos, err := tree.Position(id)
	if err != nil {
		return err
	}

	var label string
	switch c.Kind {
	case MoveUp:
		label, err = tree.MoveUp(ctx, c.Label)
	case MoveDown:
		label, err = tree.MoveDown(ctx, c.Label)
	case MoveTop:
		label, err = tree.MoveTop(ctx, c.Label)
	case MoveBottom:
		label, err = tree.MoveBottom(ctx, c.Label)
	case MoveTo:
		label, oldPos, err = tree.Move(ctx, c.Label, c.Position)
	default:
		err = fmt.Errorf("unknown move kind %d", c.Kind)
	}
	if err != nil {
		return err
	}
	newPos, err := tree.Position(id)
	if err != nil {
		return err
	}

	c.id, c.oldPos, c.newPos, c.NewLabel = id, oldPos, newPos, label
	return nil
}

// Undo moves the task back to its previous position.
func (c *Move) Undo(ctx context.Context, tree Tree) error {
	_, err := tree.MoveID(ctx, c.id, c.oldPos)
	return err
}

// Name returns the shell verb.
func (c *Move) Name() string { return "move " + c.Kind.String() }
