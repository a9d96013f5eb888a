package tasktree

import (
	"context"
	"fmt"

	"github.com/runoshun/mfnd/internal/domain"
)

// MoveUp swaps the node at label with its previous sibling and returns
// its new label. The first sibling stays where it is.
func (t *Tree) MoveUp(ctx context.Context, label string) (string, error) {
	n, err := t.nodeByLabel(label)
	if err != nil {
		return "", err
	}
	return t.moveNode(ctx, n, n.task.Position-1)
}

// MoveDown swaps the node at label with its next sibling. The last
// sibling stays where it is.
func (t *Tree) MoveDown(ctx context.Context, label string) (string, error) {
	n, err := t.nodeByLabel(label)
	if err != nil {
		return "", err
	}
	return t.moveNode(ctx, n, n.task.Position+1)
}

// MoveTop makes the node at label the first of its siblings.
func (t *Tree) MoveTop(ctx context.Context, label string) (string, error) {
	n, err := t.nodeByLabel(label)
	if err != nil {
		return "", err
	}
	return t.moveNode(ctx, n, 1)
}

// MoveBottom makes the node at label the last of its siblings.
func (t *Tree) MoveBottom(ctx context.Context, label string) (string, error) {
	n, err := t.nodeByLabel(label)
	if err != nil {
		return "", err
	}
	return t.moveNode(ctx, n, len(t.byID[n.parentID].children))
}

// Move places the node at label at position among its siblings and
// returns its new label and its previous position. Positions outside
// [1, siblings] are rejected.
func (t *Tree) Move(ctx context.Context, label string, position int) (string, int, error) {
	n, err := t.nodeByLabel(label)
	if err != nil {
		return "", 0, err
	}
	count := len(t.byID[n.parentID].children)
	if position < 1 || position > count {
		return "", 0, fmt.Errorf("%w: %d (expected 1-%d)", domain.ErrInvalidPosition, position, count)
	}
	old := n.task.Position
	newLabel, err := t.moveNode(ctx, n, position)
	if err != nil {
		return "", 0, err
	}
	return newLabel, old, nil
}

// MoveID places the node with id at position, clamped to its sibling
// range, and returns its new label.
func (t *Tree) MoveID(ctx context.Context, id int64, position int) (string, error) {
	n, err := t.nodeByID(id)
	if err != nil {
		return "", err
	}
	return t.moveNode(ctx, n, position)
}

// moveNode removes n with its subtree and reinserts it under the same
// parent at target. A target equal to the current position is a no-op.
func (t *Tree) moveNode(ctx context.Context, n *node, target int) (string, error) {
	count := len(t.byID[n.parentID].children)
	target = max(1, min(target, count))
	if target == n.task.Position {
		return n.label, nil
	}

	trace, err := t.deleteNode(ctx, n)
	if err != nil {
		return "", err
	}
	newLabel, err := t.InsertTrace(ctx, trace.WithRootPosition(target))
	if err != nil {
		return "", fmt.Errorf("move task: %w", err)
	}
	t.logger.Debug("tree", fmt.Sprintf("moved %d to position %d", n.id, target))
	return newLabel, nil
}
