package tasktree

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/mfnd/internal/domain"
)

// errEmptyTrace is returned when replaying a trace with no entries.
var errEmptyTrace = errors.New("empty trace")

// Insert adds task under parentLabel ("" = top level) and returns the
// label of the new node. A task without a position is appended.
func (t *Tree) Insert(ctx context.Context, task domain.Task, parentLabel string) (string, error) {
	if task.Status == "" {
		task.Status = domain.StatusTodo
	}
	if err := task.Validate(); err != nil {
		return "", err
	}
	parent, err := t.parentByLabel(parentLabel)
	if err != nil {
		return "", err
	}

	id, err := t.store.Insert(ctx, domain.NewRecord{ParentID: parent.id, Task: task})
	if err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}
	if err := t.Rebuild(ctx); err != nil {
		return "", err
	}
	return t.LookupLabel(id)
}

// Delete removes the node at label together with its subtree and returns
// the trace needed to restore it.
func (t *Tree) Delete(ctx context.Context, label string) (domain.Trace, error) {
	n, err := t.nodeByLabel(label)
	if err != nil {
		return domain.Trace{}, err
	}
	return t.deleteNode(ctx, n)
}

func (t *Tree) deleteNode(ctx context.Context, n *node) (domain.Trace, error) {
	trace := t.capture(n)
	if err := t.store.Delete(ctx, n.id); err != nil {
		return domain.Trace{}, fmt.Errorf("delete task: %w", err)
	}
	if err := t.Rebuild(ctx); err != nil {
		return domain.Trace{}, err
	}
	return trace, nil
}

// capture snapshots n and its descendants in pre-order.
func (t *Tree) capture(n *node) domain.Trace {
	var entries []domain.TraceEntry
	var walk func(cur *node)
	walk = func(cur *node) {
		entries = append(entries, domain.TraceEntry{
			ParentLabel: t.byID[cur.parentID].label,
			Task:        cur.task,
			ID:          cur.id,
			ParentID:    cur.parentID,
			Depth:       cur.depth,
		})
		for _, c := range cur.children {
			walk(c)
		}
	}
	walk(n)
	return domain.NewTrace(entries)
}

// InsertTrace reinserts a captured subtree and returns the label of its
// root. Nodes keep their original identifiers when those are free, so
// commands holding identifiers stay valid across undo and redo.
func (t *Tree) InsertTrace(ctx context.Context, trace domain.Trace) (string, error) {
	entries := trace.Entries()
	if len(entries) == 0 {
		return "", errEmptyTrace
	}

	rootParentID, err := t.traceParent(entries[0])
	if err != nil {
		return "", err
	}

	newIDs := make(map[int64]int64, len(entries))
	for i, e := range entries {
		parentID := rootParentID
		if i > 0 {
			mapped, ok := newIDs[e.ParentID]
			if !ok {
				t.rollbackTrace(ctx, newIDs, entries[0].ID)
				return "", fmt.Errorf("%w: trace entry %d has no parent in trace", domain.ErrStoreTransaction, e.ID)
			}
			parentID = mapped
		}

		want := e.ID
		if _, used := t.byID[want]; used {
			want = 0
		}
		id, err := t.store.Insert(ctx, domain.NewRecord{ID: want, ParentID: parentID, Task: e.Task})
		if err != nil {
			t.rollbackTrace(ctx, newIDs, entries[0].ID)
			return "", fmt.Errorf("reinsert task: %w", err)
		}
		newIDs[e.ID] = id
	}

	if err := t.Rebuild(ctx); err != nil {
		return "", err
	}
	return t.LookupLabel(newIDs[entries[0].ID])
}

// traceParent resolves the node a trace hangs from: by its captured
// label first, then by its captured identifier.
func (t *Tree) traceParent(root domain.TraceEntry) (int64, error) {
	if root.ParentLabel == "" {
		if root.Depth <= domain.FirstTaskDepth || root.ParentID == t.mode.id {
			return t.mode.id, nil
		}
	} else if parent, err := t.nodeByLabel(root.ParentLabel); err == nil {
		return parent.id, nil
	}
	if parent, ok := t.byID[root.ParentID]; ok && parent != t.root {
		return parent.id, nil
	}
	return 0, fmt.Errorf("%w: parent %q of trace", domain.ErrLabelNotFound, root.ParentLabel)
}

// rollbackTrace removes a partially replayed subtree.
func (t *Tree) rollbackTrace(ctx context.Context, newIDs map[int64]int64, rootID int64) {
	id, ok := newIDs[rootID]
	if !ok {
		return
	}
	if err := t.store.Delete(ctx, id); err != nil {
		t.logger.Error("tree", fmt.Sprintf("rollback of partial reinsert failed: %v", err))
	}
	if err := t.Rebuild(ctx); err != nil {
		t.logger.Error("tree", fmt.Sprintf("rebuild after rollback failed: %v", err))
	}
}

// SetDone marks the node at label as done.
func (t *Tree) SetDone(ctx context.Context, label string) error {
	return t.setStatusByLabel(ctx, label, domain.StatusDone)
}

// SetUndone marks the node at label as todo.
func (t *Tree) SetUndone(ctx context.Context, label string) error {
	return t.setStatusByLabel(ctx, label, domain.StatusTodo)
}

func (t *Tree) setStatusByLabel(ctx context.Context, label string, status domain.Status) error {
	n, err := t.nodeByLabel(label)
	if err != nil {
		return err
	}
	return t.SetStatusByID(ctx, n.id, status)
}

// SetStatusByID sets the completion status of the node with id.
func (t *Tree) SetStatusByID(ctx context.Context, id int64, status domain.Status) error {
	if !status.IsValid() {
		return domain.ErrInvalidStatus
	}
	if _, err := t.nodeByID(id); err != nil {
		return err
	}
	if err := t.store.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return t.Rebuild(ctx)
}
