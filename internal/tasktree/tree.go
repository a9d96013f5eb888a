// Package tasktree provides the in-memory, label-addressed view of the
// task hierarchy held by a domain.TaskStore.
//
// The store is the source of truth. The tree is rebuilt from it after
// every structural change, since renumbering siblings changes the labels
// of every node that follows the changed position.
package tasktree

import (
	"context"
	"fmt"

	"github.com/runoshun/mfnd/internal/domain"
)

// node is one task in the tree.
// Fields are ordered to minimize memory padding.
type node struct {
	task     domain.Task
	label    string
	children []*node
	id       int64
	parentID int64
	depth    int
}

// Option configures a Tree.
type Option func(*Tree)

// WithLabelScheme sets the depth-to-encoding mapping used for labels.
func WithLabelScheme(s domain.LabelScheme) Option {
	return func(t *Tree) { t.scheme = s }
}

// WithClock sets the clock passed to the store on initialization.
func WithClock(c domain.Clock) Option {
	return func(t *Tree) { t.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l domain.Logger) Option {
	return func(t *Tree) { t.logger = l }
}

// Tree is the hierarchical index over the store's task records.
// Fields are ordered to minimize memory padding.
type Tree struct {
	store  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
	root   *node
	mode   *node
	byID   map[int64]*node
	scheme domain.LabelScheme
}

// New initializes the store (applying the pumpkin reset) and builds the
// tree from its records.
func New(ctx context.Context, store domain.TaskStore, opts ...Option) (*Tree, error) {
	t := &Tree{
		store:  store,
		clock:  domain.RealClock{},
		logger: domain.NopLogger{},
		scheme: domain.DefaultLabelScheme(),
		byID:   make(map[int64]*node),
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := store.Initialize(ctx, t.clock.Now()); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	if err := t.Rebuild(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Rebuild discards the in-memory structure and reconstructs it from the
// store, recomputing every label.
func (t *Tree) Rebuild(ctx context.Context) error {
	records, err := t.store.Records(ctx)
	if err != nil {
		return fmt.Errorf("read records: %w", err)
	}

	byID := make(map[int64]*node, len(records))
	var root, mode *node
	for _, r := range records {
		n := &node{
			id:       r.ID,
			parentID: r.ParentID,
			depth:    r.Depth,
			task:     r.Task,
		}
		byID[r.ID] = n

		if r.IsRoot() {
			if root == nil {
				root = n
			}
			continue
		}
		parent, ok := byID[r.ParentID]
		if !ok {
			t.logger.Warn("tree", fmt.Sprintf("skipping record %d: parent %d not found", r.ID, r.ParentID))
			delete(byID, r.ID)
			continue
		}
		n.depth = parent.depth + 1
		parent.children = append(parent.children, n)
		if n.depth == domain.ModeDepth && mode == nil {
			mode = n
		}
	}

	if root == nil || mode == nil {
		return domain.ErrNotInitialized
	}

	t.root, t.mode, t.byID = root, mode, byID
	t.assignLabels(mode)
	t.logger.Debug("tree", fmt.Sprintf("rebuilt: %d tasks", len(byID)-2))
	return nil
}

// assignLabels labels every descendant of parent from its position path.
func (t *Tree) assignLabels(parent *node) {
	for _, child := range parent.children {
		child.label = parent.label + t.scheme.Segment(child.depth, child.task.Position)
		t.assignLabels(child)
	}
}

// LookupID resolves a label to the stable identifier of its node.
func (t *Tree) LookupID(label string) (int64, error) {
	n, err := t.nodeByLabel(label)
	if err != nil {
		return 0, err
	}
	return n.id, nil
}

// LookupLabel returns the current label of the node with id.
func (t *Tree) LookupLabel(id int64) (string, error) {
	n, err := t.nodeByID(id)
	if err != nil {
		return "", err
	}
	return n.label, nil
}

// Status returns the completion status of the node with id.
func (t *Tree) Status(id int64) (domain.Status, error) {
	n, err := t.nodeByID(id)
	if err != nil {
		return "", err
	}
	return n.task.Status, nil
}

// Position returns the position of the node with id among its siblings.
func (t *Tree) Position(id int64) (int, error) {
	n, err := t.nodeByID(id)
	if err != nil {
		return 0, err
	}
	return n.task.Position, nil
}

// SiblingCount returns the number of children of the parent of the node
// with id, the node included.
func (t *Tree) SiblingCount(id int64) (int, error) {
	n, err := t.nodeByID(id)
	if err != nil {
		return 0, err
	}
	return len(t.byID[n.parentID].children), nil
}

// Len returns the number of children under parentLabel ("" = top level).
func (t *Tree) Len(parentLabel string) (int, error) {
	parent, err := t.parentByLabel(parentLabel)
	if err != nil {
		return 0, err
	}
	return len(parent.children), nil
}

// Size returns the number of user-visible tasks.
func (t *Tree) Size() int {
	if t.mode == nil {
		return 0
	}
	return len(t.byID) - 2
}

// nodeByLabel walks the position path of label down from the mode node.
func (t *Tree) nodeByLabel(label string) (*node, error) {
	if t.mode == nil {
		return nil, domain.ErrNotInitialized
	}
	path, err := t.scheme.Parse(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrLabelNotFound, label)
	}

	cur := t.mode
	for _, pos := range path {
		next := childAt(cur, pos)
		if next == nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrLabelNotFound, label)
		}
		cur = next
	}
	return cur, nil
}

// parentByLabel resolves a parent label; "" is the mode node.
func (t *Tree) parentByLabel(label string) (*node, error) {
	if t.mode == nil {
		return nil, domain.ErrNotInitialized
	}
	if label == "" {
		return t.mode, nil
	}
	return t.nodeByLabel(label)
}

func (t *Tree) nodeByID(id int64) (*node, error) {
	n, ok := t.byID[id]
	if !ok || n == t.root || n == t.mode {
		return nil, fmt.Errorf("%w: no task with id %d", domain.ErrLabelNotFound, id)
	}
	return n, nil
}

func childAt(parent *node, position int) *node {
	for _, c := range parent.children {
		if c.task.Position == position {
			return c
		}
	}
	return nil
}
