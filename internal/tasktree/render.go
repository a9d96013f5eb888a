package tasktree

import (
	"strings"

	"github.com/runoshun/mfnd/internal/domain"
)

// EmptyTreeText is rendered when the tree has not been built.
const EmptyTreeText = "[Empty Task Tree]"

const indentUnit = "  "

// Line is one rendered task, in pre-order.
// Fields are ordered to minimize memory padding.
type Line struct {
	Label       string
	Description string
	ID          int64
	Level       int // 0 for top-level tasks
	Done        bool
}

// Text renders the line the way String does.
func (l Line) Text() string {
	indent := strings.Repeat(indentUnit, l.Level+1)
	if l.Done {
		return indent + " " + l.Label + " --- " + l.Description + " ---"
	}
	return indent + " " + l.Label + " " + l.Description
}

// Lines returns every task in pre-order with its label and level.
func (t *Tree) Lines() []Line {
	if t.mode == nil {
		return nil
	}
	var lines []Line
	var walk func(n *node)
	walk = func(n *node) {
		for _, c := range n.children {
			lines = append(lines, Line{
				Label:       c.label,
				Description: c.task.Description,
				ID:          c.id,
				Level:       c.depth - domain.FirstTaskDepth,
				Done:        c.task.IsDone(),
			})
			walk(c)
		}
	}
	walk(t.mode)
	return lines
}

// String renders the whole tree, one task per line.
func (t *Tree) String() string {
	if t.mode == nil {
		return EmptyTreeText
	}
	var b strings.Builder
	for _, l := range t.Lines() {
		b.WriteString(l.Text())
		b.WriteByte('\n')
	}
	return b.String()
}

// Snapshot is a nested, serializable copy of the tree.
// Fields are ordered to minimize memory padding.
type Snapshot struct {
	Task     domain.Task `json:"task" yaml:"task"`
	Label    string      `json:"label" yaml:"label"`
	Children []Snapshot  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Snapshot returns the top-level tasks with their subtrees.
func (t *Tree) Snapshot() []Snapshot {
	if t.mode == nil {
		return nil
	}
	return snapshotChildren(t.mode)
}

func snapshotChildren(n *node) []Snapshot {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]Snapshot, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, Snapshot{
			Task:     c.task,
			Label:    c.label,
			Children: snapshotChildren(c),
		})
	}
	return out
}
