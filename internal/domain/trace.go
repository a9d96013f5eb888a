package domain

// TraceEntry is a value snapshot of one node of a removed subtree.
// Fields are ordered to minimize memory padding.
type TraceEntry struct {
	ParentLabel string // Label of the parent at capture time ("" = mode node)
	Task        Task   // Task payload including its position among siblings
	ID          int64  // Identifier the node had when captured
	ParentID    int64  // Parent identifier at capture time
	Depth       int    // Depth at capture time
}

// Trace is an immutable pre-order snapshot of a subtree, parent before
// children, sufficient to reinsert the identical subtree.
type Trace struct {
	entries []TraceEntry
}

// NewTrace copies entries into a new Trace.
func NewTrace(entries []TraceEntry) Trace {
	cp := make([]TraceEntry, len(entries))
	copy(cp, entries)
	return Trace{entries: cp}
}

// Len returns the number of captured nodes.
func (t Trace) Len() int {
	return len(t.entries)
}

// IsEmpty returns true if nothing was captured.
func (t Trace) IsEmpty() bool {
	return len(t.entries) == 0
}

// Entries returns a copy of the captured entries.
func (t Trace) Entries() []TraceEntry {
	cp := make([]TraceEntry, len(t.entries))
	copy(cp, t.entries)
	return cp
}

// Root returns the entry the subtree hangs from.
func (t Trace) Root() (TraceEntry, bool) {
	if len(t.entries) == 0 {
		return TraceEntry{}, false
	}
	return t.entries[0], true
}

// WithRootPosition returns a copy of the trace whose root entry is placed
// at position.
func (t Trace) WithRootPosition(position int) Trace {
	out := NewTrace(t.entries)
	if len(out.entries) > 0 {
		out.entries[0].Task.Position = position
	}
	return out
}
