// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/runoshun/mfnd/internal/domain"
)

// errStoreClosed is returned by every MemoryStore operation after Close.
var errStoreClosed = fmt.Errorf("%w: store closed", domain.ErrStoreUnavailable)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MemoryStore is an in-memory domain.TaskStore honoring the same ordering
// and renumbering contract as the SQLite store.
// Fields are ordered to minimize memory padding.
type MemoryStore struct {
	LastInit  time.Time
	records   map[int64]*domain.Record
	InsertErr error
	DeleteErr error
	UpdateErr error
	ReadErr   error
	Pumpkin   domain.PumpkinTime
	nextID    int64
	Resets    int
	mu        sync.Mutex
	closed    bool
}

// NewMemoryStore creates an empty MemoryStore using the default pumpkin time.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[int64]*domain.Record),
		Pumpkin: domain.DefaultPumpkinTime,
		nextID:  1,
	}
}

// Initialize seeds root and mode nodes and applies the pumpkin reset.
func (m *MemoryStore) Initialize(_ context.Context, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Pumpkin.ShouldReset(m.LastInit, now) {
		m.records = make(map[int64]*domain.Record)
		m.Resets++
	}
	if m.rootLocked() == nil {
		rootID := m.allocLocked()
		m.records[rootID] = &domain.Record{
			ID:    rootID,
			Depth: domain.RootDepth,
			Task:  domain.Task{Description: "root", Status: domain.StatusTodo, Position: 1},
		}
		modeID := m.allocLocked()
		m.records[modeID] = &domain.Record{
			ID:       modeID,
			ParentID: rootID,
			Depth:    domain.ModeDepth,
			Task:     domain.Task{Description: "default", Status: domain.StatusTodo, Position: 1},
		}
	}
	m.LastInit = now
	return nil
}

// Records returns copies of all records ordered by depth, then position.
func (m *MemoryStore) Records(_ context.Context) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errStoreClosed
	}
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	out := make([]domain.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b domain.Record) int {
		if a.Depth != b.Depth {
			return a.Depth - b.Depth
		}
		if a.ParentID != b.ParentID {
			return int(a.ParentID - b.ParentID)
		}
		return a.Task.Position - b.Task.Position
	})
	return out, nil
}

// Insert adds a record and shifts later siblings.
func (m *MemoryStore) Insert(_ context.Context, rec domain.NewRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, errStoreClosed
	}
	if m.InsertErr != nil {
		return 0, m.InsertErr
	}
	parent, ok := m.records[rec.ParentID]
	if !ok {
		return 0, fmt.Errorf("%w: parent %d does not exist", domain.ErrStoreTransaction, rec.ParentID)
	}
	id := rec.ID
	if id == 0 {
		id = m.allocLocked()
	} else if _, used := m.records[id]; used {
		return 0, fmt.Errorf("%w: id %d already in use", domain.ErrStoreTransaction, id)
	} else if id >= m.nextID {
		m.nextID = id + 1
	}

	siblings := m.childrenLocked(rec.ParentID)
	pos := rec.Task.Position
	if pos < 1 || pos > len(siblings)+1 {
		pos = len(siblings) + 1
	}
	for _, s := range siblings {
		if s.Task.Position >= pos {
			s.Task.Position++
		}
	}

	task := rec.Task
	task.Position = pos
	if task.Status == "" {
		task.Status = domain.StatusTodo
	}
	m.records[id] = &domain.Record{
		ID:       id,
		ParentID: rec.ParentID,
		Depth:    parent.Depth + 1,
		Task:     task,
	}
	return id, nil
}

// Delete removes a record with its descendants and closes the gap.
func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errStoreClosed
	}
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	rec, ok := m.records[id]
	if !ok {
		return fmt.Errorf("%w: id %d does not exist", domain.ErrStoreTransaction, id)
	}
	parentID, pos := rec.ParentID, rec.Task.Position

	queue := []int64{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range m.childrenLocked(cur) {
			queue = append(queue, c.ID)
		}
		delete(m.records, cur)
	}
	for _, s := range m.childrenLocked(parentID) {
		if s.Task.Position > pos {
			s.Task.Position--
		}
	}
	return nil
}

// UpdateStatus sets the status of a record.
func (m *MemoryStore) UpdateStatus(_ context.Context, id int64, status domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errStoreClosed
	}
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	rec, ok := m.records[id]
	if !ok {
		return fmt.Errorf("%w: id %d does not exist", domain.ErrStoreTransaction, id)
	}
	rec.Task.Status = status
	return nil
}

// PumpkinTime returns the configured pumpkin time.
func (m *MemoryStore) PumpkinTime(_ context.Context) (domain.PumpkinTime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return domain.PumpkinTime{}, errStoreClosed
	}
	return m.Pumpkin, nil
}

// ConfigurePumpkinTime sets the pumpkin time.
func (m *MemoryStore) ConfigurePumpkinTime(_ context.Context, p domain.PumpkinTime) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errStoreClosed
	}
	m.Pumpkin = p
	return nil
}

// Close marks the store closed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (m *MemoryStore) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Positions returns the sibling positions under parentID in order.
func (m *MemoryStore) Positions(parentID int64) []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	children := m.childrenLocked(parentID)
	out := make([]int, len(children))
	for i, c := range children {
		out[i] = c.Task.Position
	}
	return out
}

// ParentIDs returns every id that has at least one child, plus the root.
func (m *MemoryStore) ParentIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[int64]bool)
	for _, r := range m.records {
		if r.ParentID != 0 {
			seen[r.ParentID] = true
		}
	}
	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of stored records, including root and mode.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *MemoryStore) allocLocked() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MemoryStore) rootLocked() *domain.Record {
	for _, r := range m.records {
		if r.IsRoot() {
			return r
		}
	}
	return nil
}

func (m *MemoryStore) childrenLocked(parentID int64) []*domain.Record {
	var out []*domain.Record
	for _, r := range m.records {
		if r.ParentID == parentID && !r.IsRoot() {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Record) int {
		return a.Task.Position - b.Task.Position
	})
	return out
}

// Ensure MemoryStore implements domain.TaskStore.
var _ domain.TaskStore = (*MemoryStore)(nil)

// LogEntry is one message captured by RecordingLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// RecordingLogger is a domain.Logger that keeps every message.
type RecordingLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (l *RecordingLogger) add(level, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Info records an info message.
func (l *RecordingLogger) Info(category, msg string) { l.add("INFO", category, msg) }

// Debug records a debug message.
func (l *RecordingLogger) Debug(category, msg string) { l.add("DEBUG", category, msg) }

// Warn records a warning message.
func (l *RecordingLogger) Warn(category, msg string) { l.add("WARN", category, msg) }

// Error records an error message.
func (l *RecordingLogger) Error(category, msg string) { l.add("ERROR", category, msg) }

// Ensure RecordingLogger implements domain.Logger.
var _ domain.Logger = (*RecordingLogger)(nil)

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
	Infos   []domain.ConfigInfo
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// Sources returns the configured infos.
func (m *MockConfigLoader) Sources() []domain.ConfigInfo {
	return m.Infos
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitErr    error
	Written    *domain.Config
	Path       string
	InitCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{Path: "/home/test/.config/mfnd/config.toml"}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// InitGlobalConfig records the call.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	m.InitCalled = true
	if m.InitErr != nil {
		return m.Path, m.InitErr
	}
	m.Written = cfg
	return m.Path, nil
}
