// Package jsonstore provides a JSON file-based implementation of domain.TaskStore.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/runoshun/mfnd/internal/domain"
)

// Descriptions of the seeded synthetic nodes.
const (
	rootDescription = "root"
	modeDescription = "default"
)

var errClosed = fmt.Errorf("%w: store closed", domain.ErrStoreUnavailable)

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Tasks map[string]*taskData `json:"tasks"`
	Meta  meta                 `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	LastInitialized time.Time `json:"lastInitialized"`
	PumpkinTime     string    `json:"pumpkinTime,omitempty"`
	NextID          int64     `json:"nextID"`
}

// taskData is the JSON representation of a record (without ID, which is the map key).
type taskData struct {
	domain.Task
	ParentID int64 `json:"parentID"`
	Depth    int   `json:"depth"`
}

// Store implements domain.TaskStore using a JSON file guarded by a lock file.
// Fields are ordered to minimize memory padding.
type Store struct {
	path           string
	lockPath       string
	defaultPumpkin domain.PumpkinTime
	closed         bool
}

// Option configures a Store.
type Option func(*Store)

// WithDefaultPumpkinTime sets the reset time used until one is configured.
func WithDefaultPumpkinTime(p domain.PumpkinTime) Option {
	return func(s *Store) { s.defaultPumpkin = p }
}

// New creates a new Store for the given file path.
// The file does not need to exist; Initialize creates it.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:           path,
		lockPath:       path + ".lock",
		defaultPumpkin: domain.DefaultPumpkinTime,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Initialize applies the pumpkin reset, seeds the root and mode nodes and
// records now as the last initialization time.
func (s *Store) Initialize(_ context.Context, now time.Time) error {
	return s.withLockWrite("initialize", func(data *storeData) error {
		pumpkin, err := s.pumpkinTime(data)
		if err != nil {
			return err
		}
		if pumpkin.ShouldReset(data.Meta.LastInitialized, now) {
			data.Tasks = make(map[string]*taskData)
		}
		if !hasRoot(data) {
			rootID := alloc(data)
			data.Tasks[key(rootID)] = &taskData{
				Task:  domain.Task{Description: rootDescription, Status: domain.StatusTodo, Position: 1},
				Depth: domain.RootDepth,
			}
			modeID := alloc(data)
			data.Tasks[key(modeID)] = &taskData{
				Task:     domain.Task{Description: modeDescription, Status: domain.StatusTodo, Position: 1},
				ParentID: rootID,
				Depth:    domain.ModeDepth,
			}
		}
		data.Meta.LastInitialized = now
		return nil
	})
}

// Records returns every record ordered by depth, then position.
func (s *Store) Records(_ context.Context) ([]domain.Record, error) {
	var out []domain.Record
	err := s.withLock("records", func(data *storeData) error {
		out = make([]domain.Record, 0, len(data.Tasks))
		for k, t := range data.Tasks {
			id, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				return fmt.Errorf("parse task id %q: %w", k, err)
			}
			out = append(out, domain.Record{Task: t.Task, ID: id, ParentID: t.ParentID, Depth: t.Depth})
		}
		return nil
	})
	if err != nil {
		return nil, err
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

// Insert stores a new record, shifting siblings at or after its position.
func (s *Store) Insert(_ context.Context, rec domain.NewRecord) (int64, error) {
	var id int64
	err := s.withLockWrite("insert", func(data *storeData) error {
		parent, ok := data.Tasks[key(rec.ParentID)]
		if !ok {
			return fmt.Errorf("parent %d does not exist", rec.ParentID)
		}
		id = rec.ID
		switch {
		case id == 0:
			id = alloc(data)
		case data.Tasks[key(id)] != nil:
			return fmt.Errorf("id %d already in use", id)
		case id >= data.Meta.NextID:
			data.Meta.NextID = id + 1
		}

		siblings := children(data, rec.ParentID)
		pos := rec.Task.Position
		if pos < 1 || pos > len(siblings)+1 {
			pos = len(siblings) + 1
		}
		for _, t := range siblings {
			if t.Position >= pos {
				t.Position++
			}
		}

		task := rec.Task
		task.Position = pos
		if task.Status == "" {
			task.Status = domain.StatusTodo
		}
		data.Tasks[key(id)] = &taskData{Task: task, ParentID: rec.ParentID, Depth: parent.Depth + 1}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Delete removes a record with its descendants and closes the position gap.
func (s *Store) Delete(_ context.Context, id int64) error {
	return s.withLockWrite("delete", func(data *storeData) error {
		t, ok := data.Tasks[key(id)]
		if !ok {
			return fmt.Errorf("id %d does not exist", id)
		}
		parentID, pos := t.ParentID, t.Position

		queue := []int64{id}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for k, c := range data.Tasks {
				if c.ParentID == cur {
					childID, _ := strconv.ParseInt(k, 10, 64)
					queue = append(queue, childID)
				}
			}
			delete(data.Tasks, key(cur))
		}
		for _, sib := range children(data, parentID) {
			if sib.Position > pos {
				sib.Position--
			}
		}
		return nil
	})
}

// UpdateStatus sets the completion status of a record.
func (s *Store) UpdateStatus(_ context.Context, id int64, status domain.Status) error {
	return s.withLockWrite("update status", func(data *storeData) error {
		t, ok := data.Tasks[key(id)]
		if !ok {
			return fmt.Errorf("id %d does not exist", id)
		}
		t.Status = status
		return nil
	})
}

// PumpkinTime returns the configured daily reset time.
func (s *Store) PumpkinTime(_ context.Context) (domain.PumpkinTime, error) {
	var p domain.PumpkinTime
	err := s.withLock("pumpkin time", func(data *storeData) error {
		var err error
		p, err = s.pumpkinTime(data)
		return err
	})
	return p, err
}

// ConfigurePumpkinTime persists a new daily reset time.
func (s *Store) ConfigurePumpkinTime(_ context.Context, p domain.PumpkinTime) error {
	return s.withLockWrite("configure pumpkin time", func(data *storeData) error {
		data.Meta.PumpkinTime = p.String()
		return nil
	})
}

// Close marks the store closed. Later operations fail as unavailable.
func (s *Store) Close() error {
	s.closed = true
	return nil
}

func (s *Store) pumpkinTime(data *storeData) (domain.PumpkinTime, error) {
	if data.Meta.PumpkinTime == "" {
		return s.defaultPumpkin, nil
	}
	return domain.ParsePumpkinTime(data.Meta.PumpkinTime)
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(op string, fn func(*storeData) error) error {
	if s.closed {
		return errClosed
	}
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(data); err != nil {
		return classify(op, err)
	}
	return nil
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(op string, fn func(*storeData) error) error {
	if s.closed {
		return errClosed
	}
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(data); err != nil {
		return classify(op, err)
	}
	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("%w: create lock directory: %w", domain.ErrStoreUnavailable, err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: open lock file: %w", domain.ErrStoreUnavailable, err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("%w: acquire lock: %w", domain.ErrStoreUnavailable, err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// read loads the store file. A missing file reads as an empty store.
func (s *Store) read() (*storeData, error) {
	data := storeData{Meta: meta{NextID: 1}}
	content, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("%w: read store file: %w", domain.ErrStoreUnavailable, err)
	default:
		if err := json.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("%w: parse store file: %w", domain.ErrStoreUnavailable, err)
		}
	}

	if data.Tasks == nil {
		data.Tasks = make(map[string]*taskData)
	}
	if data.Meta.NextID < 1 {
		data.Meta.NextID = 1
	}
	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal store data: %w", domain.ErrStoreTransaction, err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("%w: write temp file: %w", domain.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: rename temp file: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// classify wraps a failed mutation as ErrStoreTransaction.
func classify(op string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) || errors.Is(err, domain.ErrStoreTransaction) {
		return err
	}
	if errors.Is(err, domain.ErrInvalidPumpkinTime) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreTransaction, op, err)
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}

func alloc(data *storeData) int64 {
	id := data.Meta.NextID
	data.Meta.NextID++
	return id
}

func hasRoot(data *storeData) bool {
	for _, t := range data.Tasks {
		if t.ParentID == 0 {
			return true
		}
	}
	return false
}

// children returns the direct children of parentID sorted by position.
func children(data *storeData, parentID int64) []*taskData {
	var out []*taskData
	for _, t := range data.Tasks {
		if t.ParentID == parentID && t.Depth != domain.RootDepth {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *taskData) int {
		return a.Position - b.Position
	})
	return out
}

// Ensure Store implements domain.TaskStore.
var _ domain.TaskStore = (*Store)(nil)
