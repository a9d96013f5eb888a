package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/tasktree"
	"github.com/runoshun/mfnd/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var morning = time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "data", "todo_list.json"))
	require.NoError(t, s.Initialize(context.Background(), morning))
	return s
}

func modeID(t *testing.T, s *Store) int64 {
	t.Helper()
	records, err := s.Records(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(records), 2)
	return records[1].ID
}

func childDescriptions(t *testing.T, s *Store, parentID int64) ([]string, []int) {
	t.Helper()
	records, err := s.Records(context.Background())
	require.NoError(t, err)
	var descs []string
	var positions []int
	for _, r := range records {
		if r.ParentID == parentID && !r.IsRoot() {
			descs = append(descs, r.Task.Description)
			positions = append(positions, r.Task.Position)
		}
	}
	return descs, positions
}

func insert(t *testing.T, s *Store, parentID int64, desc string, pos int) int64 {
	t.Helper()
	task := domain.NewTask(desc)
	task.Position = pos
	id, err := s.Insert(context.Background(), domain.NewRecord{ParentID: parentID, Task: task})
	require.NoError(t, err)
	return id
}

func TestInitialize_SeedsRootAndMode(t *testing.T) {
	s := newTestStore(t)

	records, err := s.Records(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].IsRoot())
	assert.Equal(t, domain.RootDepth, records[0].Depth)
	assert.Equal(t, records[0].ID, records[1].ParentID)
	assert.Equal(t, domain.ModeDepth, records[1].Depth)
	assert.FileExists(t, s.Path())
}

func TestInitialize_PumpkinReset(t *testing.T) {
	tests := []struct {
		name      string
		next      time.Time
		wantTasks int
	}{
		{"same day keeps tasks", morning.Add(6 * time.Hour), 1},
		{"next day clears tasks", morning.Add(24 * time.Hour), 0},
		{"before next pumpkin keeps tasks", time.Date(2026, 3, 11, 3, 0, 0, 0, time.Local), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestStore(t)
			insert(t, s, modeID(t, s), "A", 0)

			require.NoError(t, s.Initialize(ctx, tt.next))

			records, err := s.Records(ctx)
			require.NoError(t, err)
			assert.Len(t, records, 2+tt.wantTasks)
		})
	}
}

func TestInsert_AppendsAndShifts(t *testing.T) {
	s := newTestStore(t)
	mode := modeID(t, s)

	insert(t, s, mode, "A", 0)
	insert(t, s, mode, "B", 0)
	insert(t, s, mode, "first", 1)
	insert(t, s, mode, "third", 3)
	insert(t, s, mode, "last", 99)

	descs, positions := childDescriptions(t, s, mode)
	assert.Equal(t, []string{"first", "A", "third", "B", "last"}, descs)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, positions)
}

func TestInsert_ExplicitID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	mode := modeID(t, s)
	id := insert(t, s, mode, "A", 0)
	require.NoError(t, s.Delete(ctx, id))

	got, err := s.Insert(ctx, domain.NewRecord{ID: id, ParentID: mode, Task: domain.NewTask("A")})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.Insert(ctx, domain.NewRecord{ID: id, ParentID: mode, Task: domain.NewTask("dup")})
	assert.ErrorIs(t, err, domain.ErrStoreTransaction)

	_, err = s.Insert(ctx, domain.NewRecord{ParentID: 999, Task: domain.NewTask("orphan")})
	assert.ErrorIs(t, err, domain.ErrStoreTransaction)
}

func TestDelete_CascadesAndRenumbers(t *testing.T) {
	// Setup
	ctx := context.Background()
	s := newTestStore(t)
	mode := modeID(t, s)
	insert(t, s, mode, "A", 0)
	b := insert(t, s, mode, "B", 0)
	insert(t, s, mode, "C", 0)
	b1 := insert(t, s, b, "B1", 0)
	insert(t, s, b1, "B1x", 0)

	// Execute
	require.NoError(t, s.Delete(ctx, b))

	// Assert
	descs, positions := childDescriptions(t, s, mode)
	assert.Equal(t, []string{"A", "C"}, descs)
	assert.Equal(t, []int{1, 2}, positions)
	records, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.ErrorIs(t, s.Delete(ctx, b), domain.ErrStoreTransaction)
}

func TestUpdateStatus_Persists(t *testing.T) {
	// Setup
	ctx := context.Background()
	s := newTestStore(t)
	id := insert(t, s, modeID(t, s), "A", 0)

	// Execute
	require.NoError(t, s.UpdateStatus(ctx, id, domain.StatusDone))

	// Assert
	content, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var data storeData
	require.NoError(t, json.Unmarshal(content, &data))
	assert.Equal(t, domain.StatusDone, data.Tasks[key(id)].Status)
	assert.True(t, morning.Equal(data.Meta.LastInitialized))
	assert.ErrorIs(t, s.UpdateStatus(ctx, 999, domain.StatusDone), domain.ErrStoreTransaction)
}

func TestPumpkinTime_DefaultAndConfigure(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todo_list.json")
	s := New(path, WithDefaultPumpkinTime(domain.PumpkinTime{Hour: 5}))

	p, err := s.PumpkinTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PumpkinTime{Hour: 5}, p)

	require.NoError(t, s.ConfigurePumpkinTime(ctx, domain.PumpkinTime{Hour: 22, Minute: 30}))

	p, err = New(path).PumpkinTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PumpkinTime{Hour: 22, Minute: 30}, p)
}

func TestRead_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo_list.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := New(path).Records(context.Background())

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestClosedStore_IsUnavailable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.Records(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.False(t, domain.IsRecoverable(err))

	_, err = s.Insert(ctx, domain.NewRecord{ParentID: 2, Task: domain.NewTask("x")})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestTree_OnJSON(t *testing.T) {
	// Setup
	ctx := context.Background()
	s := newTestStore(t)
	tree, err := tasktree.New(ctx, s, tasktree.WithClock(&testutil.MockClock{NowTime: morning}))
	require.NoError(t, err)
	for _, add := range []struct{ desc, parent string }{
		{"A", ""}, {"B", ""}, {"B1", "2."}, {"C", ""},
	} {
		_, err := tree.Insert(ctx, domain.NewTask(add.desc), add.parent)
		require.NoError(t, err)
	}
	require.NoError(t, tree.SetDone(ctx, "2.a."))

	// Execute
	reloaded, err := tasktree.New(ctx, New(s.Path()), tasktree.WithClock(&testutil.MockClock{NowTime: morning}))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "   1. A\n   2. B\n     2.a. --- B1 ---\n   3. C\n", reloaded.String())
}
