package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/tasktree"
	"github.com/runoshun/mfnd/internal/testutil"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 9, 21, 0, 0, 0, time.Local)

func newTestTree(t *testing.T) (*tasktree.Tree, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore()
	tree, err := tasktree.New(context.Background(), store, tasktree.WithClock(&testutil.MockClock{NowTime: testNow}))
	require.NoError(t, err)
	return tree, store
}

func seed(t *testing.T, tree *tasktree.Tree, desc, parent string) string {
	t.Helper()
	label, err := tree.Insert(context.Background(), domain.NewTask(desc), parent)
	require.NoError(t, err)
	return label
}
