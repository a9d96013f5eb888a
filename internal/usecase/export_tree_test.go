package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func seedExportTree(t *testing.T) *ExportTree {
	t.Helper()
	tree, _ := newTestTree(t)
	seed(t, tree, "A", "")
	seed(t, tree, "A1", "1.")
	seed(t, tree, "B", "")
	require.NoError(t, tree.SetDone(context.Background(), "1.a."))
	return NewExportTree(tree, &testutil.MockClock{NowTime: testNow})
}

func TestExportTree_Execute_YAML(t *testing.T) {
	// Setup
	uc := seedExportTree(t)

	// Execute
	out, err := uc.Execute(context.Background(), ExportTreeInput{})

	// Assert
	require.NoError(t, err)
	var doc TreeDocument
	require.NoError(t, yaml.Unmarshal(out.Data, &doc))
	assert.Equal(t, "March 09, 2026", doc.Date)
	require.Len(t, doc.Tasks, 2)
	assert.Equal(t, "1.", doc.Tasks[0].Label)
	assert.Equal(t, "A", doc.Tasks[0].Description)
	require.Len(t, doc.Tasks[0].Children, 1)
	assert.Equal(t, "1.a.", doc.Tasks[0].Children[0].Label)
	assert.Equal(t, "done", doc.Tasks[0].Children[0].Status)
	assert.Equal(t, "B", doc.Tasks[1].Description)
	assert.Empty(t, doc.Tasks[1].Children)
}

func TestExportTree_Execute_JSON(t *testing.T) {
	uc := seedExportTree(t)

	out, err := uc.Execute(context.Background(), ExportTreeInput{Format: "JSON"})

	require.NoError(t, err)
	var doc TreeDocument
	require.NoError(t, json.Unmarshal(out.Data, &doc))
	require.Len(t, doc.Tasks, 2)
	assert.Equal(t, "todo", doc.Tasks[0].Status)
	assert.Equal(t, "A1", doc.Tasks[0].Children[0].Description)
}

func TestExportTree_Execute_UnsupportedFormat(t *testing.T) {
	uc := seedExportTree(t)

	_, err := uc.Execute(context.Background(), ExportTreeInput{Format: "xml"})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestExportImport_RoundTrip(t *testing.T) {
	// Setup
	exported, err := seedExportTree(t).Execute(context.Background(), ExportTreeInput{Format: FormatJSON})
	require.NoError(t, err)
	target, _ := newTestTree(t)

	// Execute
	_, err = NewImportTree(target, domain.NopLogger{}).Execute(context.Background(), ImportTreeInput{Content: exported.Data})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "   1. A\n     1.a. --- A1 ---\n   2. B\n", target.String())
}
