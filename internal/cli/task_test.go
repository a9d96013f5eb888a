package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand(t *testing.T) {
	// Setup
	c, _ := newTestContainer(t)
	_, err := runRoot(t, c, "", "add", "Buy", "milk")
	require.NoError(t, err)
	_, err = runRoot(t, c, "", "add", "--parent", "1", "Whole")
	require.NoError(t, err)

	// Execute
	out, err := runRoot(t, c, "", "list")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "MFND - March 09, 2026\n\n   1. Buy milk\n     1.a. Whole\n", out)
}

func TestAddCommand(t *testing.T) {
	c, _ := newTestContainer(t)

	out, err := runRoot(t, c, "", "add", "Call", "mom")

	require.NoError(t, err)
	assert.Equal(t, "Added task 1.\n", out)
}

func TestAddCommand_Errors(t *testing.T) {
	tests := []struct {
		want error
		name string
		args []string
	}{
		{domain.ErrLabelNotFound, "unknown parent", []string{"add", "-p", "3", "x"}},
		{nil, "no description", []string{"add"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContainer(t)

			_, err := runRoot(t, c, "", tt.args...)

			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestExportCommand_JSON(t *testing.T) {
	// Setup
	c, _ := newTestContainer(t)
	_, err := runRoot(t, c, "", "add", "A")
	require.NoError(t, err)

	// Execute
	out, err := runRoot(t, c, "", "export", "--format", "json")

	// Assert
	require.NoError(t, err)
	var doc usecase.TreeDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, "A", doc.Tasks[0].Description)
}

func TestExportCommand_BadFormat(t *testing.T) {
	c, _ := newTestContainer(t)

	_, err := runRoot(t, c, "", "export", "-f", "csv")

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestImportCommand(t *testing.T) {
	// Setup
	c, _ := newTestContainer(t)
	file := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(file, []byte("tasks:\n  - description: A\n    children:\n      - description: A1\n"), 0o644))

	// Execute
	out, err := runRoot(t, c, "", "import", file)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 tasks\n", out)
	list, err := runRoot(t, c, "", "list")
	require.NoError(t, err)
	assert.Contains(t, list, "     1.a. A1\n")
}

func TestImportCommand_Stdin(t *testing.T) {
	c, _ := newTestContainer(t)

	out, err := runRoot(t, c, `{"tasks": [{"description": "From stdin"}]}`, "import", "-")

	require.NoError(t, err)
	assert.Equal(t, "Imported 1 tasks\n", out)
}

func TestImportCommand_MissingFile(t *testing.T) {
	c, _ := newTestContainer(t)

	_, err := runRoot(t, c, "", "import", filepath.Join(t.TempDir(), "none.yaml"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPumpkinCommand(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)

	// Execute
	set, err := runRoot(t, c, "", "pumpkin", "0230")
	require.NoError(t, err)
	show, err := runRoot(t, c, "", "pumpkin")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "Pumpkin time set to 02:30 (was 04:00)\n", set)
	assert.Equal(t, "Pumpkin time is 02:30\n", show)
	assert.Equal(t, domain.PumpkinTime{Hour: 2, Minute: 30}, store.Pumpkin)
}

func TestPumpkinCommand_Invalid(t *testing.T) {
	c, _ := newTestContainer(t)

	_, err := runRoot(t, c, "", "pumpkin", "2500")

	assert.ErrorIs(t, err, domain.ErrInvalidPumpkinTime)
}
