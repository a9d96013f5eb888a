package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/runoshun/mfnd/internal/app"
	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContainer(t *testing.T) (*app.Container, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore()
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 9, 21, 0, 0, 0, time.Local)}
	return app.NewWithDeps(nil, store, clock, domain.NopLogger{}), store
}

// runRoot executes the root command with args and returns stdout.
func runRoot(t *testing.T, c *app.Container, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(c, "test-version")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func stubLaunchers(t *testing.T, terminal bool) (tuiCalled, replCalled *bool) {
	t.Helper()
	origTUI, origREPL, origTerm := launchTUIFunc, launchREPLFunc, isTerminalFunc
	t.Cleanup(func() {
		launchTUIFunc, launchREPLFunc, isTerminalFunc = origTUI, origREPL, origTerm
	})

	var tuiRan, replRan bool
	launchTUIFunc = func(context.Context, *app.Container, io.Reader, io.Writer) error {
		tuiRan = true
		return nil
	}
	launchREPLFunc = func(context.Context, *app.Container, io.Reader, io.Writer) error {
		replRan = true
		return nil
	}
	isTerminalFunc = func(io.Reader) bool { return terminal }
	return &tuiRan, &replRan
}

func TestNewRootCommand_NoArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		terminal bool
		plainCfg bool
		wantTUI  bool
	}{
		{"terminal launches TUI", nil, true, false, true},
		{"pipe launches REPL", nil, false, false, false},
		{"--plain launches REPL", []string{"--plain"}, true, false, false},
		{"[ui] plain launches REPL", nil, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tuiRan, replRan := stubLaunchers(t, tt.terminal)
			c, _ := newTestContainer(t)
			c.Config.UI.Plain = tt.plainCfg

			// Execute
			_, err := runRoot(t, c, "", tt.args...)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantTUI, *tuiRan)
			assert.Equal(t, !tt.wantTUI, *replRan)
		})
	}
}

func TestNewRootCommand_WithHelp_ShowsHelp(t *testing.T) {
	tuiRan, replRan := stubLaunchers(t, true)

	out, err := runRoot(t, nil, "", "--help")

	require.NoError(t, err)
	assert.False(t, *tuiRan)
	assert.False(t, *replRan)
	assert.Contains(t, out, "Task Commands:")
	assert.Contains(t, out, "pumpkin")
}

func TestNewRootCommand_Version(t *testing.T) {
	out, err := runRoot(t, nil, "", "--version")

	require.NoError(t, err)
	assert.Contains(t, out, "test-version")
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	c, _ := newTestContainer(t)
	c.Config.Warnings = []string{"unknown key colour"}

	out, err := runRoot(t, c, "", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: unknown key colour")
}

func TestLaunchREPL_RunsSession(t *testing.T) {
	// Setup
	c, _ := newTestContainer(t)
	var out bytes.Buffer

	// Execute
	err := launchREPL(context.Background(), c, strings.NewReader("todo A\nexit\n"), &out)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "   1. A")
	assert.Contains(t, out.String(), "MFND exiting ...")
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("")))
}
