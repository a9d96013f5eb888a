package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/runoshun/mfnd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestREPL_Run(t *testing.T) {
	// Setup
	s, _, _ := newTestSession(t)
	in := strings.NewReader("todo A\n\ntodo B\nbogus\nundo\nexit\ntodo never\n")
	var out bytes.Buffer

	// Execute
	err := NewREPL(s, in, &out).Run(context.Background())

	// Assert
	require.NoError(t, err)
	text := out.String()
	assert.True(t, strings.HasPrefix(text, "\nMFND - March 09, 2026\n\n"))
	assert.Contains(t, text, "   1. A\n   2. B\n")
	assert.Contains(t, text, "!!! Warning unusable input: 'bogus'")
	assert.True(t, strings.HasSuffix(text, "> "+ExitMessage+"\n"))
	assert.Equal(t, "   1. A\n", s.Tree().String())
}

func TestREPL_Run_EndOfInput(t *testing.T) {
	s, _, _ := newTestSession(t)
	var out bytes.Buffer

	err := NewREPL(s, strings.NewReader("todo A\n"), &out).Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), ExitMessage)
}

func TestREPL_Run_StoreLost(t *testing.T) {
	// Setup
	s, store, _ := newTestSession(t)
	require.NoError(t, store.Close())
	var out bytes.Buffer

	// Execute
	err := NewREPL(s, strings.NewReader("todo A\ntodo B\n"), &out).Run(context.Background())

	// Assert
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Contains(t, out.String(), "Store error, ending session")
	assert.NotContains(t, out.String(), "Warning unusable input")
}

func TestREPL_Run_Cancelled(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer

	err := NewREPL(s, strings.NewReader("todo A\n"), &out).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, "", s.Tree().String())
}
