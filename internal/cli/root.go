// Package cli provides the command-line interface for mfnd.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/runoshun/mfnd/internal/app"
	"github.com/runoshun/mfnd/internal/shell"
	"github.com/runoshun/mfnd/internal/tui"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupTask  = "task"
	groupSetup = "setup"
)

// Function variables for launching the interactive front-ends, allowing
// them to be mocked in tests.
var (
	launchTUIFunc  = launchTUI
	launchREPLFunc = launchREPL
	isTerminalFunc = isTerminal
)

// NewRootCommand creates the root command for mfnd.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var plain bool

	root := &cobra.Command{
		Use:   "mfnd",
		Short: "Daily to-do list shell",
		Long: `mfnd keeps a hierarchical to-do list that is cleared every day at
the pumpkin time (04:00 unless configured).

Run without arguments to start the interactive shell. Type 'help' in the
shell for the list of commands.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			for _, w := range c.Config.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			usePlain := plain || (c != nil && c.Config.UI.Plain)
			if !usePlain && isTerminalFunc(cmd.InOrStdin()) {
				return launchTUIFunc(cmd.Context(), c, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return launchREPLFunc(cmd.Context(), c, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.Flags().BoolVar(&plain, "plain", false, "Use the plain line shell instead of the TUI")

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	for _, cmd := range []*cobra.Command{
		newListCommand(c),
		newAddCommand(c),
		newExportCommand(c),
		newImportCommand(c),
	} {
		cmd.GroupID = groupTask
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newPumpkinCommand(c),
		newConfigCommand(c),
	} {
		cmd.GroupID = groupSetup
		root.AddCommand(cmd)
	}

	return root
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func launchTUI(ctx context.Context, c *app.Container, in io.Reader, out io.Writer) error {
	session, err := c.NewSession(ctx)
	if err != nil {
		return err
	}
	return tui.Run(ctx, session, in, out)
}

func launchREPL(ctx context.Context, c *app.Container, in io.Reader, out io.Writer) error {
	session, err := c.NewSession(ctx)
	if err != nil {
		return err
	}
	return shell.NewREPL(session, in, out).Run(ctx)
}
