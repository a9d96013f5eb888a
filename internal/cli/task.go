package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runoshun/mfnd/internal/app"
	"github.com/runoshun/mfnd/internal/usecase"
	"github.com/spf13/cobra"
)

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the to-do list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.ListTasksUseCase(cmd.Context())
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context(), usecase.ListTasksInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, out.Header)
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprint(w, out.Text)
			return nil
		},
	}
}

// newAddCommand creates the add command.
func newAddCommand(c *app.Container) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a task without starting the shell",
		Long: `Add a task to the to-do list.

Examples:
  # Add a top-level task
  mfnd add Buy milk

  # Add a sub-task under task 2
  mfnd add --parent 2 Whole milk`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := c.AddTaskUseCase(cmd.Context())
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context(), usecase.AddTaskInput{
				Description: strings.Join(args, " "),
				Parent:      parent,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added task %s\n", out.Label)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Label of the parent task")

	return cmd
}

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the to-do list as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.ExportTreeUseCase(cmd.Context())
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context(), usecase.ExportTreeInput{Format: format})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out.Data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", usecase.FormatYAML, "Output format (yaml or json)")

	return cmd
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add tasks from a YAML or JSON document",
		Long: `Add tasks from a document in the format written by 'mfnd export'.
Use '-' to read from standard input. Labels in the document are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content []byte
			var err error
			if args[0] == "-" {
				content, err = io.ReadAll(cmd.InOrStdin())
			} else {
				content, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			uc, err := c.ImportTreeUseCase(cmd.Context())
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context(), usecase.ImportTreeInput{Content: content, Parent: parent})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", out.Count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Label of the task to import under")

	return cmd
}

// newPumpkinCommand creates the pumpkin command.
func newPumpkinCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "pumpkin [HHMM]",
		Short: "Show or set the daily reset time",
		Long: `Show or set the time of day at which the to-do list is cleared.
The time is 4 digits in 24-hour clock mode, e.g. 0400.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := c.ConfigurePumpkinUseCase(cmd.Context())
			if err != nil {
				return err
			}
			in := usecase.ConfigurePumpkinInput{}
			if len(args) == 1 {
				in.Time = args[0]
			}
			out, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			if out.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pumpkin time set to %s (was %s)\n", out.Current.Display(), out.Previous.Display())
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pumpkin time is %s\n", out.Current.Display())
			return nil
		},
	}
}
