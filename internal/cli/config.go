package cli

import (
	"fmt"
	"io"

	"github.com/runoshun/mfnd/internal/app"
	"github.com/runoshun/mfnd/internal/infra/config"
	"github.com/runoshun/mfnd/internal/usecase"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show which config files were loaded and the final merged configuration.

Files are merged in this order, later ones winning:
  $XDG_CONFIG_HOME/mfnd/config.toml
  ./.mfnd.toml
The MFND_DB environment variable overrides [store] path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), out)
		},
	}

	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the global config file with the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{Config: c.Config})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", out.Path)
			return nil
		},
	}
}

func printConfig(w io.Writer, out *usecase.ShowConfigOutput) error {
	_, _ = fmt.Fprintln(w, "[Loaded from]")
	for _, src := range out.Sources {
		if src.Exists {
			_, _ = fmt.Fprintf(w, "- %s\n", src.Path)
		} else {
			_, _ = fmt.Fprintf(w, "- %s (not found)\n", src.Path)
		}
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "[Effective Config]")
	content, err := config.RenderTemplate(out.Effective)
	if err != nil {
		return err
	}
	_, err = w.Write(content)
	return err
}
