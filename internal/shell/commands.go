package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/history"
	"github.com/runoshun/mfnd/internal/usecase"
	"github.com/spf13/cobra"
)

// dispatch runs args through a fresh command tree bound to the session.
func (s *Session) dispatch(ctx context.Context, args []string) (Result, error) {
	if strings.HasPrefix(args[0], "-") {
		return Result{}, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, args[0])
	}

	var res Result
	root := s.newCommandTree(&res)
	root.SetArgs(args)
	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		return Result{}, classifyCommandError(cmd, root, err)
	}
	return res, nil
}

// classifyCommandError marks usage errors from cobra as unusable input.
// Errors returned by the verbs themselves keep their own sentinel.
func classifyCommandError(cmd, root *cobra.Command, err error) error {
	var usage *usageError
	if errors.As(err, &usage) || cmd == nil || cmd == root {
		return fmt.Errorf("%w: %v", domain.ErrUnknownCommand, err)
	}
	return err
}

// usageError is returned by argument validators.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return &usageError{msg: fmt.Sprintf("%s needs at least %d argument(s)", cmd.Name(), n)}
		}
		return nil
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{msg: fmt.Sprintf("%s takes %d argument(s)", cmd.Name(), n)}
		}
		return nil
	}
}

func (s *Session) newCommandTree(res *Result) *cobra.Command {
	root := &cobra.Command{
		Use:           "mfnd",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
	}
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.CompletionOptions.DisableDefaultCmd = true

	verb := func(use string, args cobra.PositionalArgs, run func(ctx context.Context, args []string) error) *cobra.Command {
		return &cobra.Command{
			Use:                use,
			Args:               args,
			DisableFlagParsing: true,
			SilenceErrors:      true,
			SilenceUsage:       true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), args)
			},
		}
	}

	root.AddCommand(
		verb("todo <description>", minArgs(1), func(ctx context.Context, args []string) error {
			return s.do(ctx, res, history.NewAddTask(strings.Join(args, " ")))
		}),
		verb("todosub <label> <description>", minArgs(2), func(ctx context.Context, args []string) error {
			return s.do(ctx, res, history.NewAddSubtask(args[0], strings.Join(args[1:], " ")))
		}),
		verb("done <label>", exactArgs(1), func(ctx context.Context, args []string) error {
			return s.do(ctx, res, history.NewMarkDone(args[0]))
		}),
		verb("remove <label>", exactArgs(1), func(ctx context.Context, args []string) error {
			return s.do(ctx, res, history.NewRemove(args[0]))
		}),
		verb("move <label> <up|down|top|bottom|N>", exactArgs(2), func(ctx context.Context, args []string) error {
			kind, pos, err := history.ParseMoveTarget(args[1])
			if err != nil {
				return err
			}
			return s.do(ctx, res, history.NewMove(args[0], kind, pos))
		}),
		verb("undo", exactArgs(0), func(ctx context.Context, _ []string) error {
			ok, err := s.log.Undo(ctx)
			res.Print = ok
			return err
		}),
		verb("redo", exactArgs(0), func(ctx context.Context, _ []string) error {
			ok, err := s.log.Redo(ctx)
			res.Print = ok
			return err
		}),
		verb("pumpkin <HHMM>", exactArgs(1), func(ctx context.Context, args []string) error {
			out, err := usecase.NewConfigurePumpkin(s.store, s.logger).Execute(ctx, usecase.ConfigurePumpkinInput{Time: args[0]})
			if err != nil {
				return err
			}
			res.Output = fmt.Sprintf("Pumpkin time set to %s", out.Current.Display())
			res.Print = true
			return nil
		}),
		verb("record <file>", exactArgs(1), func(_ context.Context, args []string) error {
			return s.startRecording(args[0])
		}),
		verb("playback <file>", exactArgs(1), func(_ context.Context, args []string) error {
			return s.playback(args[0])
		}),
		verb("list", exactArgs(0), func(_ context.Context, _ []string) error {
			res.Print = true
			return nil
		}),
		verb("exit", exactArgs(0), func(_ context.Context, _ []string) error {
			res.Exit = true
			return s.stopRecording()
		}),
	)
	root.SetHelpCommand(verb("help", cobra.ArbitraryArgs, func(ctx context.Context, _ []string) error {
		res.Output = s.Help(ctx)
		return nil
	}))
	return root
}

// do runs a reversible command through the log.
func (s *Session) do(ctx context.Context, res *Result, cmd history.Command) error {
	if err := s.log.Do(ctx, cmd); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	s.logger.Info("command", cmd.Name())
	res.Print = true
	return nil
}
