// Package shell runs the interactive to-do command language over a task
// tree and its undo/redo log.
package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/history"
	"github.com/runoshun/mfnd/internal/tasktree"
	"github.com/runoshun/mfnd/internal/usecase"
)

// Messages printed by front-ends.
const (
	Prompt      = "> "
	ExitMessage = "MFND exiting ..."
)

// Tree is the task tree a session edits and displays.
// *tasktree.Tree satisfies it.
type Tree interface {
	history.Tree
	String() string
	Lines() []tasktree.Line
}

// Result tells the front-end what to show after a line was executed.
// Fields are ordered to minimize memory padding.
type Result struct {
	Output string // Text to print before the tree (e.g. help)
	Print  bool   // The tree should be reprinted
	Exit   bool   // The session is over
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for the date header.
func WithClock(c domain.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithLogger sets the session logger.
func WithLogger(l domain.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithLabelScheme sets the scheme shown in the help screen.
func WithLabelScheme(scheme domain.LabelScheme) Option {
	return func(s *Session) { s.scheme = scheme }
}

// WithID overrides the generated session identifier.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session owns one task tree and the command log of one interactive run.
// Fields are ordered to minimize memory padding.
type Session struct {
	tree     Tree
	store    usecase.PumpkinStore
	clock    domain.Clock
	logger   domain.Logger
	log      *history.Log
	recorder io.WriteCloser
	id       string
	queue    []string
	scheme   domain.LabelScheme
}

// NewSession creates a session editing tree. The store provides the
// pumpkin time for the help screen and the pumpkin verb.
func NewSession(tree Tree, store usecase.PumpkinStore, opts ...Option) *Session {
	s := &Session{
		tree:   tree,
		store:  store,
		clock:  domain.RealClock{},
		logger: domain.NopLogger{},
		log:    history.NewLog(tree),
		scheme: domain.DefaultLabelScheme(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// History returns the command log.
func (s *Session) History() *history.Log {
	return s.log
}

// Tree returns the edited tree.
func (s *Session) Tree() Tree {
	return s.tree
}

// Exec runs one input line. Recoverable errors leave the tree and the
// log unchanged; an error wrapping domain.ErrStoreUnavailable means the
// session cannot continue.
func (s *Session) Exec(ctx context.Context, line string) (Result, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return Result{}, nil
	}
	args[0] = strings.ToLower(args[0])
	s.record(args)

	res, err := s.dispatch(ctx, args)
	if err != nil {
		if domain.IsRecoverable(err) {
			s.logger.Warn("exec", fmt.Sprintf("%q: %v", line, err))
		} else {
			s.logger.Error("exec", fmt.Sprintf("%q: %v", line, err))
		}
		return Result{}, err
	}
	s.logger.Debug("exec", strings.Join(args, " "))
	return res, nil
}

// Next pops the next line queued by playback.
func (s *Session) Next() (string, bool) {
	if len(s.queue) == 0 {
		return "", false
	}
	line := s.queue[0]
	s.queue = s.queue[1:]
	return line, true
}

// Header returns the date header line.
func (s *Session) Header() string {
	return domain.Header(s.clock.Now())
}

// Render returns the date header followed by the tree listing.
func (s *Session) Render() string {
	return "\n" + s.Header() + "\n\n" + s.tree.String()
}

// Help returns the help screen.
func (s *Session) Help(ctx context.Context) string {
	data := domain.HelpData{
		Pumpkin: domain.DefaultPumpkinTime.String(),
		Labels:  s.scheme.ExampleLabel(),
	}
	if p, err := s.store.PumpkinTime(ctx); err == nil {
		data.Pumpkin = p.String()
	}
	text, err := domain.RenderShellHelp(data)
	if err != nil {
		s.logger.Error("help", err.Error())
	}
	return text
}

// Warning returns the text shown for an unusable line.
func (s *Session) Warning(ctx context.Context, line string) string {
	return s.Help(ctx) + "\n!!! Warning unusable input: '" + line + "'"
}

// Close stops recording.
func (s *Session) Close() error {
	return s.stopRecording()
}
