package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/runoshun/mfnd/internal/domain"
)

// REPL is the plain line front-end: it prints a prompt, reads a line,
// runs it, and reprints the tree.
type REPL struct {
	session *Session
	in      *bufio.Scanner
	out     io.Writer
}

// NewREPL creates a REPL reading from in and writing to out.
func NewREPL(session *Session, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		session: session,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run loops until exit, end of input, cancellation or a fatal store
// error. Only the fatal error is returned.
func (r *REPL) Run(ctx context.Context) error {
	defer r.session.Close()

	fmt.Fprintln(r.out, r.session.Render())
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.out, Prompt)
		line, ok := r.readLine()
		if !ok {
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, ExitMessage)
			return r.in.Err()
		}

		res, err := r.session.Exec(ctx, line)
		if err != nil {
			if !domain.IsRecoverable(err) {
				fmt.Fprintf(r.out, "Store error, ending session: %v\n", err)
				return err
			}
			fmt.Fprintln(r.out, r.session.Warning(ctx, line))
			continue
		}
		if res.Output != "" {
			fmt.Fprintln(r.out, res.Output)
		}
		if res.Exit {
			fmt.Fprintln(r.out, ExitMessage)
			return nil
		}
		if res.Print {
			fmt.Fprintln(r.out, r.session.Render())
		}
	}
}

// readLine prefers lines queued by playback over the input stream.
func (r *REPL) readLine() (string, bool) {
	if line, ok := r.session.Next(); ok {
		fmt.Fprintln(r.out, line)
		return line, true
	}
	if !r.in.Scan() {
		return "", false
	}
	return r.in.Text(), true
}
