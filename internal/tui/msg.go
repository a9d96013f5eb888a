package tui

import "github.com/runoshun/mfnd/internal/shell"

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgExecuted is sent after a line has been run by the session.
// Fields are ordered to minimize memory padding.
type MsgExecuted struct {
	Err    error
	Line   string
	Result shell.Result
}

func (MsgExecuted) sealed() {}
