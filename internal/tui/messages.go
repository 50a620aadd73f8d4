package tui

import "github.com/JonMunkholm/talentdesk/internal/table"

// ErrMsg reports a failed command.
type ErrMsg struct{ Err error }

func (e ErrMsg) Error() string { return e.Err.Error() }

// DoneMsg is a status line from a finished command.
type DoneMsg string

// LoadedMsg carries a table built from a source load.
type LoadedMsg struct {
	Title string
	Table *table.Table
}
