package core

// error_messages.go maps technical errors to coded, user-friendly messages.
//
// When users encounter errors, they can quote the code to support staff for
// faster diagnosis. Codes are grouped by category:
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Unknown table: The requested table is not configured
//	         Action: Pick a table from the dashboard
//	         Patterns: "unknown table"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session expired: The table session was closed or timed out
//	         Action: Reopen the table from the dashboard
//	         Patterns: "session not found"
//
//	SES002 - Too many sessions: The server is at its open-table limit
//	         Action: Close unused tables or try again later
//	         Patterns: "too many sessions"
//
// # Filter Errors (FLT001-FLT099)
//
//	FLT001 - Unknown column: The filter names a column this table lacks
//	FLT002 - Not filterable: The column does not accept filters
//	FLT003 - Kind mismatch: The filter type does not fit the column
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Invalid page size: Rows per page must be a positive number
//	CFG002 - Invalid select scope: Select-all scope must be page or filtered
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source unavailable: The table data could not be loaded
//	         Patterns: "data source unavailable", "connection refused"
//	SRC002 - Dataset too large: The table exceeds the row limit
//	SRC003 - System busy: Too many table loads in progress
//
// # Event Errors (EVT001-EVT099)
//
//	EVT001 - Unknown event: The action is not supported
//	EVT002 - Invalid export: Export scope must be filtered or selected
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	REQ002 - Request timed out
//	REQ003 - Malformed request: A form value or JSON body could not be read
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Support staff should check the
// application logs for the original technical error.
//
// # Matching
//
// Sentinel errors are matched with errors.Is, in catalog order, so wrapping
// never hides them. Errors that arrive as plain text (driver messages,
// "SESSION NOT FOUND" from an older client) fall back to case-insensitive
// substring matching on the same entries.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/talentdesk/internal/datasource"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

// UserMessage is what a user sees for a failed action.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

// catalogEntry ties a message to the sentinel that produces it and the
// text patterns that identify it when no sentinel survives.
type catalogEntry struct {
	target   error
	patterns []string
	msg      UserMessage
}

func entry(target error, code, message, action string, patterns ...string) catalogEntry {
	if target != nil {
		patterns = append(patterns, target.Error())
	}
	for i, p := range patterns {
		patterns[i] = strings.ToLower(p)
	}
	return catalogEntry{
		target:   target,
		patterns: patterns,
		msg:      UserMessage{Message: message, Action: action, Code: code},
	}
}

// catalog is ordered: a source failure wrapping a connection error reports
// SRC001, and anything more specific must come before what it wraps.
var catalog = []catalogEntry{
	entry(ErrUnknownTable, "TBL001", "Unknown table", "Pick a table from the dashboard"),
	entry(ErrSessionNotFound, "SES001", "This table session has expired", "Reopen the table from the dashboard"),
	entry(ErrTooManySessions, "SES002", "Too many tables are open", "Close unused tables or try again later"),

	entry(table.ErrUnknownColumn, "FLT001", "This table has no such column", "Refresh the page and pick a listed column"),
	entry(table.ErrNotFilterable, "FLT002", "This column cannot be filtered", "Use the search box instead"),
	entry(table.ErrFilterKindMismatch, "FLT003", "That filter does not fit this column", "Use the filter control shown for the column"),

	entry(table.ErrInvalidPageSize, "CFG001", "Rows per page must be a positive number", "Choose one of the listed page sizes"),
	entry(table.ErrInvalidSelectScope, "CFG002", "Select-all scope must be page or filtered", "Check TABLE_SELECT_SCOPE"),

	entry(table.ErrTooManyRows, "SRC002", "This table is too large to open", "Ask an administrator to raise TABLE_MAX_ROWS"),
	entry(ErrTooManyLoads, "SRC003", "The system is busy loading other tables", "Please wait a moment and try again"),
	entry(datasource.ErrUnavailable, "SRC001", "Table data could not be loaded", "Please try again in a few moments",
		"connection refused"),

	entry(ErrUnknownEvent, "EVT001", "That action is not supported", "Refresh the page and try again"),
	entry(ErrInvalidExportScope, "EVT002", "Export scope must be filtered or selected", "Use one of the export buttons"),

	entry(nil, "REQ003", "The request could not be read", "Reload the page and try again", "malformed request"),
	entry(context.Canceled, "REQ001", "Request was cancelled", "Please try again"),
	entry(context.DeadlineExceeded, "REQ002", "Request timed out", "Please try again or narrow your filters"),

	entry(nil, "RATE001", "Too many requests", "Please wait a moment before trying again", "rate limit"),
}

// defaultMessage is returned when nothing in the catalog matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. A nil
// error maps to the zero UserMessage.
//
//	msg := MapError(fmt.Errorf("open candidates: %w", ErrSessionNotFound))
//	// msg.Code == "SES001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, e := range catalog {
		if e.target != nil && errors.Is(err, e.target) {
			return e.msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, e := range catalog {
		for _, p := range e.patterns {
			if strings.Contains(text, p) {
				return e.msg
			}
		}
	}

	return defaultMessage
}

// FormatUserError renders err for a single status line as
// "Message (Code: XXX). Action". Unrecognised errors keep their technical
// text after the generic message, since the terminal viewer has no log
// panel to send the user to.
func FormatUserError(err error) string {
	msg := MapError(err)
	switch msg.Code {
	case "":
		return ""
	case defaultMessage.Code:
		return fmt.Sprintf("%s (Code: %s): %v", msg.Message, msg.Code, err)
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	return err != nil && MapError(err).Code != defaultMessage.Code
}
