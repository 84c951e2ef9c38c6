package tui

import "github.com/mmcdole/shelf/internal/domain"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// LoggedInMsg signals that a session was established
type LoggedInMsg struct {
	Session domain.Session
}

// LoggedOutMsg signals that the session was cleared
type LoggedOutMsg struct{}

// BookIssuedMsg signals that a loan was created
type BookIssuedMsg struct {
	Loan  domain.IssuedBook
	Title string
}

// BookReturnedMsg signals that a loan was closed
type BookReturnedMsg struct {
	Loan  domain.IssuedBook
	Title string
}

// BookSavedMsg signals that a book was added or edited
type BookSavedMsg struct {
	Book  domain.Book
	Added bool
}

// BookDeletedMsg signals that a book was removed
type BookDeletedMsg struct {
	BookID string
	Title  string
}

// ClearStatusMsg clears the status line if it still shows Seq
type ClearStatusMsg struct {
	Seq int
}
