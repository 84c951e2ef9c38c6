package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/shelf/internal/domain"
)

// Command factories. Each runs one library mutation off the UI goroutine and
// reports the outcome as a message.

// StudentLoginCmd checks credentials then starts a student session
func StudentLoginCmd(cmds domain.LibraryCommands, username, password string) tea.Cmd {
	return func() tea.Msg {
		student, err := cmds.AuthenticateStudent(username, password)
		if err != nil {
			return ErrMsg{Err: err, Context: "login"}
		}
		cmds.LoginStudent(student)
		return LoggedInMsg{Session: domain.StudentSession(student)}
	}
}

// AdminLoginCmd checks the admin pair then starts an admin session
func AdminLoginCmd(cmds domain.LibraryCommands, username, password string) tea.Cmd {
	return func() tea.Msg {
		if err := cmds.AuthenticateAdmin(username, password); err != nil {
			return ErrMsg{Err: err, Context: "admin login"}
		}
		cmds.LoginAdmin()
		return LoggedInMsg{Session: domain.AdminSession()}
	}
}

// RegisterCmd registers a student and logs them in
func RegisterCmd(cmds domain.LibraryCommands, student domain.Student) tea.Cmd {
	return func() tea.Msg {
		registered, err := cmds.RegisterStudent(student)
		if err != nil {
			return ErrMsg{Err: err, Context: "register"}
		}
		cmds.LoginStudent(registered)
		return LoggedInMsg{Session: domain.StudentSession(registered)}
	}
}

// LogoutCmd clears the session
func LogoutCmd(cmds domain.LibraryCommands) tea.Cmd {
	return func() tea.Msg {
		cmds.Logout()
		return LoggedOutMsg{}
	}
}

// IssueBookCmd lends book to studentID
func IssueBookCmd(cmds domain.LibraryCommands, book domain.Book, studentID string) tea.Cmd {
	return func() tea.Msg {
		loan, err := cmds.IssueBook(book.ID, studentID)
		if err != nil {
			return ErrMsg{Err: err, Context: fmt.Sprintf("issue %q", book.Title)}
		}
		return BookIssuedMsg{Loan: loan, Title: book.Title}
	}
}

// ReturnBookCmd closes the loan
func ReturnBookCmd(cmds domain.LibraryCommands, view domain.LoanView) tea.Cmd {
	return func() tea.Msg {
		loan, err := cmds.ReturnBook(view.Loan.ID)
		if err != nil {
			return ErrMsg{Err: err, Context: fmt.Sprintf("return %q", view.BookTitle())}
		}
		return BookReturnedMsg{Loan: loan, Title: view.BookTitle()}
	}
}

// AddBookCmd adds a title to the catalog
func AddBookCmd(cmds domain.LibraryCommands, nb domain.NewBook) tea.Cmd {
	return func() tea.Msg {
		book, err := cmds.AddBook(nb)
		if err != nil {
			return ErrMsg{Err: err, Context: "add book"}
		}
		return BookSavedMsg{Book: book, Added: true}
	}
}

// UpdateBookCmd applies an edit
func UpdateBookCmd(cmds domain.LibraryCommands, id string, patch domain.BookPatch) tea.Cmd {
	return func() tea.Msg {
		book, ok := cmds.UpdateBook(id, patch)
		if !ok {
			return ErrMsg{Err: domain.ErrBookNotFound, Context: "edit book"}
		}
		return BookSavedMsg{Book: book}
	}
}

// DeleteBookCmd removes a title
func DeleteBookCmd(cmds domain.LibraryCommands, book domain.Book) tea.Cmd {
	return func() tea.Msg {
		if !cmds.DeleteBook(book.ID) {
			return ErrMsg{Err: domain.ErrBookNotFound, Context: "delete book"}
		}
		return BookDeletedMsg{BookID: book.ID, Title: book.Title}
	}
}

// ClearStatusCmd clears the status line after d
func ClearStatusCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
