package domain

import (
	"context"
	"time"
)

// LibraryQueries: Synchronous, in-memory reads.
// All methods return copies; callers never mutate store state through them.
// Safe to call from View() and CLI output code.
type LibraryQueries interface {
	Session() Session
	Students() []Student
	Books() []Book
	IssuedBooks() []IssuedBook

	Book(id string) (Book, bool)
	Student(id string) (Student, bool)
	Loan(id string) (IssuedBook, bool)
	LoanDetails(id string) (LoanView, bool)

	ActiveLoans(studentID string) []LoanView
	LoanHistory(studentID string) []LoanView
	AllLoans() []LoanView
	OverdueLoans(now time.Time) []LoanView
	ActiveLoanCount(studentID string) int
	Stats(now time.Time) Stats

	SearchBooks(query string) []Book
	Now() time.Time
}

// LibraryCommands: Mutations. Each persists the slices it touches.
// Business-rule failures come back as errors; persistence failures are logged.
type LibraryCommands interface {
	Load(ctx context.Context) error

	LoginStudent(student Student)
	LoginAdmin()
	Logout()
	RegisterStudent(student Student) (Student, error)
	AuthenticateStudent(username, password string) (Student, error)
	AuthenticateAdmin(username, password string) error

	AddBook(book NewBook) (Book, error)
	UpdateBook(id string, patch BookPatch) (Book, bool)
	DeleteBook(id string) bool

	IssueBook(bookID, studentID string) (IssuedBook, error)
	ReturnBook(issuedBookID string) (IssuedBook, error)

	Close() error
}

// Clock supplies the current time. Tests inject a fake to move time forward.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
