package domain

import (
	"fmt"
	"math"
	"time"
)

// Student represents a registered library member
type Student struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"` // bcrypt hash (legacy blobs may hold plaintext)
	RollNo   string `json:"rollNo"`
}

// Book represents a catalog title and its copy counts
type Book struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Category        string `json:"category"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
	PublishedYear   int    `json:"publishedYear"`
}

// IssuedCopies returns how many copies are currently lent out
func (b Book) IssuedCopies() int {
	return b.TotalCopies - b.AvailableCopies
}

// IsAvailable reports whether at least one copy can be issued
func (b Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// GetDescription returns secondary info for list rendering
func (b Book) GetDescription() string {
	if b.PublishedYear > 0 {
		return fmt.Sprintf("%s · %d", b.Author, b.PublishedYear)
	}
	return b.Author
}

// NewBook holds the fields an admin supplies when adding a title.
// AvailableCopies is always initialised to TotalCopies.
type NewBook struct {
	Title         string
	Author        string
	ISBN          string
	Category      string
	TotalCopies   int
	PublishedYear int
}

// BookPatch lists the mutable fields of a Book. Nil fields are left untouched.
// AvailableCopies is derived from a TotalCopies change, never patched directly.
type BookPatch struct {
	Title         *string
	Author        *string
	ISBN          *string
	Category      *string
	TotalCopies   *int
	PublishedYear *int
}

// IsEmpty reports whether the patch changes nothing
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.ISBN == nil &&
		p.Category == nil && p.TotalCopies == nil && p.PublishedYear == nil
}

// LoanStatus is the stored state of a loan record
type LoanStatus string

const (
	LoanIssued   LoanStatus = "issued"
	LoanReturned LoanStatus = "returned"
	LoanOverdue  LoanStatus = "overdue"
)

// String returns a human-readable representation of the loan status
func (s LoanStatus) String() string {
	switch s {
	case LoanIssued:
		return "Issued"
	case LoanReturned:
		return "Returned"
	case LoanOverdue:
		return "Overdue"
	default:
		return "Unknown"
	}
}

// IssuedBook is a loan record. It is never deleted.
type IssuedBook struct {
	ID         string     `json:"id"`
	BookID     string     `json:"bookId"`
	StudentID  string     `json:"studentId"`
	IssueDate  time.Time  `json:"issueDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Status     LoanStatus `json:"status"`
}

// IsActive reports whether the loan still holds a copy.
// A stored "overdue" status only appears in legacy data and counts as active.
func (l IssuedBook) IsActive() bool {
	return l.Status == LoanIssued || l.Status == LoanOverdue
}

// IsOverdue reports whether an active loan is past its due date at now
func (l IssuedBook) IsOverdue(now time.Time) bool {
	return l.IsActive() && now.After(l.DueDate)
}

// EffectiveStatus returns the status to display at now. Overdue is derived,
// the stored status stays "issued" until the loan is returned.
func (l IssuedBook) EffectiveStatus(now time.Time) LoanStatus {
	if !l.IsActive() {
		return LoanReturned
	}
	if l.IsOverdue(now) {
		return LoanOverdue
	}
	return LoanIssued
}

// DaysUntilDue returns whole days until the due date, rounded up.
// Negative values mean the loan is overdue by that many days.
func (l IssuedBook) DaysUntilDue(now time.Time) int {
	return int(math.Ceil(l.DueDate.Sub(now).Hours() / 24))
}

// SessionKind distinguishes who is logged in
type SessionKind int

const (
	SessionNone SessionKind = iota
	SessionStudent
	SessionAdmin
)

// String returns a human-readable representation of the session kind
func (k SessionKind) String() string {
	switch k {
	case SessionNone:
		return "Guest"
	case SessionStudent:
		return "Student"
	case SessionAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// Session is exactly one of: nobody, a student, or the admin.
// Build it with NoSession, StudentSession or AdminSession.
type Session struct {
	Kind    SessionKind
	Student *Student // set only for SessionStudent
}

// NoSession returns the logged-out session
func NoSession() Session { return Session{Kind: SessionNone} }

// StudentSession returns a session for the given student
func StudentSession(s Student) Session {
	return Session{Kind: SessionStudent, Student: &s}
}

// AdminSession returns the admin session
func AdminSession() Session { return Session{Kind: SessionAdmin} }

func (s Session) IsAdmin() bool    { return s.Kind == SessionAdmin }
func (s Session) IsStudent() bool  { return s.Kind == SessionStudent && s.Student != nil }
func (s Session) IsLoggedIn() bool { return s.Kind != SessionNone }

// StudentID returns the logged-in student's id, or "" for other sessions
func (s Session) StudentID() string {
	if s.IsStudent() {
		return s.Student.ID
	}
	return ""
}

// LoanView joins a loan with the records it references. Book or Student is
// nil when the reference dangles (e.g. the book was deleted).
type LoanView struct {
	Loan    IssuedBook
	Book    *Book
	Student *Student
}

// BookTitle returns the referenced title or a placeholder for a deleted book
func (v LoanView) BookTitle() string {
	if v.Book == nil {
		return "(deleted book)"
	}
	return v.Book.Title
}

// StudentName returns the referenced name or a placeholder
func (v LoanView) StudentName() string {
	if v.Student == nil {
		return "(unknown student)"
	}
	return v.Student.Name
}

// Stats summarises the catalog for the admin dashboard
type Stats struct {
	Titles          int
	TotalCopies     int
	AvailableCopies int
	ActiveLoans     int
	Overdue         int
	Students        int
}
