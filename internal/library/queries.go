package library

import (
	"slices"
	"strings"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

// Queries provides synchronous, in-memory reads over a Service.
// Implements domain.LibraryQueries. Every result is a copy.
type Queries struct {
	svc *Service
}

// NewQueries creates a new Queries instance.
func NewQueries(svc *Service) *Queries {
	return &Queries{svc: svc}
}

func (q *Queries) Now() time.Time {
	return q.svc.clock.Now()
}

func (q *Queries) Session() domain.Session {
	q.svc.mu.RLock()
	defer q.svc.mu.RUnlock()

	sess := q.svc.session
	if sess.Student != nil {
		st := *sess.Student
		sess.Student = &st
	}
	return sess
}

func (q *Queries) Students() []domain.Student {
	q.svc.mu.RLock()
	defer q.svc.mu.RUnlock()
	return slices.Clone(q.svc.students)
}

func (q *Queries) Books() []domain.Book {
	q.svc.mu.RLock()
	defer q.svc.mu.RUnlock()
	return slices.Clone(q.svc.books)
}

func (q *Queries) IssuedBooks() []domain.IssuedBook {
	q.svc.mu.RLock()
	defer q.svc.mu.RUnlock()
	return slices.Clone(q.svc.loans)
}

func (q *Queries) Book(id string) (domain.Book, bool) {
	q.svc.mu.RLock()
	defer q.svc.mu.RUnlock()
	if i := q.svc.bookIndex(id); i >= 0 {
		return q.svc.books[i], true
	}
	return domain.Book{}, false
}

func (q *Queries) Student(id string) (domain.Student, bool) {
	q.svc.mu.RLock()
	defer q.svc.mu.RUnlock()
	if i := q.svc.studentIndex(id); i >= 0 {
		return q.svc.students[i], true
	}
	return domain.Student{}, false
}

func (q *Queries) Loan(id string) (domain.IssuedBook, bool) {
	q.svc.mu.RLock()
	defer q.svc.mu.RUnlock()
	if i := q.svc.loanIndex(id); i >= 0 {
		return q.svc.loans[i], true
	}
	return domain.IssuedBook{}, false
}

// LoanDetails resolves a loan's book and student. A dangling reference
// yields a nil pointer rather than a miss, so orphaned loans stay visible.
func (q *Queries) LoanDetails(id string) (domain.LoanView, bool) {
	q.svc.mu.RLock()
	defer q.svc.mu.RUnlock()
	i := q.svc.loanIndex(id)
	if i < 0 {
		return domain.LoanView{}, false
	}
	return q.svc.view(q.svc.loans[i]), true
}

// ActiveLoans returns the student's unreturned loans in issue order.
// An empty studentID matches every student.
func (q *Queries) ActiveLoans(studentID string) []domain.LoanView {
	return q.filterLoans(func(l domain.IssuedBook) bool {
		return l.IsActive() && (studentID == "" || l.StudentID == studentID)
	})
}

// LoanHistory returns the student's returned loans, most recent return first.
func (q *Queries) LoanHistory(studentID string) []domain.LoanView {
	views := q.filterLoans(func(l domain.IssuedBook) bool {
		return !l.IsActive() && (studentID == "" || l.StudentID == studentID)
	})
	slices.SortStableFunc(views, func(a, b domain.LoanView) int {
		return returnTime(b.Loan).Compare(returnTime(a.Loan))
	})
	return views
}

// AllLoans returns every loan record in issue order.
func (q *Queries) AllLoans() []domain.LoanView {
	return q.filterLoans(func(domain.IssuedBook) bool { return true })
}

// OverdueLoans returns active loans past due at now, oldest due date first.
func (q *Queries) OverdueLoans(now time.Time) []domain.LoanView {
	views := q.filterLoans(func(l domain.IssuedBook) bool { return l.IsOverdue(now) })
	slices.SortStableFunc(views, func(a, b domain.LoanView) int {
		return a.Loan.DueDate.Compare(b.Loan.DueDate)
	})
	return views
}

func (q *Queries) ActiveLoanCount(studentID string) int {
	q.svc.mu.RLock()
	defer q.svc.mu.RUnlock()

	n := 0
	for _, l := range q.svc.loans {
		if l.IsActive() && l.StudentID == studentID {
			n++
		}
	}
	return n
}

func (q *Queries) Stats(now time.Time) domain.Stats {
	q.svc.mu.RLock()
	defer q.svc.mu.RUnlock()

	st := domain.Stats{
		Titles:   len(q.svc.books),
		Students: len(q.svc.students),
	}
	for _, b := range q.svc.books {
		st.TotalCopies += b.TotalCopies
		st.AvailableCopies += b.AvailableCopies
	}
	for _, l := range q.svc.loans {
		if l.IsActive() {
			st.ActiveLoans++
		}
		if l.IsOverdue(now) {
			st.Overdue++
		}
	}
	return st
}

// SearchBooks matches query case-insensitively against title, author and
// category, and as a plain substring against the ISBN. A blank query
// returns the whole catalog in order.
func (q *Queries) SearchBooks(query string) []domain.Book {
	books := q.Books()
	query = strings.TrimSpace(query)
	if query == "" {
		return books
	}

	needle := strings.ToLower(query)
	var out []domain.Book
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle) ||
			strings.Contains(strings.ToLower(b.Category), needle) ||
			strings.Contains(b.ISBN, query) {
			out = append(out, b)
		}
	}
	return nonNil(out)
}

func (q *Queries) filterLoans(keep func(domain.IssuedBook) bool) []domain.LoanView {
	q.svc.mu.RLock()
	defer q.svc.mu.RUnlock()

	views := []domain.LoanView{}
	for _, l := range q.svc.loans {
		if keep(l) {
			views = append(views, q.svc.view(l))
		}
	}
	return views
}

// view joins a loan with copies of its book and student. Caller holds mu.
func (s *Service) view(l domain.IssuedBook) domain.LoanView {
	v := domain.LoanView{Loan: l}
	if i := s.bookIndex(l.BookID); i >= 0 {
		b := s.books[i]
		v.Book = &b
	}
	if i := s.studentIndex(l.StudentID); i >= 0 {
		st := s.students[i]
		v.Student = &st
	}
	return v
}

func returnTime(l domain.IssuedBook) time.Time {
	if l.ReturnDate == nil {
		return time.Time{}
	}
	return *l.ReturnDate
}
