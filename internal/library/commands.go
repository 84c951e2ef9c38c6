package library

import (
	"fmt"
	"strings"

	"github.com/mmcdole/shelf/internal/domain"
)

// --- Session ---

// LoginStudent makes student the current session. Credentials are checked
// by AuthenticateStudent beforehand.
func (s *Service) LoginStudent(student domain.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = domain.StudentSession(student)
	s.persistSession()
	s.logger.Info("student logged in", "studentID", student.ID)
}

// LoginAdmin makes the admin the current session.
func (s *Service) LoginAdmin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = domain.AdminSession()
	s.persistSession()
	s.logger.Info("admin logged in")
}

// Logout clears the session.
func (s *Service) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = domain.NoSession()
	s.persistSession()
	s.logger.Info("logged out")
}

// RegisterStudent appends a new student. Username and roll number must be
// unique; on rejection the student list is left untouched.
func (s *Service) RegisterStudent(student domain.Student) (domain.Student, error) {
	student.Name = strings.TrimSpace(student.Name)
	student.Username = strings.TrimSpace(student.Username)
	student.RollNo = strings.TrimSpace(student.RollNo)

	switch {
	case student.Name == "":
		return domain.Student{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case student.Username == "":
		return domain.Student{}, fmt.Errorf("%w: username is required", domain.ErrValidation)
	case student.Password == "":
		return domain.Student{}, fmt.Errorf("%w: password is required", domain.ErrValidation)
	case student.RollNo == "":
		return domain.Student{}, fmt.Errorf("%w: roll number is required", domain.ErrValidation)
	}

	// Hash outside the lock, bcrypt is slow on purpose
	hashed, err := s.hashPassword(student.Password)
	if err != nil {
		return domain.Student{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	student.Password = hashed

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.students {
		if existing.Username == student.Username {
			return domain.Student{}, domain.ErrDuplicateUsername
		}
		if existing.RollNo == student.RollNo {
			return domain.Student{}, domain.ErrDuplicateRollNo
		}
	}
	if student.ID == "" || s.studentIndex(student.ID) >= 0 {
		student.ID = uniqueID(s.newID, prefixStudent, func(id string) bool { return s.studentIndex(id) >= 0 })
	}

	s.students = append(s.students, student)
	s.persistStudents()
	s.logger.Info("registered student", "studentID", student.ID, "username", student.Username)
	return student, nil
}

// --- Catalog ---

// AddBook appends a new title with all copies available.
func (s *Service) AddBook(nb domain.NewBook) (domain.Book, error) {
	title := strings.TrimSpace(nb.Title)
	if title == "" {
		return domain.Book{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if nb.TotalCopies < 0 {
		return domain.Book{}, fmt.Errorf("%w: copies cannot be negative", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book := domain.Book{
		ID:              uniqueID(s.newID, prefixBook, func(id string) bool { return s.bookIndex(id) >= 0 }),
		Title:           title,
		Author:          strings.TrimSpace(nb.Author),
		ISBN:            strings.TrimSpace(nb.ISBN),
		Category:        strings.TrimSpace(nb.Category),
		TotalCopies:     nb.TotalCopies,
		AvailableCopies: nb.TotalCopies,
		PublishedYear:   nb.PublishedYear,
	}
	s.books = append(s.books, book)
	s.persistBooks()
	s.logger.Info("added book", "bookID", book.ID, "title", book.Title)
	return book, nil
}

// UpdateBook merges patch into the book with the given id. A change of
// TotalCopies moves AvailableCopies by the same delta, clamped to
// [0, TotalCopies]. Returns false when no such book exists.
func (s *Service) UpdateBook(id string, patch domain.BookPatch) (domain.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bookIndex(id)
	if i < 0 {
		return domain.Book{}, false
	}
	if patch.IsEmpty() {
		return s.books[i], true
	}

	b := s.books[i]
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Author != nil {
		b.Author = *patch.Author
	}
	if patch.ISBN != nil {
		b.ISBN = *patch.ISBN
	}
	if patch.Category != nil {
		b.Category = *patch.Category
	}
	if patch.PublishedYear != nil {
		b.PublishedYear = *patch.PublishedYear
	}
	if patch.TotalCopies != nil {
		total := max(*patch.TotalCopies, 0)
		delta := total - b.TotalCopies
		b.TotalCopies = total
		b.AvailableCopies = clamp(b.AvailableCopies+delta, 0, total)
	}

	s.books[i] = b
	s.persistBooks()
	s.logger.Info("updated book", "bookID", id)
	return b, true
}

// DeleteBook removes the book. Loans referencing it are kept and will
// resolve to a nil Book in LoanDetails.
func (s *Service) DeleteBook(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bookIndex(id)
	if i < 0 {
		return false
	}

	s.books = append(s.books[:i:i], s.books[i+1:]...)
	s.persistBooks()
	s.logger.Info("deleted book", "bookID", id)
	return true
}

// --- Loans ---

// IssueBook lends one copy of bookID to studentID.
func (s *Service) IssueBook(bookID, studentID string) (domain.IssuedBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bi := s.bookIndex(bookID)
	if bi < 0 {
		return domain.IssuedBook{}, domain.ErrBookNotFound
	}
	if s.books[bi].AvailableCopies <= 0 {
		return domain.IssuedBook{}, domain.ErrNoCopiesAvailable
	}
	if s.studentIndex(studentID) < 0 {
		return domain.IssuedBook{}, domain.ErrStudentNotFound
	}
	for _, l := range s.loans {
		if l.BookID == bookID && l.StudentID == studentID && l.IsActive() {
			return domain.IssuedBook{}, domain.ErrAlreadyIssued
		}
	}

	now := s.clock.Now()
	loan := domain.IssuedBook{
		ID:        uniqueID(s.newID, prefixLoan, func(id string) bool { return s.loanIndex(id) >= 0 }),
		BookID:    bookID,
		StudentID: studentID,
		IssueDate: now,
		DueDate:   now.Add(s.loanPeriod),
		Status:    domain.LoanIssued,
	}
	s.loans = append(s.loans, loan)
	s.books[bi].AvailableCopies--

	s.persistLoans()
	s.persistBooks()
	s.logger.Info("issued book", "loanID", loan.ID, "bookID", bookID, "studentID", studentID)
	return loan, nil
}

// ReturnBook closes the loan and gives the copy back. Returning a loan that
// is already closed changes nothing and reports ErrAlreadyReturned along
// with the unchanged record.
func (s *Service) ReturnBook(issuedBookID string) (domain.IssuedBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	li := s.loanIndex(issuedBookID)
	if li < 0 {
		return domain.IssuedBook{}, domain.ErrLoanNotFound
	}
	loan := s.loans[li]
	if !loan.IsActive() {
		return loan, domain.ErrAlreadyReturned
	}

	now := s.clock.Now()
	loan.ReturnDate = &now
	loan.Status = domain.LoanReturned
	s.loans[li] = loan
	s.persistLoans()

	if bi := s.bookIndex(loan.BookID); bi >= 0 {
		b := &s.books[bi]
		b.AvailableCopies = clamp(b.AvailableCopies+1, 0, b.TotalCopies)
		s.persistBooks()
	} else {
		s.logger.Warn("returned loan for missing book", "loanID", loan.ID, "bookID", loan.BookID)
	}

	s.logger.Info("returned book", "loanID", loan.ID, "bookID", loan.BookID)
	return loan, nil
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
