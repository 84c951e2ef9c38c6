package domain

import "errors"

// Sentinel errors for library operations
var (
	// ErrBookNotFound indicates the requested book does not exist
	ErrBookNotFound = errors.New("book not found")

	// ErrStudentNotFound indicates the requested student does not exist
	ErrStudentNotFound = errors.New("student not found")

	// ErrLoanNotFound indicates the requested loan record does not exist
	ErrLoanNotFound = errors.New("issued book record not found")

	// ErrNoCopiesAvailable is the capacity error: every copy is lent out
	ErrNoCopiesAvailable = errors.New("no copies available")

	// ErrAlreadyIssued indicates the student already holds this book
	ErrAlreadyIssued = errors.New("book already issued to this student")

	// ErrAlreadyReturned indicates the loan was closed earlier
	ErrAlreadyReturned = errors.New("book already returned")

	// ErrDuplicateUsername indicates the username is taken
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateRollNo indicates the roll number is taken
	ErrDuplicateRollNo = errors.New("roll number already exists")

	// ErrInvalidCredentials indicates a failed login
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrValidation indicates a missing or malformed field
	ErrValidation = errors.New("validation error")

	// ErrKeyNotFound is returned by a Store when a key was never written
	ErrKeyNotFound = errors.New("key not found")
)
