package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/domain"
)

func TestSearchBooks(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"1", "2", "3", "4", "5"}},
		{query: "   ", want: []string{"1", "2", "3", "4", "5"}},
		{query: "the", want: []string{"3", "4"}},
		{query: "GATSBY", want: []string{"3"}},
		{query: "austen", want: []string{"5"}},
		{query: "fiction", want: []string{"1", "3", "5"}},
		{query: "computer", want: []string{"2"}},
		{query: "978-0-262", want: []string{"2"}},
		{query: "nothing matches", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			ids := []string{}
			for _, b := range f.q.SearchBooks(tt.query) {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestQueries_ReturnCopies(t *testing.T) {
	f := newFixture(t, nil)

	books := f.q.Books()
	books[0].Title = "mutated"
	got, _ := f.q.Book("1")
	assert.Equal(t, "To Kill a Mockingbird", got.Title)

	john, _ := f.q.Student("student-1")
	f.svc.LoginStudent(john)
	sess := f.q.Session()
	sess.Student.Name = "mutated"
	assert.Equal(t, "John Doe", f.q.Session().Student.Name)
}

func TestLoanViews(t *testing.T) {
	f := newFixture(t, nil)

	first, err := f.svc.IssueBook("1", "student-1")
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	second, err := f.svc.IssueBook("2", "student-1")
	require.NoError(t, err)
	_, err = f.svc.IssueBook("3", "student-2")
	require.NoError(t, err)

	active := f.q.ActiveLoans("student-1")
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].Loan.ID)
	assert.Equal(t, "To Kill a Mockingbird", active[0].BookTitle())
	assert.Len(t, f.q.ActiveLoans(""), 3)
	assert.Equal(t, 2, f.q.ActiveLoanCount("student-1"))

	_, err = f.svc.ReturnBook(first.ID)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.svc.ReturnBook(second.ID)
	require.NoError(t, err)

	history := f.q.LoanHistory("student-1")
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].Loan.ID, "most recent return first")
	assert.Empty(t, f.q.ActiveLoans("student-1"))
	assert.Len(t, f.q.AllLoans(), 3)

	_, ok := f.q.LoanDetails("issued-404")
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.IssueBook("1", "student-1")
	require.NoError(t, err)
	f.clock.Advance(10 * 24 * time.Hour)
	_, err = f.svc.IssueBook("2", "student-2")
	require.NoError(t, err)

	later := f.clock.Now().Add(5 * 24 * time.Hour)
	st := f.q.Stats(later)
	assert.Equal(t, domain.Stats{
		Titles:          5,
		TotalCopies:     21,
		AvailableCopies: 10,
		ActiveLoans:     2,
		Overdue:         1,
		Students:        2,
	}, st)

	overdue := f.q.OverdueLoans(later)
	require.Len(t, overdue, 1)
	assert.Equal(t, "1", overdue[0].Loan.BookID)
	assert.Equal(t, -1, overdue[0].Loan.DaysUntilDue(later))
}
