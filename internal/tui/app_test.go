package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/store"
)

func newTestLibrary(t *testing.T) *library.Service {
	t.Helper()
	st, err := store.NewBoltStore("")
	require.NoError(t, err)
	lib := library.New(st, library.WithPasswordCost(4))
	require.NoError(t, lib.Load(t.Context()))
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func newTestModel(t *testing.T, lib *library.Service) Model {
	t.Helper()
	q := library.NewQueries(lib)
	return NewModel(q, lib, search.NewService(q, nil), search.SortTitle, nil)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// press sends a key whose command is a library operation, runs it and
// feeds the resulting message back into the model.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	m, cmd := send(t, m, msg)
	require.NotNil(t, cmd, "expected a command for %q", msg.String())
	m, _ = send(t, m, cmd())
	return m
}

// typeKey sends a key and ignores cursor blink commands
func typeKey(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	m, _ = send(t, m, msg)
	return m
}

func login(t *testing.T, m Model, username, password string) Model {
	t.Helper()
	m = typeKey(t, m, runes(username))
	m = typeKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeKey(t, m, runes(password))
	return press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestDueBadgeText(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	returned := now.Add(-48 * time.Hour)

	tests := []struct {
		name string
		loan domain.IssuedBook
		want string
	}{
		{
			name: "plenty of time",
			loan: domain.IssuedBook{Status: domain.LoanIssued, DueDate: now.Add(10 * 24 * time.Hour)},
			want: "10 days left",
		},
		{
			name: "due soon",
			loan: domain.IssuedBook{Status: domain.LoanIssued, DueDate: now.Add(24 * time.Hour)},
			want: "Due in 1 day",
		},
		{
			name: "due later today",
			loan: domain.IssuedBook{Status: domain.LoanIssued, DueDate: now},
			want: "Due today",
		},
		{
			name: "overdue hours",
			loan: domain.IssuedBook{Status: domain.LoanIssued, DueDate: now.Add(-2 * time.Hour)},
			want: "Overdue",
		},
		{
			name: "overdue days",
			loan: domain.IssuedBook{Status: domain.LoanIssued, DueDate: now.Add(-3 * 24 * time.Hour)},
			want: "Overdue by 3 days",
		},
		{
			name: "returned",
			loan: domain.IssuedBook{Status: domain.LoanReturned, DueDate: now, ReturnDate: &returned},
			want: "Returned Feb 27",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DueBadgeText(tt.loan, now))
		})
	}
}

func TestSetRows_CursorRecoversAfterEmpty(t *testing.T) {
	tb := newTable()
	tb.SetColumns([]table.Column{{Title: "Title", Width: 10}})

	setRows(&tb, []table.Row{{"a"}, {"b"}, {"c"}})
	tb.SetCursor(2)
	setRows(&tb, []table.Row{{"a"}})
	assert.Equal(t, 0, tb.Cursor())

	setRows(&tb, nil)
	setRows(&tb, []table.Row{{"a"}, {"b"}})
	assert.Equal(t, 0, tb.Cursor())
}

func TestModel_ReturnAfterEmptyLoanList(t *testing.T) {
	lib := newTestLibrary(t)
	m := newTestModel(t, lib)
	m = login(t, m, "janesmith", "password123")

	// My Books starts empty, then gains a loan
	m = typeKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Empty(t, m.loans)
	m = typeKey(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = press(t, m, runes("b"))
	m = typeKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Len(t, m.loans, 1)

	_, ok := m.selectedLoan()
	require.True(t, ok)
	m = press(t, m, runes("r"))
	assert.Empty(t, m.loans)
}

func TestModel_StudentBorrowAndReturn(t *testing.T) {
	lib := newTestLibrary(t)
	m := newTestModel(t, lib)
	require.Equal(t, ScreenLogin, m.screen)

	m = login(t, m, "johndoe", "password123")
	require.Equal(t, ScreenCatalog, m.screen)
	require.True(t, m.session.IsStudent())

	// Title order puts Calculus (one copy left) first
	book, ok := m.selectedBook()
	require.True(t, ok)
	assert.Equal(t, "4", book.ID)

	m = press(t, m, runes("b"))
	assert.Contains(t, m.StatusMsg, "Issued")
	assert.False(t, m.StatusIsErr)
	assert.Equal(t, 0, m.books[0].AvailableCopies)

	m, _ = send(t, m, runes("b"))
	assert.Equal(t, "No copies available", m.StatusMsg)
	assert.True(t, m.StatusIsErr)

	m = typeKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, ScreenMyLoans, m.screen)
	require.Len(t, m.loans, 1)

	m = press(t, m, runes("r"))
	assert.Contains(t, m.StatusMsg, "Returned")
	assert.Empty(t, m.loans)

	m = typeKey(t, m, runes("h"))
	assert.Len(t, m.loans, 1)

	got, _ := library.NewQueries(lib).Book("4")
	assert.Equal(t, 1, got.AvailableCopies)
}

func TestModel_BadCredentials(t *testing.T) {
	m := newTestModel(t, newTestLibrary(t))

	m = login(t, m, "johndoe", "nope")
	assert.Equal(t, ScreenLogin, m.screen)
	assert.Equal(t, "Invalid username or password", m.StatusMsg)
	assert.True(t, m.StatusIsErr)
}

func TestModel_BlankLoginField(t *testing.T) {
	m := newTestModel(t, newTestLibrary(t))

	m = typeKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Username is required", m.StatusMsg)
}

func TestModel_AdminDeleteAndIssue(t *testing.T) {
	lib := newTestLibrary(t)
	m := newTestModel(t, lib)

	m = typeKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	m = typeKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	require.Equal(t, LoginAdmin, m.login.mode)

	m = login(t, m, "admin", "123")
	require.Equal(t, ScreenAdminBooks, m.screen)

	m = typeKey(t, m, runes("x"))
	require.NotNil(t, m.confirmDelete)
	m = press(t, m, runes("y"))
	assert.Nil(t, m.confirmDelete)
	assert.Len(t, m.books, 4)
	_, ok := library.NewQueries(lib).Book("4")
	assert.False(t, ok)

	book, ok := m.selectedBook()
	require.True(t, ok)
	assert.Equal(t, "2", book.ID)

	m = typeKey(t, m, runes("i"))
	require.True(t, m.picker.IsVisible())
	m = typeKey(t, m, runes("jane"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.picker.IsVisible())

	m = typeKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, ScreenAdminLoans, m.screen)
	require.Len(t, m.loans, 1)
	assert.Equal(t, "Jane Smith", m.loans[0].StudentName())

	m = typeKey(t, m, runes("o"))
	assert.Empty(t, m.loans)
}

func TestModel_SearchSuggestsOnMiss(t *testing.T) {
	lib := newTestLibrary(t)
	students := library.NewQueries(lib).Students()
	lib.LoginStudent(students[0])

	m := newTestModel(t, lib)
	require.Equal(t, ScreenCatalog, m.screen)

	m = typeKey(t, m, runes("/"))
	require.True(t, m.searching)
	m = typeKey(t, m, runes("gatsbi"))
	assert.Empty(t, m.books)
	assert.Contains(t, m.suggestions, "The Great Gatsby")

	m = typeKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.searching)
	assert.Len(t, m.books, 5)
}

func TestModel_LogoutReturnsToLogin(t *testing.T) {
	lib := newTestLibrary(t)
	lib.LoginAdmin()
	m := newTestModel(t, lib)
	require.Equal(t, ScreenAdminBooks, m.screen)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, ScreenLogin, m.screen)
	assert.False(t, library.NewQueries(lib).Session().IsLoggedIn())
}
