package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/store"
)

func TestLoad_SeedsMissingKeys(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, seedBooks(), f.q.Books())
	assert.Empty(t, f.q.IssuedBooks())
	assert.Equal(t, domain.SessionNone, f.q.Session().Kind)

	students := f.q.Students()
	require.Len(t, students, 2)
	assert.Equal(t, "johndoe", students[0].Username)
	assert.Equal(t, "CS2021002", students[1].RollNo)
	assert.True(t, isHashed(students[0].Password), "seed passwords are stored hashed")

	keys, err := f.store.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, domain.StateKeys(), keys)

	raw, err := f.store.Get(domain.KeySessionUser)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestLoad_CorruptBlobFallsBackToSeed(t *testing.T) {
	st := newMemoryStore(t)
	require.NoError(t, st.Put(domain.KeyBooks, []byte(`[{"id":"1","title":`)))
	require.NoError(t, st.Put(domain.KeyIssuedBooks, []byte(`not json`)))

	f := newFixture(t, st)

	assert.Equal(t, seedBooks(), f.q.Books())
	assert.Empty(t, f.q.IssuedBooks())
	assert.Contains(t, f.logs.String(), "corrupt blob")
	assert.Contains(t, f.logs.String(), "level=WARN")
}

func TestLoad_CorruptBlobIsNotOverwritten(t *testing.T) {
	st := newMemoryStore(t)
	blob := []byte(`[{"id":"1","title":`)
	require.NoError(t, st.Put(domain.KeyBooks, blob))

	newFixture(t, st)

	got, err := st.Get(domain.KeyBooks)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestLoad_ReadErrorKeepsStoredData(t *testing.T) {
	st := newMemoryStore(t)
	first := newFixture(t, st)
	_, err := first.svc.AddBook(domain.NewBook{Title: "Precious", TotalCopies: 1})
	require.NoError(t, err)

	flaky := &flakyStore{Store: st, failGets: map[string]bool{
		domain.KeyBooks:          true,
		domain.KeySessionIsAdmin: true,
	}}
	second := newFixture(t, flaky)

	assert.Equal(t, seedBooks(), second.q.Books(), "unreadable slice falls back in memory")
	assert.Contains(t, second.logs.String(), "failed to read key")

	// Nothing was written back over the real blob
	third := newFixture(t, st)
	titles := make([]string, 0, len(third.q.Books()))
	for _, b := range third.q.Books() {
		titles = append(titles, b.Title)
	}
	assert.Contains(t, titles, "Precious")
	assert.Len(t, titles, 6)
}

func TestLoad_ReadErrorThenMutationPersists(t *testing.T) {
	st := newMemoryStore(t)
	flaky := &flakyStore{Store: st, failGets: map[string]bool{domain.KeyBooks: true}}
	f := newFixture(t, flaky)

	_, err := f.svc.AddBook(domain.NewBook{Title: "Dune", TotalCopies: 1})
	require.NoError(t, err)

	reloaded := newFixture(t, st)
	assert.Len(t, reloaded.q.Books(), 6)
}

func TestLoad_LogsUnknownKeys(t *testing.T) {
	st := newMemoryStore(t)
	require.NoError(t, st.Put("reading-lists", []byte(`[]`)))

	f := newFixture(t, st)
	assert.Contains(t, f.logs.String(), "ignoring unknown key")
	assert.Contains(t, f.logs.String(), "key=reading-lists")
}

func TestLoad_KeepsStoredSlices(t *testing.T) {
	st := newMemoryStore(t)
	require.NoError(t, st.Put(domain.KeyBooks, []byte(`[{"id":"x","title":"Dune","totalCopies":1,"availableCopies":1}]`)))
	require.NoError(t, st.Put(domain.KeySessionIsAdmin, []byte(`true`)))

	f := newFixture(t, st)

	books := f.q.Books()
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	assert.True(t, f.q.Session().IsAdmin())
}

func TestLoad_CanceledContext(t *testing.T) {
	svc := New(newMemoryStore(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, svc.Load(ctx), context.Canceled)
}

func TestRoundTrip_ReloadReproducesState(t *testing.T) {
	dir := t.TempDir()

	st, err := store.NewBoltStore(dir)
	require.NoError(t, err)
	f := newFixture(t, st)

	_, err = f.svc.RegisterStudent(domain.Student{Name: "Ada", Username: "ada", Password: "pw", RollNo: "CS3"})
	require.NoError(t, err)
	book, err := f.svc.AddBook(domain.NewBook{Title: "SICP", Author: "Abelson", TotalCopies: 2})
	require.NoError(t, err)
	loan, err := f.svc.IssueBook(book.ID, "student-1")
	require.NoError(t, err)
	_, err = f.svc.IssueBook("1", "student-2")
	require.NoError(t, err)
	f.clock.Advance(DefaultLoanPeriod / 2)
	_, err = f.svc.ReturnBook(loan.ID)
	require.NoError(t, err)
	f.svc.LoginStudent(f.q.Students()[0])

	wantStudents := f.q.Students()
	wantBooks := f.q.Books()
	wantLoans := f.q.IssuedBooks()
	wantSession := f.q.Session()
	require.NoError(t, f.svc.Close())

	st, err = store.NewBoltStore(dir)
	require.NoError(t, err)
	reloaded := newFixture(t, st)
	t.Cleanup(func() { reloaded.svc.Close() })

	assert.Equal(t, wantStudents, reloaded.q.Students())
	assert.Equal(t, wantBooks, reloaded.q.Books())
	assert.Equal(t, wantLoans, reloaded.q.IssuedBooks())
	assert.Equal(t, wantSession, reloaded.q.Session())
}

func TestRoundTrip_SQLite(t *testing.T) {
	dir := t.TempDir()

	st, err := store.NewSQLiteStore(dir)
	require.NoError(t, err)
	f := newFixture(t, st)
	_, err = f.svc.IssueBook("4", "student-2")
	require.NoError(t, err)
	f.svc.LoginAdmin()
	wantLoans := f.q.IssuedBooks()
	require.NoError(t, f.svc.Close())

	st, err = store.NewSQLiteStore(dir)
	require.NoError(t, err)
	reloaded := newFixture(t, st)
	t.Cleanup(func() { reloaded.svc.Close() })

	assert.Equal(t, wantLoans, reloaded.q.IssuedBooks())
	assert.True(t, reloaded.q.Session().IsAdmin())
	book, ok := reloaded.q.Book("4")
	require.True(t, ok)
	assert.Equal(t, 0, book.AvailableCopies)
}

func TestPersist_WriteFailureKeepsMutation(t *testing.T) {
	st := &flakyStore{Store: newMemoryStore(t)}
	f := newFixture(t, st)

	st.failPuts = true
	book, err := f.svc.AddBook(domain.NewBook{Title: "Offline", TotalCopies: 1})
	require.NoError(t, err)

	got, ok := f.q.Book(book.ID)
	require.True(t, ok)
	assert.Equal(t, "Offline", got.Title)
	assert.Contains(t, f.logs.String(), "failed to persist")
	assert.Contains(t, f.logs.String(), "key=books")
	assert.Contains(t, f.logs.String(), "level=ERROR")
}

func TestSession_Transitions(t *testing.T) {
	f := newFixture(t, nil)
	john, ok := f.q.Student("student-1")
	require.True(t, ok)

	f.svc.LoginStudent(john)
	sess := f.q.Session()
	assert.True(t, sess.IsStudent())
	assert.False(t, sess.IsAdmin())
	assert.Equal(t, "student-1", sess.StudentID())

	f.svc.LoginAdmin()
	sess = f.q.Session()
	assert.True(t, sess.IsAdmin())
	assert.Nil(t, sess.Student)
	assert.Empty(t, sess.StudentID())

	raw, err := f.store.Get(domain.KeySessionUser)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))

	f.svc.Logout()
	assert.False(t, f.q.Session().IsLoggedIn())
	raw, err = f.store.Get(domain.KeySessionIsAdmin)
	require.NoError(t, err)
	assert.Equal(t, "false", string(raw))
}
