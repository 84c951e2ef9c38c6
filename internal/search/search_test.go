package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.NewBoltStore("")
	require.NoError(t, err)
	lib := library.New(st, library.WithPasswordCost(4))
	require.NoError(t, lib.Load(t.Context()))
	return NewService(library.NewQueries(lib), nil)
}

func ids(books []domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestSortBooks(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		field SortField
		want  []string
	}{
		{field: SortTitle, want: []string{"4", "2", "5", "3", "1"}},
		{field: SortAuthor, want: []string{"3", "1", "4", "5", "2"}},
		{field: SortYear, want: []string{"4", "2", "1", "3", "5"}},
		{field: SortAvailability, want: []string{"3", "1", "2", "5", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(svc.Browse(Options{Sort: tt.field})))
		})
	}
}

func TestBrowse_CategoryAndQuery(t *testing.T) {
	svc := newTestService(t)

	got := svc.Browse(Options{Category: "fiction", Sort: SortYear})
	assert.Equal(t, []string{"1", "3", "5"}, ids(got))

	got = svc.Browse(Options{Query: "the", Category: AllCategories})
	assert.Equal(t, []string{"4", "3"}, ids(got))

	got = svc.Browse(Options{Query: "gatsby", Category: "Mathematics"})
	assert.Empty(t, got)
}

func TestCategories(t *testing.T) {
	svc := newTestService(t)

	assert.Equal(t, []string{"Computer Science", "Fiction", "Mathematics"}, svc.Categories())
	assert.Equal(t, AllCategories, svc.CategoryOptions()[0])
	assert.Len(t, svc.CategoryOptions(), 4)
}

func TestParseSortField(t *testing.T) {
	tests := []struct {
		in      string
		want    SortField
		wantErr bool
	}{
		{in: "", want: SortTitle},
		{in: "Title", want: SortTitle},
		{in: "author", want: SortAuthor},
		{in: " YEAR ", want: SortYear},
		{in: "availability", want: SortAvailability},
		{in: "rating", want: SortTitle, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortField(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortField_NextCycles(t *testing.T) {
	f := SortTitle
	seen := []SortField{f}
	for range len(SortOptions()) - 1 {
		f = f.Next()
		seen = append(seen, f)
	}
	assert.Equal(t, SortOptions(), seen)
	assert.Equal(t, SortTitle, f.Next())
}

func TestFindBooks(t *testing.T) {
	svc := newTestService(t)

	all := svc.FindBooks("")
	assert.Len(t, all, 5)
	assert.Equal(t, "1", all[0].Book.ID)

	hits := svc.FindBooks("gatsby")
	require.NotEmpty(t, hits)
	assert.Equal(t, "3", hits[0].Book.ID)
	assert.NotEmpty(t, hits[0].MatchedIndexes)

	hits = svc.FindBooks("austen")
	require.NotEmpty(t, hits)
	assert.Equal(t, "5", hits[0].Book.ID)
}

func TestFindStudents(t *testing.T) {
	svc := newTestService(t)

	hits := svc.FindStudents("jane")
	require.NotEmpty(t, hits)
	assert.Equal(t, "student-2", hits[0].Student.ID)

	hits = svc.FindStudents("CS2021001")
	require.NotEmpty(t, hits)
	assert.Equal(t, "student-1", hits[0].Student.ID)

	assert.Len(t, svc.FindStudents(""), 2)
}

func TestSuggest(t *testing.T) {
	svc := newTestService(t)

	assert.Equal(t, []string{"Pride and Prejudice"}, svc.Suggest("prid prej", 3))
	assert.Equal(t, []string{"The Great Gatsby"}, svc.Suggest("gatsbi", 3))
	assert.Equal(t, []string{"The Great Gatsby"}, svc.Suggest("gatsbi greet", 3))
	assert.Empty(t, svc.Suggest("gatsbi xylophone", 3))
	assert.Empty(t, svc.Suggest("zzzz", 3))
	assert.Empty(t, svc.Suggest("", 3))
}
