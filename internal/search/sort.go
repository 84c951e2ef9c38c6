package search

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmcdole/shelf/internal/domain"
)

// SortField represents a field to sort the catalog by
type SortField int

const (
	SortTitle SortField = iota
	SortAuthor
	SortYear
	SortAvailability
)

// String returns the display name for the sort field
func (f SortField) String() string {
	switch f {
	case SortTitle:
		return "Title"
	case SortAuthor:
		return "Author"
	case SortYear:
		return "Year"
	case SortAvailability:
		return "Availability"
	default:
		return "Unknown"
	}
}

// Key returns the config/flag spelling of the field
func (f SortField) Key() string {
	return strings.ToLower(f.String())
}

// Next cycles to the following sort field
func (f SortField) Next() SortField {
	opts := SortOptions()
	return opts[(slices.Index(opts, f)+1)%len(opts)]
}

// SortOptions returns the available sort fields in cycle order
func SortOptions() []SortField {
	return []SortField{SortTitle, SortAuthor, SortYear, SortAvailability}
}

// ParseSortField maps a config or flag value to a SortField
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "title":
		return SortTitle, nil
	case "author":
		return SortAuthor, nil
	case "year":
		return SortYear, nil
	case "availability", "available":
		return SortAvailability, nil
	default:
		return SortTitle, fmt.Errorf("unknown sort field %q", s)
	}
}

// SortBooks orders books in place. Title and author sort A-Z using
// language-aware collation; year and availability sort highest first.
func SortBooks(books []domain.Book, field SortField) {
	col := collate.New(language.English, collate.IgnoreCase)

	slices.SortStableFunc(books, func(a, b domain.Book) int {
		switch field {
		case SortAuthor:
			return col.CompareString(a.Author, b.Author)
		case SortYear:
			return cmp.Compare(b.PublishedYear, a.PublishedYear)
		case SortAvailability:
			return cmp.Compare(b.AvailableCopies, a.AvailableCopies)
		default:
			return col.CompareString(a.Title, b.Title)
		}
	})
}
