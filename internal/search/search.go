package search

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/mmcdole/shelf/internal/domain"
)

// AllCategories is the category filter value that matches every book
const AllCategories = "All"

// Options narrows and orders a catalog listing
type Options struct {
	Query    string
	Category string // "" or AllCategories matches everything
	Sort     SortField
}

// Service handles catalog browsing on top of the library's substring search
type Service struct {
	queries domain.LibraryQueries
	logger  *slog.Logger
}

// NewService creates a new search service
func NewService(queries domain.LibraryQueries, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  logger,
	}
}

// Browse runs the substring search, then filters by category and sorts.
func (s *Service) Browse(opts Options) []domain.Book {
	books := FilterCategory(s.queries.SearchBooks(opts.Query), opts.Category)
	SortBooks(books, opts.Sort)
	s.logger.Debug("browse", "query", opts.Query, "category", opts.Category, "sort", opts.Sort.Key(), "results", len(books))
	return books
}

// Categories returns the distinct categories in the catalog, sorted
func (s *Service) Categories() []string {
	return Categories(s.queries.Books())
}

// CategoryOptions returns AllCategories followed by Categories, for cycling
func (s *Service) CategoryOptions() []string {
	return append([]string{AllCategories}, s.Categories()...)
}

// Suggest returns up to limit catalog titles close to query, best first.
// Used when Browse finds nothing.
func (s *Service) Suggest(query string, limit int) []string {
	return Suggest(query, s.queries.Books(), limit)
}

// FindBooks fuzzy-ranks the catalog by title and author
func (s *Service) FindBooks(query string) []BookMatch {
	return FindBooks(query, s.queries.Books())
}

// FindStudents fuzzy-ranks students by name, username and roll number
func (s *Service) FindStudents(query string) []StudentMatch {
	return FindStudents(query, s.queries.Students())
}

// FilterCategory keeps the books in category. Matching is case-insensitive.
func FilterCategory(books []domain.Book, category string) []domain.Book {
	if category == "" || category == AllCategories {
		return books
	}
	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if strings.EqualFold(b.Category, category) {
			out = append(out, b)
		}
	}
	return out
}

// Categories returns the distinct non-empty categories of books, sorted
func Categories(books []domain.Book) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, b := range books {
		if b.Category == "" || seen[b.Category] {
			continue
		}
		seen[b.Category] = true
		cats = append(cats, b.Category)
	}
	slices.Sort(cats)
	return cats
}
