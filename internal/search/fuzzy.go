package search

import (
	"slices"
	"strings"

	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/shelf/internal/domain"
)

// BookMatch is a fuzzy hit with the matched rune positions in Label
type BookMatch struct {
	Book           domain.Book
	Label          string
	MatchedIndexes []int
	Score          int // Higher is better
}

// StudentMatch is a fuzzy hit against a student's label
type StudentMatch struct {
	Student        domain.Student
	Label          string
	MatchedIndexes []int
	Score          int
}

// BookLabel is the string fuzzy matching runs against
func BookLabel(b domain.Book) string {
	return b.Title + " - " + b.Author
}

// StudentLabel is the string fuzzy matching runs against
func StudentLabel(s domain.Student) string {
	return s.Name + " (" + s.Username + ", " + s.RollNo + ")"
}

// labelSource implements sahilm/fuzzy.Source over precomputed labels
type labelSource []string

func (l labelSource) String(i int) string { return l[i] }
func (l labelSource) Len() int            { return len(l) }

// FindBooks ranks books against query. An empty query returns every book
// in its original order.
func FindBooks(query string, books []domain.Book) []BookMatch {
	labels := make(labelSource, len(books))
	for i, b := range books {
		labels[i] = BookLabel(b)
	}

	if strings.TrimSpace(query) == "" {
		out := make([]BookMatch, len(books))
		for i, b := range books {
			out[i] = BookMatch{Book: b, Label: labels[i]}
		}
		return out
	}

	matches := fuzzy.FindFrom(query, labels)
	out := make([]BookMatch, len(matches))
	for i, m := range matches {
		out[i] = BookMatch{
			Book:           books[m.Index],
			Label:          m.Str,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return out
}

// FindStudents ranks students against query. An empty query returns every
// student in its original order.
func FindStudents(query string, students []domain.Student) []StudentMatch {
	labels := make(labelSource, len(students))
	for i, s := range students {
		labels[i] = StudentLabel(s)
	}

	if strings.TrimSpace(query) == "" {
		out := make([]StudentMatch, len(students))
		for i, s := range students {
			out[i] = StudentMatch{Student: s, Label: labels[i]}
		}
		return out
	}

	matches := fuzzy.FindFrom(query, labels)
	out := make([]StudentMatch, len(matches))
	for i, m := range matches {
		out[i] = StudentMatch{
			Student:        students[m.Index],
			Label:          m.Str,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return out
}

// Suggest returns up to limit titles that fuzzily contain query, closest
// (lowest Levenshtein distance) first. Words are matched independently so
// "gatsby great" still finds "The Great Gatsby".
func Suggest(query string, books []domain.Book, limit int) []string {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 || limit <= 0 {
		return nil
	}

	titles := make([]string, len(books))
	for i, b := range books {
		titles[i] = strings.ToLower(b.Title)
	}

	type hit struct {
		index    int
		distance int
	}
	var hits []hit
	for i, title := range titles {
		total := 0
		ok := true
		for _, w := range words {
			if !fuzzysearch.MatchFold(w, title) {
				ok = false
				break
			}
			total += fuzzysearch.LevenshteinDistance(w, title)
		}
		if ok {
			hits = append(hits, hit{index: i, distance: total})
		}
	}

	// Typos that break subsequence matching ("gatsbi"): every query word
	// must be a near miss of some word in the title
	if len(hits) == 0 {
		for i, title := range titles {
			if d, ok := typoDistance(words, strings.Fields(title)); ok {
				hits = append(hits, hit{index: i, distance: d})
			}
		}
	}

	slices.SortStableFunc(hits, func(a, b hit) int { return a.distance - b.distance })

	out := make([]string, 0, min(limit, len(hits)))
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, books[h.index].Title)
	}
	return out
}

// typoDistance sums, per query word, the edit distance to its closest title
// word. It fails when any word is further off than maxTypoDistance allows.
func typoDistance(words, titleWords []string) (int, bool) {
	total := 0
	for _, w := range words {
		best := -1
		for _, tw := range titleWords {
			d := fuzzysearch.LevenshteinDistance(w, tw)
			if d <= maxTypoDistance(w) && (best < 0 || d < best) {
				best = d
			}
		}
		if best < 0 {
			return 0, false
		}
		total += best
	}
	return total, true
}

// maxTypoDistance scales typo tolerance with word length
func maxTypoDistance(word string) int {
	switch n := len([]rune(word)); {
	case n <= 3:
		return 0
	case n <= 6:
		return 1
	default:
		return 2
	}
}
