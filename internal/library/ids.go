package library

import "github.com/google/uuid"

// IDGenerator returns a new unique id carrying the given prefix.
type IDGenerator func(prefix string) string

// Id prefixes
const (
	prefixBook    = "book"
	prefixLoan    = "issued"
	prefixStudent = "student"
)

// NewUUIDv7 is the default IDGenerator. v7 ids sort by creation time and do
// not collide when called in the same millisecond.
func NewUUIDv7(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + "-" + id.String()
}

// maxIDAttempts bounds how often a generator may repeat a taken id before
// uniqueID switches to NewUUIDv7.
const maxIDAttempts = 64

// uniqueID draws ids from gen until taken reports a free one. Counters that
// restart on every Load skip over the ids already in use.
func uniqueID(gen IDGenerator, prefix string, taken func(id string) bool) string {
	for range maxIDAttempts {
		if id := gen(prefix); id != "" && !taken(id) {
			return id
		}
	}
	for {
		if id := NewUUIDv7(prefix); !taken(id) {
			return id
		}
	}
}
