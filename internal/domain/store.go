package domain

// Durable state keys, one per slice of library state.
const (
	KeySessionUser    = "session-user"
	KeySessionIsAdmin = "session-is-admin"
	KeyStudents       = "students"
	KeyBooks          = "books"
	KeyIssuedBooks    = "issued-books"
)

// StateKeys lists every key the library persists, in load order.
func StateKeys() []string {
	return []string{KeySessionUser, KeySessionIsAdmin, KeyStudents, KeyBooks, KeyIssuedBooks}
}

// Store is the durable key-value blob store the library persists to.
// Values are opaque serialized snapshots; Get returns ErrKeyNotFound for a
// key that was never written.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error

	// Keys lists stored keys; Load uses it to report keys it does not own.
	Keys() ([]string, error)
	// Delete is maintenance surface for clearing a slice by hand and for
	// tests. No library operation deletes state.
	Delete(key string) error

	// === Lifecycle ===
	Close() error
}

// Codec serializes state slices to and from blobs.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}
