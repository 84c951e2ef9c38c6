package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/store"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// sequentialIDs returns a deterministic IDGenerator: book-1, issued-2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// flakyStore wraps a memory store. It fails writes while failPuts is set
// and reads of the keys listed in failGets.
type flakyStore struct {
	domain.Store
	failPuts bool
	failGets map[string]bool
}

var (
	errDiskFull = errors.New("disk full")
	errTimeout  = errors.New("i/o timeout")
)

func (s *flakyStore) Get(key string) ([]byte, error) {
	if s.failGets[key] {
		return nil, errTimeout
	}
	return s.Store.Get(key)
}

func (s *flakyStore) Put(key string, value []byte) error {
	if s.failPuts {
		return errDiskFull
	}
	return s.Store.Put(key, value)
}

type fixture struct {
	svc   *Service
	q     *Queries
	clock *fakeClock
	store domain.Store
	logs  *bytes.Buffer
}

func newMemoryStore(t *testing.T) domain.Store {
	t.Helper()
	st, err := store.NewBoltStore("")
	require.NoError(t, err)
	return st
}

func newFixture(t *testing.T, st domain.Store) *fixture {
	t.Helper()
	if st == nil {
		st = newMemoryStore(t)
	}

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	clock := newFakeClock()

	svc := New(st,
		WithLogger(logger),
		WithClock(clock),
		WithIDGenerator(sequentialIDs()),
		WithPasswordCost(bcrypt.MinCost),
	)
	require.NoError(t, svc.Load(context.Background()))

	return &fixture{svc: svc, q: NewQueries(svc), clock: clock, store: st, logs: logs}
}

// assertCapacity checks 0 <= available <= total for every book.
func assertCapacity(t *testing.T, q *Queries) {
	t.Helper()
	for _, b := range q.Books() {
		require.GreaterOrEqual(t, b.AvailableCopies, 0, "book %s", b.ID)
		require.LessOrEqual(t, b.AvailableCopies, b.TotalCopies, "book %s", b.ID)
	}
}

func ptr[T any](v T) *T { return &v }
