package library

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/store"
)

// Service is the library state owner. It holds the session, students, books
// and loan records in memory and writes each slice through to the durable
// store whenever it changes.
//
// Bubble Tea runs commands on their own goroutines, so all state is guarded
// by mu.
type Service struct {
	store  domain.Store
	codec  domain.Codec
	logger *slog.Logger
	clock  domain.Clock
	newID  IDGenerator

	loanPeriod    time.Duration
	adminUsername string
	adminPassword string
	passwordCost  int

	mu       sync.RWMutex
	session  domain.Session
	students []domain.Student
	books    []domain.Book
	loans    []domain.IssuedBook
}

// New creates a library service backed by st. Call Load before use.
func New(st domain.Store, opts ...Option) *Service {
	s := &Service{
		store:         st,
		codec:         store.JSONCodec{},
		logger:        slog.Default(),
		clock:         domain.SystemClock{},
		newID:         NewUUIDv7,
		loanPeriod:    DefaultLoanPeriod,
		adminUsername: DefaultAdminUsername,
		adminPassword: DefaultAdminPassword,
		passwordCost:  bcrypt.DefaultCost,
		session:       domain.NoSession(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load rehydrates every state slice from the durable store. Missing slices
// are seeded and written back. Corrupt or unreadable slices fall back to the
// seed in memory only, leaving the stored blob as it is until a mutation
// rewrites that slice. Load never fails on storage problems.
func (s *Service) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var students []domain.Student
	if r := s.load(domain.KeyStudents, &students); r != loaded {
		students = s.hashSeedPasswords(seedStudents())
		if r == missing {
			s.persist(domain.KeyStudents, students)
		}
	}

	var books []domain.Book
	if r := s.load(domain.KeyBooks, &books); r != loaded {
		books = seedBooks()
		if r == missing {
			s.persist(domain.KeyBooks, books)
		}
	}

	var loans []domain.IssuedBook
	if r := s.load(domain.KeyIssuedBooks, &loans); r != loaded {
		loans = []domain.IssuedBook{}
		if r == missing {
			s.persist(domain.KeyIssuedBooks, loans)
		}
	}

	var user *domain.Student
	userResult := s.load(domain.KeySessionUser, &user)
	var isAdmin bool
	adminResult := s.load(domain.KeySessionIsAdmin, &isAdmin)

	s.students = nonNil(students)
	s.books = nonNil(books)
	s.loans = nonNil(loans)

	switch {
	case isAdmin:
		s.session = domain.AdminSession()
	case user != nil:
		s.session = domain.StudentSession(*user)
	default:
		s.session = domain.NoSession()
	}
	seedable := func(r loadResult) bool { return r == loaded || r == missing }
	if (userResult == missing || adminResult == missing) && seedable(userResult) && seedable(adminResult) {
		s.persistSession()
	}

	s.logUnknownKeys()
	s.logger.Info("library loaded",
		"students", len(s.students),
		"books", len(s.books),
		"loans", len(s.loans),
		"session", s.session.Kind.String())
	return nil
}

// logUnknownKeys reports stored keys no state slice owns, e.g. left behind
// by a newer or older build.
func (s *Service) logUnknownKeys() {
	keys, err := s.store.Keys()
	if err != nil {
		s.logger.Debug("failed to list stored keys", "error", err)
		return
	}
	known := domain.StateKeys()
	for _, k := range keys {
		if !slices.Contains(known, k) {
			s.logger.Debug("ignoring unknown key", "key", k)
		}
	}
}

// Close releases the durable store.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// --- Persistence helpers (callers hold mu) ---

// loadResult says how a stored slice came back
type loadResult int

const (
	loaded     loadResult = iota
	missing               // never written
	corrupt               // present but undecodable
	unreadable            // the store failed to read it
)

// load decodes key into dest.
func (s *Service) load(key string, dest any) loadResult {
	data, err := s.store.Get(key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		s.logger.Debug("seeding missing key", "key", key)
		return missing
	}
	if err != nil {
		s.logger.Warn("failed to read key, using default", "key", key, "error", err)
		return unreadable
	}
	if err := s.codec.Unmarshal(data, dest); err != nil {
		s.logger.Warn("corrupt blob, using default", "key", key, "error", err)
		return corrupt
	}
	return loaded
}

// persist writes one slice. Failures are logged, never returned: the
// in-memory mutation has already happened and stays.
func (s *Service) persist(key string, value any) {
	data, err := s.codec.Marshal(value)
	if err != nil {
		s.logger.Error("failed to persist", "key", key, "error", err)
		return
	}
	if err := s.store.Put(key, data); err != nil {
		s.logger.Error("failed to persist", "key", key, "error", err)
	}
}

func (s *Service) persistSession() {
	s.persist(domain.KeySessionUser, s.session.Student)
	s.persist(domain.KeySessionIsAdmin, s.session.IsAdmin())
}

func (s *Service) persistStudents() { s.persist(domain.KeyStudents, s.students) }
func (s *Service) persistBooks()    { s.persist(domain.KeyBooks, s.books) }
func (s *Service) persistLoans()    { s.persist(domain.KeyIssuedBooks, s.loans) }

// --- Lookup helpers (callers hold mu) ---

func (s *Service) bookIndex(id string) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) studentIndex(id string) int {
	for i := range s.students {
		if s.students[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) loanIndex(id string) int {
	for i := range s.loans {
		if s.loans[i].ID == id {
			return i
		}
	}
	return -1
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
