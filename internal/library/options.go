package library

import (
	"log/slog"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

// DefaultLoanPeriod is how long a copy may be kept before it is overdue.
const DefaultLoanPeriod = 14 * 24 * time.Hour

// Default admin credential pair
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "123"
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock domain.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLoanPeriod sets the due-date offset for new loans.
func WithLoanPeriod(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.loanPeriod = d
		}
	}
}

// WithAdminCredentials sets the admin username and password.
func WithAdminCredentials(username, password string) Option {
	return func(s *Service) {
		if username != "" {
			s.adminUsername = username
			s.adminPassword = password
		}
	}
}

// WithPasswordCost sets the bcrypt cost used for student passwords.
func WithPasswordCost(cost int) Option {
	return func(s *Service) {
		s.passwordCost = cost
	}
}
