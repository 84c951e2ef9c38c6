package store

import (
	"fmt"
	"strings"

	"github.com/mmcdole/shelf/internal/domain"
)

// Supported storage drivers
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the durable store named by driver rooted at dir.
func Open(driver, dir string) (domain.Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverBolt:
		return NewBoltStore(dir)
	case DriverSQLite:
		return NewSQLiteStore(dir)
	case DriverMemory:
		return NewBoltStore("")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
