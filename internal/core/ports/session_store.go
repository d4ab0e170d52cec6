package ports

import "github.com/CodeOrigin25/Mandi-Link/internal/core/domain"

// SessionStore is the durable local session record: a single serialized
// object under a fixed well-known location, overwritten wholesale on every
// state-affecting operation and deleted wholesale on logout. Reads and
// writes are synchronous and local; one process owns the record at a time.
type SessionStore interface {
	Save(session domain.Session) error
	// Load returns (nil, nil) when no record exists.
	Load() (*domain.Session, error)
	Clear() error
}
