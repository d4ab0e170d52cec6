package ports

import (
	"context"

	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
)

// ProfileRepository persists per-user profile documents keyed by identity id.
type ProfileRepository interface {
	// CreateProfile writes the record created at signup. Fails with
	// domain.ErrWriteFailed.
	CreateProfile(ctx context.Context, rec domain.ProfileRecord) error

	// GetProfile returns the stored record or domain.ErrProfileNotFound.
	GetProfile(ctx context.Context, identityID string) (*domain.ProfileRecord, error)

	// SetOnlineStatus flips the online flag. Callers must not block session
	// teardown on a domain.ErrWriteFailed from this call.
	SetOnlineStatus(ctx context.Context, identityID, status string) error
}
