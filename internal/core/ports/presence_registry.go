package ports

import (
	"context"

	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
)

// PresenceRegistry is the per-role directory of currently logged-in users,
// independent of the durable profile record.
type PresenceRegistry interface {
	// AddEntry upserts the entry for (entry.Role, entry.IdentityID).
	// Idempotent; fails with domain.ErrWriteFailed.
	AddEntry(ctx context.Context, entry domain.PresenceEntry) error

	// RemoveEntry deletes the entry. Removing a non-existent entry is not an
	// error.
	RemoveEntry(ctx context.Context, role domain.Role, identityID string) error

	// ListByRole returns all active entries for a role.
	ListByRole(ctx context.Context, role domain.Role) ([]domain.PresenceEntry, error)
}
