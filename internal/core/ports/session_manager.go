package ports

import (
	"context"

	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
)

// SessionManager is the orchestrator surface consumed by presentation and
// the access gate. Accessors return snapshots; callers never observe a
// partially written session.
type SessionManager interface {
	// Login authenticates, verifies the claimed role against the stored
	// profile, establishes the session, and performs best-effort presence
	// bookkeeping. On failure the previous session (if any) is untouched.
	Login(ctx context.Context, email, password string, claimed domain.Role) (*domain.Session, error)

	// Signup creates the identity account and profile record, then
	// establishes a session. It does not touch the presence registry.
	Signup(ctx context.Context, username, email, password string, role domain.Role) (*domain.Session, error)

	// Logout clears the session locally no matter how many remote
	// collaborators fail. A nil session makes it a no-op.
	Logout(ctx context.Context) error

	// Restore loads the durable local record at process start, trusting it
	// without revalidation.
	Restore()

	CurrentSession() *domain.Session
	State() domain.SessionState
	IsLoading() bool
	LastError() error

	// UpdatePreferences merges a patch into the session's local-only
	// preference map and persists the record. Returns the updated snapshot,
	// or nil when no session is active.
	UpdatePreferences(patch map[string]string) *domain.Session

	// Subscribe registers an observer for state changes. The returned func
	// unsubscribes.
	Subscribe(fn func(state domain.SessionState, session *domain.Session)) func()
}
