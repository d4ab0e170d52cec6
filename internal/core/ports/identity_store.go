package ports

import "context"

// IdentityStore wraps the external authentication provider. Accounts are
// keyed by an opaque identity id minted at creation time.
type IdentityStore interface {
	// CreateAccount registers email+password credentials and returns the new
	// identity id. Fails with domain.ErrCredentialsInvalid (provider policy)
	// or domain.ErrAccountExists.
	CreateAccount(ctx context.Context, email, password string) (string, error)

	// Authenticate verifies credentials and returns the identity id. Fails
	// with domain.ErrAuthFailed (wrong password) or domain.ErrAccountNotFound.
	Authenticate(ctx context.Context, email, password string) (string, error)

	// EndSession terminates the provider-side session. Best-effort: failures
	// are reported as domain.ErrSessionEndFailed and must not block local
	// session teardown.
	EndSession(ctx context.Context, identityID string) error
}
