package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/CodeOrigin25/Mandi-Link/internal/api/metrics"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/ports"
)

// ErrSuperseded is returned to a login/signup caller whose attempt was
// overtaken by a newer operation before it could commit. The newer
// operation owns the session state; the stale result is discarded.
var ErrSuperseded = errors.New("attempt superseded by a newer operation")

// SessionManager orchestrates the identity store, profile repository,
// presence registry, and durable local record into the login/signup/logout
// flows. One instance owns the single logical session of the process.
//
// Collaborator calls may block on the network; every attempt captures an
// epoch under the mutex and re-checks it before touching session state, so
// a result arriving after a newer attempt started can never transition the
// machine (double-submit guard).
type SessionManager struct {
	identity ports.IdentityStore
	profiles ports.ProfileRepository
	presence ports.PresenceRegistry
	store    ports.SessionStore
	log      zerolog.Logger

	mu      sync.Mutex
	state   domain.SessionState
	session *domain.Session
	lastErr error
	epoch   uint64

	subs    map[int]func(domain.SessionState, *domain.Session)
	nextSub int
}

// NewSessionManager wires the collaborators. The manager starts in the
// authenticating state: the access gate must stay neutral until Restore has
// run, so a cold start never flash-redirects to login.
func NewSessionManager(
	identity ports.IdentityStore,
	profiles ports.ProfileRepository,
	presence ports.PresenceRegistry,
	store ports.SessionStore,
	log zerolog.Logger,
) *SessionManager {
	return &SessionManager{
		identity: identity,
		profiles: profiles,
		presence: presence,
		store:    store,
		log:      log,
		state:    domain.StateAuthenticating,
		subs:     make(map[int]func(domain.SessionState, *domain.Session)),
	}
}

// Restore loads the durable local record and, when present, installs it as
// an authenticated session without revalidating against the profile
// repository or identity store (trust-on-read). A record that outlived an
// out-of-band account deletion is only detected when a later remote write
// fails.
func (m *SessionManager) Restore() {
	sess, err := m.store.Load()
	switch {
	case err != nil:
		m.log.Warn().Err(err).Msg("session restore failed, starting unauthenticated")
		metrics.SessionRestoresTotal.WithLabelValues("error").Inc()
	case sess != nil:
		metrics.SessionRestoresTotal.WithLabelValues("restored").Inc()
	default:
		metrics.SessionRestoresTotal.WithLabelValues("empty").Inc()
	}

	m.mu.Lock()
	m.epoch++
	if sess != nil {
		m.session = sess
		m.state = domain.StateAuthenticated
	} else {
		m.session = nil
		m.state = domain.StateUnauthenticated
	}
	m.mu.Unlock()

	if sess != nil {
		m.log.Info().Str("identity_id", sess.IdentityID).Str("role", string(sess.Role)).Msg("session restored")
	}
	m.notify()
}

// Login runs the full flow: authenticate, fetch profile, enforce the
// registered role, commit the session, then best-effort bookkeeping.
func (m *SessionManager) Login(ctx context.Context, email, password string, claimed domain.Role) (*domain.Session, error) {
	epoch := m.begin()

	identityID, err := m.identity.Authenticate(ctx, email, password)
	if err != nil {
		return nil, m.fail(epoch, err)
	}

	rec, err := m.profiles.GetProfile(ctx, identityID)
	if err != nil {
		// Auth succeeded but the profile is gone: a detected inconsistency,
		// not a recoverable path. No session is established.
		if errors.Is(err, domain.ErrProfileNotFound) {
			err = domain.ErrUserRecordMissing
		}
		return nil, m.fail(epoch, err)
	}

	if rec.Role != claimed {
		return nil, m.fail(epoch, domain.ErrRoleMismatch)
	}

	sess := &domain.Session{
		IdentityID: identityID,
		Username:   rec.Username,
		Email:      rec.Email,
		Role:       rec.Role,
	}
	if !m.commit(epoch, sess) {
		return nil, ErrSuperseded
	}

	// Post-commit bookkeeping is fire-and-forget: the session is already
	// established, so failures are logged and never surfaced.
	if err := m.profiles.SetOnlineStatus(ctx, identityID, domain.StatusOnline); err != nil {
		m.log.Warn().Err(err).Str("identity_id", identityID).Msg("online status update failed")
		metrics.BookkeepingFailuresTotal.WithLabelValues("online_status").Inc()
	}
	if err := m.presence.AddEntry(ctx, domain.PresenceSnapshot(sess)); err != nil {
		m.log.Warn().Err(err).Str("identity_id", identityID).Str("role", string(sess.Role)).Msg("presence entry write failed")
		metrics.BookkeepingFailuresTotal.WithLabelValues("presence_add").Inc()
	}

	m.log.Info().Str("identity_id", identityID).Str("role", string(sess.Role)).Msg("login succeeded")
	return sess.Clone(), nil
}

// Signup creates the identity account and its profile record, then commits
// the session. Unlike Login it writes no presence entry and leaves the
// profile's online flag untouched.
func (m *SessionManager) Signup(ctx context.Context, username, email, password string, role domain.Role) (*domain.Session, error) {
	epoch := m.begin()

	identityID, err := m.identity.CreateAccount(ctx, email, password)
	if err != nil {
		return nil, m.fail(epoch, err)
	}

	rec := domain.ProfileRecord{
		IdentityID:   identityID,
		Username:     username,
		Email:        email,
		Role:         role,
		OnlineStatus: domain.StatusOffline,
	}
	if err := m.profiles.CreateProfile(ctx, rec); err != nil {
		// The identity account now exists without a profile. No compensating
		// delete; the orphan is logged so it is traceable.
		m.log.Error().Err(err).Str("identity_id", identityID).Msg("profile creation failed, identity account orphaned")
		return nil, m.fail(epoch, err)
	}

	sess := &domain.Session{
		IdentityID: identityID,
		Username:   username,
		Email:      email,
		Role:       role,
	}
	if !m.commit(epoch, sess) {
		return nil, ErrSuperseded
	}

	m.log.Info().Str("identity_id", identityID).Str("role", string(role)).Msg("signup succeeded")
	return sess.Clone(), nil
}

// Logout tears the session down. Every remote call is best-effort: the
// local session is cleared unconditionally even when all three fail.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return nil
	}
	sess := *m.session
	m.epoch++
	epoch := m.epoch
	m.state = domain.StateAuthenticating
	m.lastErr = nil
	m.mu.Unlock()
	m.notify()

	if err := m.profiles.SetOnlineStatus(ctx, sess.IdentityID, domain.StatusOffline); err != nil {
		m.log.Warn().Err(err).Str("identity_id", sess.IdentityID).Msg("offline status update failed")
		metrics.BookkeepingFailuresTotal.WithLabelValues("online_status").Inc()
	}
	if err := m.presence.RemoveEntry(ctx, sess.Role, sess.IdentityID); err != nil {
		m.log.Warn().Err(err).Str("identity_id", sess.IdentityID).Msg("presence entry removal failed")
		metrics.BookkeepingFailuresTotal.WithLabelValues("presence_remove").Inc()
	}
	if err := m.identity.EndSession(ctx, sess.IdentityID); err != nil {
		m.log.Warn().Err(err).Str("identity_id", sess.IdentityID).Msg("identity session end failed")
		metrics.BookkeepingFailuresTotal.WithLabelValues("session_end").Inc()
	}

	m.mu.Lock()
	owned := epoch == m.epoch
	if owned {
		m.session = nil
		m.state = domain.StateUnauthenticated
	}
	m.mu.Unlock()

	// A newer operation that started mid-logout owns the durable record now.
	if owned {
		if err := m.store.Clear(); err != nil {
			m.log.Warn().Err(err).Msg("durable session record clear failed")
			metrics.BookkeepingFailuresTotal.WithLabelValues("local_clear").Inc()
		}
	}

	m.log.Info().Str("identity_id", sess.IdentityID).Msg("logout completed")
	m.notify()
	return nil
}

// CurrentSession returns a snapshot of the active session, or nil.
func (m *SessionManager) CurrentSession() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Clone()
}

func (m *SessionManager) State() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsLoading reports whether an auth operation (or the initial restore) is
// in flight.
func (m *SessionManager) IsLoading() bool {
	return m.State() == domain.StateAuthenticating
}

// LastError returns the error surfaced by the most recent failed attempt,
// cleared at the start of the next one.
func (m *SessionManager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// UpdatePreferences merges patch into the session's preference map. The
// map is client-local only: it is persisted to the durable record, never
// synced to the document store.
func (m *SessionManager) UpdatePreferences(patch map[string]string) *domain.Session {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return nil
	}
	if m.session.Preferences == nil {
		m.session.Preferences = make(map[string]string, len(patch))
	}
	for k, v := range patch {
		m.session.Preferences[k] = v
	}
	updated := m.session.Clone()
	m.mu.Unlock()

	if err := m.store.Save(*updated); err != nil {
		m.log.Warn().Err(err).Msg("durable session record save failed")
		metrics.BookkeepingFailuresTotal.WithLabelValues("local_save").Inc()
	}
	m.notify()
	return updated
}

// Subscribe registers an observer invoked after every state change with a
// snapshot of the new state. The returned func removes the subscription.
func (m *SessionManager) Subscribe(fn func(domain.SessionState, *domain.Session)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// begin opens a new attempt: bumps the epoch (superseding any in-flight
// one), clears the previous error, and enters the authenticating state.
func (m *SessionManager) begin() uint64 {
	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	m.state = domain.StateAuthenticating
	m.lastErr = nil
	m.mu.Unlock()
	m.notify()
	return epoch
}

// fail records the attempt error and drops back to the prior resting state.
// A pre-existing session survives a failed re-login untouched. Stale
// attempts return their error but leave state alone.
func (m *SessionManager) fail(epoch uint64, err error) error {
	m.mu.Lock()
	if epoch != m.epoch {
		m.mu.Unlock()
		return err
	}
	m.lastErr = err
	if m.session != nil {
		m.state = domain.StateAuthenticated
	} else {
		m.state = domain.StateUnauthenticated
	}
	m.mu.Unlock()
	m.notify()
	return err
}

// commit installs the session and persists the durable record. Returns
// false when the attempt was superseded, in which case nothing is written.
func (m *SessionManager) commit(epoch uint64, sess *domain.Session) bool {
	m.mu.Lock()
	if epoch != m.epoch {
		m.mu.Unlock()
		return false
	}
	m.session = sess
	m.state = domain.StateAuthenticated
	m.mu.Unlock()

	if err := m.store.Save(*sess); err != nil {
		m.log.Warn().Err(err).Str("identity_id", sess.IdentityID).Msg("durable session record save failed")
		metrics.BookkeepingFailuresTotal.WithLabelValues("local_save").Inc()
	}
	m.notify()
	return true
}

// notify fans the current snapshot out to subscribers. Called outside the
// mutex so observers may call back into the manager.
func (m *SessionManager) notify() {
	m.mu.Lock()
	state := m.state
	sess := m.session.Clone()
	fns := make([]func(domain.SessionState, *domain.Session), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(state, sess)
	}
}
