// Package session maintains the current identity and profile for one
// authenticated session: initial resolution from a token, live updates from
// provider auth-change events, and a read-only snapshot for authorization.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"turnready/internal/authn"
	"turnready/internal/profile"
)

// Provider is the slice of the identity provider the store depends on.
type Provider interface {
	// CurrentSession resolves a token to its identity; absent or invalid
	// sessions resolve to nil without error.
	CurrentSession(ctx context.Context, token string) (*authn.Identity, error)

	// Subscribe registers a listener for auth-change events.
	Subscribe(fn func(*authn.Identity)) *authn.Subscription
}

// Loader resolves the profile for an identity.
type Loader interface {
	LoadProfile(ctx context.Context, identityID uuid.UUID) (*profile.Profile, error)
}

// LoaderFunc adapts a function to the Loader interface, e.g.
// LoaderFunc(profileManager.GetByIdentity).
type LoaderFunc func(ctx context.Context, identityID uuid.UUID) (*profile.Profile, error)

// LoadProfile calls f.
func (f LoaderFunc) LoadProfile(ctx context.Context, identityID uuid.UUID) (*profile.Profile, error) {
	return f(ctx, identityID)
}

// State is a point-in-time view of the session.
// Loading is true only during the initial resolution window; once Initialize
// returns it stays false for the rest of the store's lifetime.
type State struct {
	Identity *authn.Identity
	Profile  *profile.Profile
	Loading  bool
}

// Store holds the session state for a single authenticated principal.
// All writes go through the store; everything else reads via Snapshot.
type Store struct {
	provider Provider
	loader   Loader
	logger   *slog.Logger

	mu       sync.Mutex
	identity *authn.Identity
	profile  *profile.Profile
	loading  bool
	gen      uint64
	sub      *authn.Subscription
}

// New creates a store in the loading state. It does not subscribe to
// auth-change events; call Watch for that.
func New(provider Provider, loader Loader, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		provider: provider,
		loader:   loader,
		logger:   logger,
		loading:  true,
	}
}

// Initialize resolves the existing session for the given token, if any, and
// loads the matching profile. Loading is cleared on every exit path,
// including provider failure. Provider errors are logged and swallowed: the
// store proceeds in a signed-out state.
func (s *Store) Initialize(ctx context.Context, token string) {
	defer s.setLoading(false)

	identity, err := s.provider.CurrentSession(ctx, token)
	if err != nil {
		s.logger.Warn("session lookup failed, continuing signed out", "error", err)
		return
	}
	if identity == nil {
		return
	}

	gen := s.setIdentity(identity)
	s.loadProfile(ctx, identity.ID, gen)
}

// Watch subscribes the store to provider auth-change events. Exactly one
// subscription is held; calling Watch again is a no-op. Close releases it.
func (s *Store) Watch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub != nil {
		return
	}
	s.sub = s.provider.Subscribe(s.OnAuthChange)
}

// Close unsubscribes from auth-change events.
func (s *Store) Close() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// OnAuthChange replaces the identity with the event's user (nil on
// sign-out), clears the profile synchronously, and refetches the profile
// when an identity remains.
func (s *Store) OnAuthChange(identity *authn.Identity) {
	gen := s.setIdentity(identity)
	if identity == nil {
		return
	}
	s.loadProfile(context.Background(), identity.ID, gen)
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Identity: s.identity,
		Profile:  s.profile,
		Loading:  s.loading,
	}
}

// setIdentity swaps the identity, clears the profile, and advances the
// load generation. The returned generation ties any in-flight profile fetch
// to the identity that triggered it.
func (s *Store) setIdentity(identity *authn.Identity) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = identity
	s.profile = nil
	s.gen++
	return s.gen
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// loadProfile fetches the profile for an identity and stores it, unless a
// newer auth change has superseded this load. A missing row or a failed
// fetch leaves the profile nil; neither is surfaced to the caller.
func (s *Store) loadProfile(ctx context.Context, identityID uuid.UUID, gen uint64) {
	p, err := s.loader.LoadProfile(ctx, identityID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			s.logger.Debug("no profile for identity", "identity_id", identityID)
		} else {
			s.logger.Warn("profile fetch failed, treating as missing",
				"identity_id", identityID, "error", err)
		}
		p = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stale result: the identity changed while this fetch was in flight.
	if s.gen != gen {
		return
	}
	s.profile = p
}
