package authn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Subscription is a registered auth-change listener handle.
type Subscription struct {
	id       uint64
	provider *Provider
	once     sync.Once
}

// Unsubscribe removes the listener. Safe to call more than once, and a
// no-op on a zero-value Subscription.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.provider != nil {
			s.provider.removeSubscriber(s.id)
		}
	})
}

// Provider implements sign-up, sign-in, sign-out, and session lookup, and
// emits auth-change events to subscribers on every sign-in and sign-out.
type Provider struct {
	ds       *Datastore
	sessions SessionBackend
	tokens   *TokenCodec
	ttl      time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	nextID uint64
	subs   []*subscriber
}

type subscriber struct {
	id uint64
	fn func(*Identity)
}

// NewProvider creates a new identity provider.
func NewProvider(ds *Datastore, sessions SessionBackend, tokens *TokenCodec, ttl time.Duration, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		ds:       ds,
		sessions: sessions,
		tokens:   tokens,
		ttl:      ttl,
		logger:   logger,
	}
}

// SignUp registers a new identity and opens a session for it.
// Returns the identity and a signed session token.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*Identity, string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, "", err
	}
	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}

	taken, err := p.ds.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	identity, err := p.ds.CreateIdentity(ctx, email, string(hash))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create identity: %w", err)
	}

	token, err := p.openSession(ctx, identity)
	if err != nil {
		return nil, "", err
	}

	p.emit(identity)
	return identity, token, nil
}

// SignIn authenticates an identity and opens a session for it.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Identity, string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	cred, err := p.ds.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up identity: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	identity := &cred.Identity
	token, err := p.openSession(ctx, identity)
	if err != nil {
		return nil, "", err
	}

	p.emit(identity)
	return identity, token, nil
}

// SignOut revokes the session carried by the token and emits a nil
// auth-change event. A token whose session is already gone is not an error.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.tokens.Verify(token)
	if err != nil {
		p.logger.Debug("sign-out with unverifiable token", "error", err)
		return nil
	}

	sid, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil
	}

	if err := p.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	p.emit(nil)
	return nil
}

// CurrentSession resolves a token to its identity.
// Absent, expired, or malformed sessions resolve to nil without error; only
// backend failures are returned as errors.
func (p *Provider) CurrentSession(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := p.tokens.Verify(token)
	if err != nil {
		return nil, nil
	}

	sid, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, nil
	}

	session, err := p.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	identity, err := p.ds.GetByID(ctx, session.IdentityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Session outlived the identity row; treat as signed out.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	return identity, nil
}

// Subscribe registers a listener for auth-change events. The listener is
// invoked with the new identity on sign-in and nil on sign-out, in the order
// events are emitted.
func (p *Provider) Subscribe(fn func(*Identity)) *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	sub := &subscriber{id: p.nextID, fn: fn}
	p.subs = append(p.subs, sub)

	return &Subscription{id: sub.id, provider: p}
}

func (p *Provider) removeSubscriber(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, sub := range p.subs {
		if sub.id == id {
			p.subs = append(p.subs[:i], p.subs[i+1:]...)
			return
		}
	}
}

// emit delivers an auth-change event to every subscriber. Delivery happens
// under the lock so events from concurrent sign-ins arrive in emit order.
func (p *Provider) emit(identity *Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, sub := range p.subs {
		sub.fn(identity)
	}
}

func (p *Provider) openSession(ctx context.Context, identity *Identity) (string, error) {
	session := &Session{
		ID:         uuid.New(),
		IdentityID: identity.ID,
		Email:      identity.Email,
		CreatedAt:  time.Now(),
	}

	if err := p.sessions.Put(ctx, session, p.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	token, err := p.tokens.Issue(session)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}
