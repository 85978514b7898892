package gate

import (
	"context"
	"log/slog"
	"net/http"

	"turnready/internal/authn"
	"turnready/internal/profile"
	"turnready/internal/session"
)

// Default redirect targets. Route composition can override them per mount.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// sessionContextKey is the context key for the resolved session state.
const sessionContextKey contextKey = "session"

// FromContext retrieves the session state attached by Require.
// Only present on requests that passed the gate.
func FromContext(ctx context.Context) (session.State, bool) {
	state, ok := ctx.Value(sessionContextKey).(session.State)
	return state, ok
}

// ContextWithState attaches a session state to a context. Exposed for
// handler tests that bypass the middleware.
func ContextWithState(ctx context.Context, state session.State) context.Context {
	return context.WithValue(ctx, sessionContextKey, state)
}

// Metrics records gate outcomes. Satisfied by metrics.Collector.
type Metrics interface {
	RecordGateDecision(decision string)
}

// Guard resolves the per-request session and enforces route access.
type Guard struct {
	provider  session.Provider
	loader    session.Loader
	logger    *slog.Logger
	metrics   Metrics
	loginPath string
	homePath  string
}

// NewGuard creates a guard over the given provider and loader.
func NewGuard(provider session.Provider, loader session.Loader, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		provider:  provider,
		loader:    loader,
		logger:    logger,
		loginPath: LoginPath,
		homePath:  HomePath,
	}
}

// SetMetrics attaches a decision recorder. Optional.
func (g *Guard) SetMetrics(m Metrics) {
	g.metrics = m
}

func (g *Guard) record(d Decision) Decision {
	if g.metrics != nil {
		g.metrics.RecordGateDecision(d.String())
	}
	return d
}

// Require returns middleware enforcing the given allow-list.
//
// Decision handling:
//   - Checking: 503 with a neutral "checking access" body; the session is
//     still resolving and no redirect decision exists yet.
//   - Unauthenticated: 303 See Other to the login route. The 303 replaces
//     the guarded page in the client's flow the way a history-replacing
//     redirect does; following the redirect never re-submits the request.
//   - Forbidden: 303 See Other to the home route.
//   - Authorized: the session state is attached to the request context and
//     the protected handler runs.
func (g *Guard) Require(allowed ...profile.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := g.resolve(r)

			switch g.record(Evaluate(state, allowed)) {
			case Checking:
				w.Header().Set("Retry-After", "1")
				authn.WriteJSONError(w, http.StatusServiceUnavailable,
					"checking access", "session_resolving")
			case Unauthenticated:
				http.Redirect(w, r, g.loginPath, http.StatusSeeOther)
			case Forbidden:
				http.Redirect(w, r, g.homePath, http.StatusSeeOther)
			case Authorized:
				ctx := ContextWithState(r.Context(), state)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// RequireIdentity returns middleware that demands a signed-in identity but
// no particular role. Onboarding flows sit behind this: a fresh account has
// a profile with no role yet, which the role gate would bounce to login.
func (g *Guard) RequireIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := g.resolve(r)

			if state.Loading {
				w.Header().Set("Retry-After", "1")
				authn.WriteJSONError(w, http.StatusServiceUnavailable,
					"checking access", "session_resolving")
				return
			}
			if state.Identity == nil {
				http.Redirect(w, r, g.loginPath, http.StatusSeeOther)
				return
			}

			ctx := ContextWithState(r.Context(), state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolve runs one session-store lifecycle for the request's token:
// initialize, snapshot, done. A request with no token still resolves — to
// the signed-out state.
func (g *Guard) resolve(r *http.Request) session.State {
	token, err := authn.ExtractToken(r)
	if err != nil {
		token = ""
	}

	store := session.New(g.provider, g.loader, g.logger)
	store.Initialize(r.Context(), token)
	return store.Snapshot()
}
