package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"turnready/internal/gate"
	"turnready/internal/metrics"
	"turnready/internal/middleware"
	"turnready/internal/routes"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Logger      *slog.Logger
	Guard       *gate.Guard
	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Collector
	Gatherer    prometheus.Gatherer

	CORSAllowedOrigins []string

	Auth         *AuthHandler
	Me           *MeHandler
	Properties   *PropertiesHandler
	Jobs         *JobsHandler
	PartRequests *PartRequestsHandler
	Reviews      *ReviewsHandler
	Admin        *AdminHandler
}

// NewRouter assembles the full middleware chain and route tree. Access
// policy comes from the routes table; mounting a gated subtree looks up
// its allowed roles there so the policy stays defined in one place.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Instrument(deps.Metrics))
	r.Use(deps.RateLimiter.Middleware())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Public routes.
	r.Get("/health", HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	r.Get("/login", loginRequired)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", deps.Auth.SignUp)
		r.Post("/login", deps.Auth.SignIn)
		r.Post("/logout", deps.Auth.SignOut)
	})

	// Onboarding: identity required, role not yet.
	r.Route("/api/me", func(r chi.Router) {
		r.Use(deps.Guard.RequireIdentity())
		r.Get("/", deps.Me.Get)
		r.Put("/", deps.Me.Upsert)
	})

	// Role-gated routes, each behind its table entry.
	r.Route("/api/properties", func(r chi.Router) {
		r.Use(restrict(deps.Guard, "/api/properties"))
		r.Post("/", deps.Properties.Create)
		r.Get("/", deps.Properties.List)
		r.Get("/{id}", deps.Properties.Get)
		r.Put("/{id}", deps.Properties.Update)
		r.Delete("/{id}", deps.Properties.Delete)
	})

	r.Route("/api/jobs", func(r chi.Router) {
		r.Use(restrict(deps.Guard, "/api/jobs"))
		r.Post("/", deps.Jobs.Create)
		r.Get("/", deps.Jobs.List)
		r.Get("/open", deps.Jobs.ListOpen)
		r.Get("/{id}", deps.Jobs.Get)
		r.Post("/{id}/claim", deps.Jobs.Claim)
		r.Post("/{id}/complete", deps.Jobs.Complete)
	})

	r.Route("/api/part-requests", func(r chi.Router) {
		r.Use(restrict(deps.Guard, "/api/part-requests"))
		r.Post("/", deps.PartRequests.Create)
		r.Get("/job/{jobID}", deps.PartRequests.ListByJob)
		r.Post("/{id}/approve", deps.PartRequests.Approve)
		r.Post("/{id}/reject", deps.PartRequests.Reject)
	})

	r.Route("/api/reviews", func(r chi.Router) {
		r.Use(restrict(deps.Guard, "/api/reviews"))
		r.Post("/", deps.Reviews.Create)
		r.Get("/tech/{techID}", deps.Reviews.ListByTech)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(restrict(deps.Guard, "/api/admin"))
		r.Get("/profiles", deps.Admin.ListProfiles)
		r.Put("/profiles/{id}/role", deps.Admin.SetRole)
		r.Delete("/profiles/{id}", deps.Admin.DeleteProfile)
	})

	return r
}

// restrict builds the gate middleware for a mounted pattern from its
// route table entry. An unknown pattern is a programming error.
func restrict(guard *gate.Guard, pattern string) func(http.Handler) http.Handler {
	allowed, ok := routes.AllowedFor(pattern)
	if !ok {
		panic("no route table entry for " + pattern)
	}
	return guard.Require(allowed...)
}

// loginRequired is the landing target for gate redirects. API clients
// get a machine-readable hint instead of an HTML login page.
func loginRequired(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"message": "authentication required",
		"signup":  "/api/auth/signup",
		"login":   "/api/auth/login",
	})
}
