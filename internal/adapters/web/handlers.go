// Package web is the JSON API adapter. It performs session validation and
// company scoping, then delegates to the ApplicationService; no analysis
// logic lives here.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"statement-analyzer/internal/app"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(4 << 20)) // 4 MB — trial balances are small

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected (401 JSON if unauthenticated) ───────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)

		r.Post("/api/analyses", h.analyze)
		r.Get("/api/analyses", h.listAnalyses)
		r.Get("/api/analyses/{period}", h.getAnalysis)
		r.Post("/api/analyses/{period}/finalize", h.finalizeAnalysis)
		r.Post("/api/analyses/{period}/summary", h.summarizeAnalysis)
	})

	return r
}

// health handles GET /api/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
