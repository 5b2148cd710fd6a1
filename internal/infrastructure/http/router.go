package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/http/handlers"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	HealthHandler   *handlers.HealthHandler
	UsersHandler    *handlers.UsersHandler
	ProjectsHandler *handlers.ProjectsHandler
	TicketsHandler  *handlers.TicketsHandler
	CommentsHandler *handlers.CommentsHandler
	RolesHandler    *handlers.RolesHandler
	RequireJWT      func(http.Handler) http.Handler
	Log             zerolog.Logger
	Secure          func(http.Handler) http.Handler
	CORS            func(http.Handler) http.Handler
	IPRateLimit     func(http.Handler) http.Handler
	Metrics         bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/verify-email", cfg.AuthHandler.VerifyEmail)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/refresh", cfg.AuthHandler.Refresh)
			r.Post("/forgot-password", cfg.AuthHandler.ForgotPassword)
			r.Post("/reset-password", cfg.AuthHandler.ResetPassword)
			// Logout revokes both tokens and works with or without a live
			// access token; it stays outside the JWT gate.
			r.Post("/logout", cfg.AuthHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireJWT)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", cfg.UsersHandler.List)
				r.Get("/me", cfg.UsersHandler.Me)
				r.Get("/{id}", cfg.UsersHandler.Get)
				r.Patch("/{id}", cfg.UsersHandler.Edit)
				r.Delete("/{id}", cfg.UsersHandler.Delete)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", cfg.ProjectsHandler.Create)
				r.Get("/", cfg.ProjectsHandler.List)
				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", cfg.ProjectsHandler.Get)
					r.Patch("/", cfg.ProjectsHandler.Edit)
					r.Delete("/", cfg.ProjectsHandler.Delete)
					r.Get("/activities", cfg.ProjectsHandler.Activities)
					r.Post("/members", cfg.ProjectsHandler.AddMember)
					r.Delete("/members/{username}", cfg.ProjectsHandler.RemoveMember)
					r.Post("/leave", cfg.ProjectsHandler.Leave)
					r.Post("/transfer-ownership", cfg.ProjectsHandler.TransferOwnership)
					r.Post("/tickets", cfg.TicketsHandler.Create)
					r.Get("/tickets", cfg.TicketsHandler.ListByProject)
				})
			})

			r.Route("/tickets/{ticketID}", func(r chi.Router) {
				r.Get("/", cfg.TicketsHandler.Get)
				r.Patch("/", cfg.TicketsHandler.Edit)
				r.Delete("/", cfg.TicketsHandler.Delete)
				r.Get("/activities", cfg.TicketsHandler.Activities)
				r.Post("/assign", cfg.TicketsHandler.Assign)
				r.Delete("/assignees/{userID}", cfg.TicketsHandler.Unassign)
				r.Post("/comments", cfg.CommentsHandler.Create)
				r.Get("/comments", cfg.CommentsHandler.ListByTicket)
				r.Post("/files", cfg.TicketsHandler.Upload)
				r.Get("/files", cfg.TicketsHandler.ListAttachments)
				r.Get("/files/{filename}", cfg.TicketsHandler.Download)
				r.Delete("/files/{attachmentID}", cfg.TicketsHandler.DeleteAttachment)
			})

			r.Route("/comments/{commentID}", func(r chi.Router) {
				r.Patch("/", cfg.CommentsHandler.Edit)
				r.Delete("/", cfg.CommentsHandler.Delete)
			})

			r.Route("/roles/requests", func(r chi.Router) {
				r.Post("/", cfg.RolesHandler.RequestChange)
				r.Get("/", cfg.RolesHandler.List)
				r.Delete("/{requestID}", cfg.RolesHandler.Cancel)
				r.Post("/{requestID}/approve", cfg.RolesHandler.Approve)
				r.Post("/{requestID}/reject", cfg.RolesHandler.Reject)
			})
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
