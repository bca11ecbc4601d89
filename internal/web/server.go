// Package web provides the HTTP server and handlers for the data viewer.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/JonMunkholm/sheetview/internal/config"
	"github.com/JonMunkholm/sheetview/internal/core"
	"github.com/JonMunkholm/sheetview/internal/dispatch"
	"github.com/JonMunkholm/sheetview/internal/metrics"
	"github.com/JonMunkholm/sheetview/internal/session"
	"github.com/JonMunkholm/sheetview/internal/web/middleware"
)

// HealthChecker reports whether the PDF conversion service is reachable.
// *convert.Client implements it.
type HealthChecker interface {
	Configured() bool
	Health(ctx context.Context) error
}

// Deps are the collaborators a Server needs. Limiter, PDF and Metrics may
// be nil.
type Deps struct {
	Config     *config.Config
	Store      *session.Store
	Dispatcher *dispatch.Dispatcher
	Limiter    *core.Limiter
	PDF        HealthChecker
	Metrics    *metrics.Recorder
}

// Server is the HTTP server for the data viewer.
type Server struct {
	cfg        *config.Config
	store      *session.Store
	dispatcher *dispatch.Dispatcher
	limiter    *core.Limiter
	pdf        HealthChecker
	metrics    *metrics.Recorder

	cookies      *sessions.CookieStore
	requestLimit *rateLimiter
	uploadLimit  *rateLimiter

	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server with middleware and routes configured.
func NewServer(d Deps) (*Server, error) {
	if d.Config == nil || d.Store == nil || d.Dispatcher == nil {
		return nil, errors.New("web: config, store and dispatcher are required")
	}

	key := []byte(d.Config.Session.Secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, errors.New("web: generate session key")
		}
		slog.Warn("SESSION_SECRET not set, using a random key; sessions reset on restart")
	}

	cookies := sessions.NewCookieStore(key)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(d.Config.Session.MaxIdle.Seconds()),
		HttpOnly: true,
		Secure:   d.Config.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		cfg:        d.Config,
		store:      d.Store,
		dispatcher: d.Dispatcher,
		limiter:    d.Limiter,
		pdf:        d.PDF,
		metrics:    d.Metrics,
		cookies:    cookies,
		router:     chi.NewRouter(),
	}
	if d.Config.Rate.Enabled {
		s.requestLimit = newRateLimiter(d.Config.Rate.RequestsPerMinute, rateWindow)
		s.uploadLimit = newRateLimiter(d.Config.Rate.UploadLimit, rateWindow)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(s.securityHeaders)

	if s.requestLimit != nil {
		s.router.Use(s.requestLimit.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	if s.cfg.Metrics.Enabled && s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handlePage)
		r.Post("/paste", s.handlePasteChange)

		r.Group(func(r chi.Router) {
			if s.uploadLimit != nil {
				r.Use(s.uploadLimit.middleware)
			}
			r.Post("/paste/submit", s.handlePasteSubmit)
			r.Post("/upload", s.handleUpload)
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Get("/table.csv", s.handleTableCSV)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server and its background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.requestLimit.stop()
	s.uploadLimit.stop()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// The page ships its own inline style and script.
		if s.cfg.Security.EnableCSP {
			h.Set("Content-Security-Policy", strings.Join([]string{
				"default-src 'self'",
				"script-src 'self' 'unsafe-inline'",
				"style-src 'self' 'unsafe-inline'",
				"img-src 'self' data:",
				"form-action 'self'",
				"frame-ancestors 'none'",
			}, "; "))
		}

		next.ServeHTTP(w, r)
	})
}
