package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	authcontext "github.com/nasermirzaei89/pressroom/auth/context"
)

const (
	HeaderUser = "user"
	HeaderRole = "role"
)

type Config struct {
	AllowedOrigins []string
}

// Handler serves the HTTP API of a single service.
type Handler struct {
	router chi.Router
}

var _ http.Handler = (*Handler)(nil)

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// newHandler builds the router shared by every service. The api routes are
// registered under /api behind the identity check.
func newHandler(cfg Config, registerRoutes func(r chi.Router)) *Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logMiddleware)
	router.Use(recoverMiddleware)

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", HeaderUser, HeaderRole},
			MaxAge:         300,
		}))
	}

	router.Get("/healthz", handleHealthz)

	router.Route("/api", func(r chi.Router) {
		r.Use(identityMiddleware)

		registerRoutes(r)
	})

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errorClassNotFound, "route not found")
	})

	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusBadRequest, errorClassBadRequest, "method not allowed")
	})

	return &Handler{router: router}
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// identityMiddleware requires the caller to name itself and its role.
func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := strings.TrimSpace(r.Header.Get(HeaderUser))
		role := strings.TrimSpace(r.Header.Get(HeaderRole))

		if user == "" || role == "" {
			writeError(w, http.StatusBadRequest, errorClassValidation, "user and role headers are required")

			return
		}

		ctx := authcontext.WithIdentity(r.Context(), user, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.DebugContext(
			r.Context(),
			"request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"requestId", middleware.GetReqID(r.Context()),
		)
	})
}

// recoverMiddleware answers panics with 400 like every other unclassified failure.
// A response that already started is left as is, and http.ErrAbortHandler is
// passed on to net/http.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func(ctx context.Context) {
			rvr := recover()
			if rvr == nil {
				return
			}

			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.ErrorContext(
				ctx,
				"recovered from panic",
				"error",
				rvr,
				"stack",
				string(debug.Stack()),
			)

			if ww.Status() != 0 {
				return
			}

			writeError(ww, http.StatusBadRequest, errorClassBadRequest, "internal error occurred")
		}(r.Context())

		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
