package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/glockmonth/2100-Hours/internal/board"
	"github.com/glockmonth/2100-Hours/internal/loader"
	"github.com/glockmonth/2100-Hours/internal/pagegen"
)

// Handler serves the leaderboard. Every request runs the pipeline again, so
// edits to the export show up on reload.
type Handler struct {
	loader  *loader.Loader
	locator string
	static  http.Handler
	page    pagegen.Options
	logger  *zap.Logger
}

// NewHandler builds a Handler for the export at locator. Paths other than the
// page itself are served from staticDir, the same tree build copies next to
// index.html. An empty staticDir serves the page and API only.
func NewHandler(l *loader.Loader, locator, staticDir string, page pagegen.Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{loader: l, locator: locator, page: page, logger: logger}
	if staticDir != "" {
		h.static = http.FileServer(http.Dir(staticDir))
	}
	return h
}

// Routes returns the mux with middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.GetPage)
	mux.HandleFunc("/api/leaderboard", h.GetLeaderboard)
	mux.HandleFunc("/health", h.HealthCheck)

	var handler http.Handler = mux
	handler = loggingMiddleware(h.logger, handler)
	handler = recoveryMiddleware(h.logger, handler)
	return handler
}

// GetPage renders the HTML leaderboard at / and hands every other path to
// the static file server.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		if h.static == nil {
			http.NotFound(w, r)
			return
		}
		h.static.ServeHTTP(w, r)
		return
	}

	page := pagegen.NewPage()
	board.Run(r.Context(), h.loader, h.locator, page)

	var buf bytes.Buffer
	if err := page.Execute(&buf, h.page); err != nil {
		h.logger.Error("Failed to render page", zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// GetLeaderboard writes the rendered model as JSON.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	model := board.Run(r.Context(), h.loader, h.locator, nil)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(model); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HealthCheck reports that the process is up.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

func loggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("Request",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func recoveryMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered", zap.Any("panic", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// NewServer wraps the handler with the timeouts statboard runs with.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
