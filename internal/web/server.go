package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/h00x7r/Media-Flow/internal/activity"
	"github.com/h00x7r/Media-Flow/internal/mediastore"
	"github.com/h00x7r/Media-Flow/internal/service"
)

// Services groups the application services the API exposes.
type Services struct {
	Projects   *service.ProjectService
	MoodBoards *service.MoodBoardService
	Styles     *service.StyleGuideService
	Dashboard  *service.DashboardService
}

type Server struct {
	projects  *service.ProjectService
	boards    *service.MoodBoardService
	styles    *service.StyleGuideService
	dashboard *service.DashboardService
	media     mediastore.MediaStore
	feed      activity.Feed
	aiLimiter *rate.Limiter
	mux       *http.ServeMux
	logger    *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer builds the API. aiLimiter throttles every route that calls the
// generator; nil disables throttling.
func NewServer(svcs Services, media mediastore.MediaStore, feed activity.Feed, aiLimiter *rate.Limiter, logger *slog.Logger) *Server {
	s := &Server{
		projects:  svcs.Projects,
		boards:    svcs.MoodBoards,
		styles:    svcs.Styles,
		dashboard: svcs.Dashboard,
		media:     media,
		feed:      feed,
		aiLimiter: aiLimiter,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /dashboard", s.handleDashboard)
	s.mux.HandleFunc("GET /activity", s.handleRecentActivity)
	s.mux.HandleFunc("GET /activity/stream", s.handleActivityStream)

	s.mux.HandleFunc("GET /projects", s.handleListProjects)
	s.mux.HandleFunc("POST /projects", s.handleCreateProject)
	s.mux.HandleFunc("GET /projects/{id}", s.handleGetProject)
	s.mux.HandleFunc("PATCH /projects/{id}/status", s.handleUpdateProjectStatus)
	s.mux.HandleFunc("POST /projects/{id}/proofs", s.handleSubmitProof)
	s.mux.HandleFunc("POST /projects/{id}/proofs/{proofID}/approve", s.handleApproveProof)
	s.mux.HandleFunc("POST /projects/{id}/proofs/{proofID}/request-revisions", s.handleRequestRevisions)
	s.mux.HandleFunc("POST /projects/{id}/proofs/{proofID}/feedback", s.handleAddFeedback)

	s.mux.HandleFunc("GET /mood-boards", s.handleListMoodBoards)
	s.mux.HandleFunc("POST /mood-boards", s.handleCreateMoodBoard)
	s.mux.HandleFunc("GET /mood-boards/{id}", s.handleGetMoodBoard)
	s.mux.HandleFunc("POST /mood-boards/{id}/images", s.handleAddImage)
	s.mux.HandleFunc("DELETE /mood-boards/{id}/images/{imageID}", s.handleRemoveImage)
	s.mux.HandleFunc("PUT /mood-boards/{id}/cover", s.handleSetCoverImage)
	s.mux.Handle("POST /mood-boards/{id}/style-guide", s.rateLimited(http.HandlerFunc(s.handleBoardStyleGuide)))

	s.mux.Handle("POST /ai/image-prompt", s.rateLimited(http.HandlerFunc(s.handleImagePrompt)))
	s.mux.Handle("POST /ai/style-guide", s.rateLimited(http.HandlerFunc(s.handleStyleGuide)))

	s.mux.HandleFunc("GET /media/{key}", s.handleGetMedia)
}

// securityHeaders sets browser hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// rateLimited rejects requests with 429 once the AI token bucket is empty.
func (s *Server) rateLimited(next http.Handler) http.Handler {
	if s.aiLimiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.aiLimiter.Allow() {
			s.logger.Warn("ai request rate limited", "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Kind:    "RateLimited",
				Message: "too many AI requests, try again shortly",
			}, s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// ListenAndServe blocks until the server stops. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()
	return srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}
