package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/h00x7r/Media-Flow/internal/activity"
	"github.com/h00x7r/Media-Flow/internal/domain"
)

const (
	defaultActivityLimit = 10
	// streamKeepAlive is how often an idle activity stream sends a comment
	// line so proxies keep the connection open.
	streamKeepAlive = 30 * time.Second
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d, s.logger)
}

func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", domain.ErrValidation))
			return
		}
		limit = n
	}

	entries, err := s.feed.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to read activity: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, entries, s.logger)
}

// handleActivityStream pushes each recorded activity entry as a server-sent
// event until the client disconnects.
func (s *Server) handleActivityStream(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.feed.(activity.Subscriber)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, errorResponse{
			Kind:    "Internal",
			Message: "activity feed does not support streaming",
		}, s.logger)
		return
	}

	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		s.logger.Debug("could not clear write deadline", "error", err)
	}

	// Subscribe before the headers go out so a client that has seen the
	// response cannot miss an entry.
	entries := sub.Subscribe(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.Error("activity stream flush failed", "error", err)
		return
	}

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := w.Write([]byte(": keep-alive\n\n")); err != nil {
				return
			}
		case e, ok := <-entries:
			if !ok {
				return
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			// Encode terminates the line; the extra newline ends the event.
			if err := enc.Encode(e); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n")); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
