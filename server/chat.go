package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sat8bit/kaiwa/reply"
)

type chatRequest struct {
	Message any `json:"message"`
}

// chat は POST /api/chat です。
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	text, ok := req.Message.(string)
	if !ok || text == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	if s.replies == nil {
		writeError(w, http.StatusInternalServerError, "API key not configured")
		return
	}

	resp, err := s.replies.Reply(r.Context(), text)
	if err != nil {
		s.metrics.ReplyFailed(reply.FailureReason(err))
		if errors.Is(err, reply.ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError, "API key not configured")
			return
		}
		s.logger.ErrorContext(r.Context(), "reply failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get response")
		return
	}

	writeJSON(w, http.StatusOK, reply.Response{Reply: resp})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, reply.Response{Error: msg})
}
