package server

import (
	"net/http"
	"time"

	"github.com/sat8bit/kaiwa/message"
	"github.com/sat8bit/kaiwa/renderer"
)

type transcriptResponse struct {
	Settled  bool               `json:"settled"`
	Messages []*message.Message `json:"messages"`
}

// transcriptJSON は GET /api/transcript です。表示済みのメッセージをそのまま返します。
func (s *Server) transcriptJSON(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		writeError(w, http.StatusNotFound, "Transcript not available")
		return
	}
	snap := s.source.Snapshot()
	writeJSON(w, http.StatusOK, transcriptResponse{
		Settled:  snap.Settled,
		Messages: snap.Visible,
	})
}

// transcriptMarkdown は GET /transcript.md です。
func (s *Server) transcriptMarkdown(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		http.NotFound(w, r)
		return
	}
	snap := s.source.Snapshot()

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	err := renderer.WriteMarkdown(w, renderer.Document{
		Title:    s.title,
		Name:     s.name,
		Date:     time.Now(),
		Tags:     []string{s.name},
		Messages: snap.Visible,
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to render transcript", "error", err)
	}
}
