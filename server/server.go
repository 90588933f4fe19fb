// Package server は、返信 API と表示済みトランスクリプトを HTTP で公開します。
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sat8bit/kaiwa/metrics"
	"github.com/sat8bit/kaiwa/reply"
	"github.com/sat8bit/kaiwa/reveal"
)

// Source は、公開するトランスクリプトの取得元です。*reveal.Host が満たします。
type Source interface {
	Snapshot() reveal.Snapshot
}

type Server struct {
	router  *chi.Mux
	addr    string
	replies reply.Service
	source  Source
	title   string
	name    string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Server)

// WithReplies は /api/chat の返信元です。指定しなければ "API key not configured" を返します。
func WithReplies(s reply.Service) Option {
	return func(srv *Server) { srv.replies = s }
}

// WithTranscript は /api/transcript と /transcript.md の取得元です。
func WithTranscript(src Source, title, name string) Option {
	return func(srv *Server) {
		srv.source = src
		srv.title = title
		srv.name = name
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(srv *Server) { srv.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) { srv.logger = l }
}

func NewServer(addr string, opts ...Option) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		addr:   addr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	router.Get("/health", s.health)
	router.Post("/api/chat", s.chat)
	router.Get("/api/transcript", s.transcriptJSON)
	router.Get("/transcript.md", s.transcriptMarkdown)
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics.Handler())
	}

	return s
}

// Handler は、ルーティング済みの http.Handler を返します。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start は ctx が終わるまで待ち受けます。終了時は処理中のリクエストを待ってから戻ります。
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server.Start: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server.Shutdown: %w", err)
		}
		s.logger.Info("API server stopped")
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
