package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sat8bit/kaiwa/reveal"
	"github.com/sat8bit/kaiwa/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reply API and the settled transcript over HTTP",
		Long: `Start the HTTP server.

Routes:
  POST /api/chat        {"message": "..."} -> {"reply": "..."}
  GET  /api/transcript  settled intro as JSON
  GET  /transcript.md   settled intro as Markdown
  GET  /metrics         Prometheus metrics
  GET  /health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default SERVER_ADDR)")

	return cmd
}

func runServe(ctx context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	store, err := a.store(ctx)
	if err != nil {
		return err
	}
	host := settle(store,
		reveal.WithLogger(a.logger),
		reveal.WithMetrics(a.metrics),
		reveal.WithStrict(a.cfg.Strict),
	)
	defer host.Cancel()

	srv := server.NewServer(addr,
		server.WithReplies(a.replies(ctx)),
		server.WithTranscript(host, "Intro", a.persona.DisplayName),
		server.WithMetrics(a.metrics),
		server.WithLogger(a.logger),
	)
	return srv.Start(ctx)
}
