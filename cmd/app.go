package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sat8bit/kaiwa/blog"
	"github.com/sat8bit/kaiwa/bus"
	"github.com/sat8bit/kaiwa/buslog"
	"github.com/sat8bit/kaiwa/config"
	"github.com/sat8bit/kaiwa/message"
	"github.com/sat8bit/kaiwa/metrics"
	"github.com/sat8bit/kaiwa/persona"
	"github.com/sat8bit/kaiwa/reply"
	"github.com/sat8bit/kaiwa/script"
	"github.com/sat8bit/kaiwa/transcript"
)

// feedTimeout は、起動時にブログのフィードを待つ上限です。
const feedTimeout = 5 * time.Second

// app は、サブコマンドが共通で使う依存関係です。
type app struct {
	cfg     *config.Config
	persona *persona.Persona
	metrics *metrics.Metrics
	logger  *slog.Logger

	handler  slog.Handler
	closeLog func()
}

// loadApp は設定とペルソナを読み込み、ロガーを用意します。
// fullscreen なら画面を崩さないよう、ログは KAIWA_LOG_FILE に書きます。
func loadApp(fullscreen bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var out io.Writer = os.Stderr
	closeLog := func() {}
	if fullscreen {
		out, closeLog, err = logOutput(cfg.Log.File)
		if err != nil {
			return nil, err
		}
	}
	handler := cfg.Log.Handler(out)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	p, err := persona.Default()
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to load persona: %w", err)
	}

	return &app{
		cfg:      cfg,
		persona:  p,
		metrics:  metrics.New(),
		logger:   logger,
		handler:  handler,
		closeLog: closeLog,
	}, nil
}

func (a *app) close() {
	a.closeLog()
}

// attachBus は、警告以上のログを b にも流すようにします。
func (a *app) attachBus(b bus.Bus) {
	a.logger = slog.New(buslog.NewBusHandler(b, a.handler, slog.LevelWarn))
	slog.SetDefault(a.logger)
}

// logOutput は TUI 実行中のログの出力先です。KAIWA_LOG_FILE が無ければ捨てます。
func logOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// store は、ブログ記事を差し込んだ台本を読み込んだ Store を返します。
func (a *app) store(ctx context.Context) (*transcript.Store, error) {
	var fetcher blog.Fetcher
	if a.cfg.Blog.FeedURL != "" {
		fetcher = blog.NewRSSFetcher(a.cfg.Blog.FeedURL, a.cfg.Blog.Limit)
	}

	ctx, cancel := context.WithTimeout(ctx, feedTimeout)
	defer cancel()
	posts := blog.Resolve(ctx, fetcher, a.logger)

	msgs, err := script.Default(posts)
	if err != nil {
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	return a.storeOf(msgs)
}

func (a *app) storeOf(msgs []*message.Message) (*transcript.Store, error) {
	s := transcript.New()
	if err := s.AppendAuthored(msgs); err != nil {
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	return s, nil
}

// replies は返信元を選びます。REPLY_URL があればそこへ、無ければ Gemini を直接呼びます。
// どちらも使えなければ Unconfigured です。
func (a *app) replies(ctx context.Context) reply.Service {
	if a.cfg.ReplyURL != "" {
		a.logger.Info("using remote reply endpoint", "url", a.cfg.ReplyURL)
		return reply.NewHTTPClient(a.cfg.ReplyURL, nil)
	}

	g, err := reply.NewGemini(ctx, reply.GeminiConfig{
		APIKey:   a.cfg.Gemini.APIKey,
		Backend:  a.cfg.Gemini.Backend,
		Project:  a.cfg.Gemini.Project,
		Location: a.cfg.Gemini.Location,
		Model:    a.cfg.Gemini.Model,
	}, a.persona)
	if err != nil {
		a.logger.Warn("replies disabled", "error", err)
		return reply.Unconfigured{}
	}
	return g
}
