package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sat8bit/kaiwa/audio"
	"github.com/sat8bit/kaiwa/bus"
	"github.com/sat8bit/kaiwa/renderer"
	"github.com/sat8bit/kaiwa/responder"
	"github.com/sat8bit/kaiwa/reveal"
	"github.com/sat8bit/kaiwa/scroll"
	"github.com/sat8bit/kaiwa/tui"
)

type playOptions struct {
	skipIntro bool
	audio     bool
	plain     bool
	save      string
}

// NewPlayCmd creates the play command.
func NewPlayCmd() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the intro transcript and chat",
		Long: `Play the authored intro one message at a time, then chat with the narrator.

When stdout is not a terminal the intro is shown all at once and input is read
line by line from stdin.

Examples:
  kaiwa play
  kaiwa play --skip-intro
  kaiwa play --save ./pages/content/posts
  echo "what are you building?" | kaiwa play --plain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.skipIntro, "skip-intro", false, "Show the whole intro at once")
	cmd.Flags().BoolVar(&opts.audio, "audio", false, "Ring the terminal bell for each new message")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Print lines instead of the fullscreen interface")
	cmd.Flags().StringVar(&opts.save, "save", "", "Save the session as Markdown into this directory on exit")

	return cmd
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func runPlay(ctx context.Context, opts playOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tty := isTerminal()
	fullscreen := tty && !opts.plain

	a, err := loadApp(fullscreen)
	if err != nil {
		return err
	}
	defer a.close()

	store, err := a.store(ctx)
	if err != nil {
		return err
	}

	b := bus.NewMemoryBus()
	var wg sync.WaitGroup
	defer func() {
		b.Close()
		wg.Wait()
	}()
	a.attachBus(b)

	if opts.save != "" {
		md := renderer.NewMarkdownRenderer(opts.save, "Chat", a.persona.DisplayName, time.Now())
		if err := md.Render(b, &wg); err != nil {
			return err
		}
	}

	hostOpts := []reveal.Option{
		reveal.WithBus(b),
		reveal.WithLogger(a.logger),
		reveal.WithMetrics(a.metrics),
		reveal.WithStrict(a.cfg.Strict),
		reveal.WithBypass(opts.skipIntro || !tty),
	}
	if opts.audio {
		d := audio.NewDispatcher(audio.NewBellPlayer(os.Stdout),
			audio.WithLogger(a.logger),
			audio.WithMetrics(a.metrics),
		)
		hostOpts = append(hostOpts, reveal.WithTiming(reveal.AudioTiming()), reveal.WithAudio(d))
	}

	var port *tui.Port
	if fullscreen {
		port = tui.NewPort()
		hostOpts = append(hostOpts, reveal.WithScroll(scroll.NewFollower(port,
			scroll.WithBottomThreshold(3),
			scroll.WithHeaderThreshold(2),
		)))
	}

	host := reveal.New(store, hostOpts...)
	defer host.Cancel()

	r := responder.New(host, a.replies(ctx),
		responder.WithLogger(a.logger),
		responder.WithMetrics(a.metrics),
	)

	if !fullscreen {
		return runPlain(ctx, host, r, b, a.persona.DisplayName, os.Stdin, os.Stdout)
	}

	events := b.Subscribe()
	model := tui.New(ctx, host, r, events, port, tui.Profile{
		Name:    a.persona.DisplayName,
		Tagline: a.persona.Tagline,
	})
	host.Start()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// runPlain は、台本を書き出したあと in の各行を送信として扱います。
func runPlain(ctx context.Context, host *reveal.Host, r *responder.Responder, b bus.Bus, name string, in io.Reader, out io.Writer) error {
	var wg sync.WaitGroup
	if err := renderer.NewConsoleRenderer(out, name).Render(b, &wg); err != nil {
		return err
	}
	defer func() {
		b.Close()
		wg.Wait()
	}()

	host.Start()
	select {
	case <-host.Done():
	case <-ctx.Done():
		return nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if _, err := r.Submit(ctx, scanner.Text()); err != nil {
			if errors.Is(err, responder.ErrEmpty) {
				continue
			}
			return err
		}
		if err := r.Idle(ctx); err != nil {
			return nil
		}
		if !waitIdle(ctx, host) {
			return nil
		}
	}
	return scanner.Err()
}

// waitIdle は、Host の予約済みタイマーが無くなるまで待ちます。ctx が終われば false です。
func waitIdle(ctx context.Context, host *reveal.Host) bool {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for host.PendingTimers() > 0 {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return true
}
