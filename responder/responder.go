// Package responder は、ユーザーの入力を受けて送信と返信の取得を進めます。
package responder

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sat8bit/kaiwa/message"
	"github.com/sat8bit/kaiwa/metrics"
	"github.com/sat8bit/kaiwa/reply"
	"github.com/sat8bit/kaiwa/reveal"
	"github.com/sat8bit/kaiwa/turn"
)

var (
	// ErrEmpty は、空白だけの入力を送ろうとしたときのエラーです。
	ErrEmpty = errors.New("empty message")
	// ErrBusy は、返信待ちの間に次の入力を送ろうとしたときのエラーです。
	ErrBusy = errors.New("reply already in flight")
)

// DefaultTimeout は、返信の取得にかける時間の上限です。
const DefaultTimeout = 15 * time.Second

// Host は、送信と返信を表示列に入れる先です。*reveal.Host が満たします。
type Host interface {
	Send(text string) (*message.Message, error)
	ReceiveReply(text string) error
}

type Responder struct {
	host    Host
	service reply.Service
	turns   turn.Manager
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics

	wg sync.WaitGroup
}

type Option func(*Responder)

func WithTimeout(d time.Duration) Option {
	return func(r *Responder) { r.timeout = d }
}

func WithTurns(m turn.Manager) Option {
	return func(r *Responder) { r.turns = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Responder) { r.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Responder) { r.metrics = m }
}

// New は Responder を生成します。service が nil なら返信は常に失敗扱いです。
func New(host Host, service reply.Service, opts ...Option) *Responder {
	if service == nil {
		service = reply.Unconfigured{}
	}
	r := &Responder{
		host:    host,
		service: service,
		turns:   turn.NewMutexManager(),
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit は入力を送信として表示列に入れ、返信の取得を別ゴルーチンで始めます。
// 返信が失敗したときは、代わりの文言を返信として表示します。
func (r *Responder) Submit(ctx context.Context, input string) (*message.Message, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, ErrEmpty
	}

	// --- 発話権獲得フェーズ ---
	if !r.turns.TryAcquire() {
		return nil, ErrBusy
	}

	sent, err := r.host.Send(text)
	if err != nil {
		r.turns.Release()
		return nil, err
	}

	// --- 返信取得フェーズ ---
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.turns.Release()
		r.fetch(ctx, text)
	}()
	return sent, nil
}

// Busy は、返信を待っているかどうかを返します。
func (r *Responder) Busy() bool {
	return r.turns.Held()
}

// Idle は、発話権が空くまで（進行中の返信を Host に渡し終えるまで）待ちます。
func (r *Responder) Idle(ctx context.Context) error {
	if err := r.turns.Acquire(ctx); err != nil {
		return err
	}
	r.turns.Release()
	return nil
}

// Wait は、進行中の返信取得がすべて終わるまで待ちます。
func (r *Responder) Wait() {
	r.wg.Wait()
}

func (r *Responder) fetch(ctx context.Context, text string) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := time.Now()
	resp, err := r.service.Reply(ctx, text)
	if err != nil {
		reason := reply.FailureReason(err)
		r.metrics.ReplyFailed(reason)
		r.logger.WarnContext(ctx, "reply failed", "reason", reason, "error", err)
		resp = reply.Fallback(err)
	} else {
		r.logger.DebugContext(ctx, "reply received", "chars", len([]rune(resp)), "elapsed", time.Since(started))
	}

	if err := r.host.ReceiveReply(resp); err != nil {
		if errors.Is(err, reveal.ErrCancelled) {
			r.logger.Debug("reply dropped after cancel")
			return
		}
		r.logger.Error("failed to hand over reply", "error", err)
	}
}
