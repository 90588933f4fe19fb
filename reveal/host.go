// Package reveal は、台本の段階的な開示と実行時のメッセージ追加を
// 1つの Host にまとめる再生エンジンです。
//
// Host のすべての入口とタイマーのコールバックは同じ Mutex の下で動くので、
// Store や入力中表示、新着カウンタを同時に触ることはありません。
// タイマーはすべて Host に登録され、Cancel で一斉に止まります。
package reveal

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sat8bit/kaiwa/bus"
	"github.com/sat8bit/kaiwa/clock"
	"github.com/sat8bit/kaiwa/message"
	"github.com/sat8bit/kaiwa/metrics"
	"github.com/sat8bit/kaiwa/transcript"
	"github.com/sat8bit/kaiwa/typing"
	"github.com/sat8bit/kaiwa/unread"
)

// ErrCancelled は、Cancel 後の Host を操作したときのエラーです。
var ErrCancelled = errors.New("host cancelled")

// Cuer は、メッセージ ID ごとに効果音を鳴らします。*audio.Dispatcher が満たします。
type Cuer interface {
	Play(id string)
}

// Follower は、スクロール位置の追従です。*scroll.Follower が満たします。
type Follower interface {
	Scrolled()
	IsScrolledUp() bool
	HeaderScrolled() bool
	ScrollToBottom()
	AutoScrollOnNewContent() bool
}

// Host は再生エンジンです。New で生成してください。
type Host struct {
	mu sync.Mutex

	store    *transcript.Store
	timing   Timing
	bypass   bool
	strict   bool
	clock    clock.Clock
	cuer     Cuer
	follower Follower
	bus      bus.Bus
	logger   *slog.Logger
	metrics  *metrics.Metrics

	typing  *typing.Indicator
	unread  unread.Counter
	timers  map[uint64]clock.Timer
	timerID uint64

	started    bool
	cancelled  bool
	disclosing bool
	disclosed  int

	anchorVisible bool
	anchorTimer   uint64
	compact       bool

	done     chan struct{}
	doneOnce sync.Once
}

type Option func(*Host)

func WithTiming(t Timing) Option {
	return func(h *Host) { h.timing = t }
}

// WithBypass なら、Start で台本をすべて一度に表示します。入力中表示も出しません。
func WithBypass(b bool) Option {
	return func(h *Host) { h.bypass = b }
}

// WithAudio は効果音を有効にします。nil なら鳴らしません。
func WithAudio(c Cuer) Option {
	return func(h *Host) { h.cuer = c }
}

func WithScroll(f Follower) Option {
	return func(h *Host) { h.follower = f }
}

func WithClock(c clock.Clock) Option {
	return func(h *Host) { h.clock = c }
}

func WithBus(b bus.Bus) Option {
	return func(h *Host) { h.bus = b }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Host) { h.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Host) { h.metrics = m }
}

// WithStrict なら、不変条件の違反で panic します。開発時向けです。
func WithStrict(s bool) Option {
	return func(h *Host) { h.strict = s }
}

// New は store を再生する Host を生成します。
// スクロール追従を指定しなければ、常に一番下にいるものとして扱います。
func New(store *transcript.Store, opts ...Option) *Host {
	h := &Host{
		store:         store,
		timing:        NarrativeTiming(),
		clock:         clock.Real{},
		follower:      bottomFollower{},
		logger:        slog.Default(),
		timers:        make(map[uint64]clock.Timer),
		anchorVisible: true,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.store == nil {
		h.store = transcript.New()
	}
	if h.follower == nil {
		h.follower = bottomFollower{}
	}
	h.typing = typing.New(h.typingChanged)
	return h
}

// Done は、台本をすべて開示し終えたときに閉じるチャネルです。
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// Cancel は予約済みのタイマーをすべて止めます。
// 既に発火して Mutex を待っているコールバックも、Cancel の後は何もしません。
func (h *Host) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled {
		return
	}
	h.cancelled = true
	for id, t := range h.timers {
		t.Stop()
		delete(h.timers, id)
	}
	h.metrics.PendingTimers(0)
	h.typing.Reset()
	h.publish(bus.Event{Kind: bus.KindCancelled})
	h.logger.Debug("host cancelled", "visible", h.store.VisibleLen(), "cursor", h.store.Cursor())
}

// after は d 後に fn を h.mu の下で実行するよう予約し、タイマーの ID を返します。
// h.mu を保持して呼びます。
func (h *Host) after(d time.Duration, fn func()) uint64 {
	h.timerID++
	id := h.timerID
	h.timers[id] = h.clock.AfterFunc(d, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if h.cancelled {
			return
		}
		if _, ok := h.timers[id]; !ok {
			return
		}
		delete(h.timers, id)
		h.metrics.PendingTimers(len(h.timers))
		fn()
	})
	h.metrics.PendingTimers(len(h.timers))
	return id
}

// stop は予約済みのタイマーを取り消します。h.mu を保持して呼びます。
func (h *Host) stop(id uint64) {
	t, ok := h.timers[id]
	if !ok {
		return
	}
	t.Stop()
	delete(h.timers, id)
	h.metrics.PendingTimers(len(h.timers))
}

// PendingTimers は、まだ発火していないタイマーの数です。
func (h *Host) PendingTimers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.timers)
}

func (h *Host) publish(e bus.Event) {
	if h.bus == nil {
		return
	}
	if e.At.IsZero() {
		e.At = h.clock.Now()
	}
	if err := h.bus.Broadcast(e); err != nil {
		h.logger.Debug("event dropped", "kind", e.Kind, "error", err)
	}
}

// violation は不変条件の違反を扱います。strict なら panic、そうでなければログに残します。
func (h *Host) violation(op string, err error) error {
	err = fmt.Errorf("%s: %w", op, err)
	if h.strict {
		panic(err)
	}
	h.logger.Error("invariant violation", "op", op, "error", err)
	return err
}

// grew は表示列が1件伸びたあとの共通処理です。
func (h *Host) grew(m *message.Message, source string) {
	h.metrics.Revealed(source)
	h.publish(bus.Event{Kind: bus.KindRevealed, Message: m})
	h.follow()
	h.logger.Debug("message revealed", "id", m.ID, "source", source, "visible", h.store.VisibleLen())
}

// follow は、一番下にいれば追従し、上にいれば新着を数えます。
func (h *Host) follow() {
	if h.follower.AutoScrollOnNewContent() {
		h.publish(bus.Event{Kind: bus.KindScroll})
		return
	}
	if h.unread.Observe(h.follower.IsScrolledUp()) {
		h.publish(bus.Event{Kind: bus.KindUnread, Unread: h.unread.Count()})
	}
}

func (h *Host) typingChanged(active bool) {
	h.metrics.TypingSources(h.typing.Pending())
	if h.bypass {
		return
	}
	h.publish(bus.Event{Kind: bus.KindTyping, Typing: active})
	if !h.cancelled {
		h.followTyping()
	}
}

// followTyping は入力中表示が出たとき、消えたときの追従です。新着には数えません。
func (h *Host) followTyping() {
	if h.follower.AutoScrollOnNewContent() {
		h.publish(bus.Event{Kind: bus.KindScroll})
	}
}

func (h *Host) cue(id string) {
	if h.cuer == nil {
		return
	}
	h.cuer.Play(id)
	h.publish(bus.Event{Kind: bus.KindCue, Message: h.find(id)})
}

func (h *Host) find(id string) *message.Message {
	for _, m := range h.store.Visible() {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (h *Host) settle() {
	h.doneOnce.Do(func() {
		close(h.done)
		h.publish(bus.Event{Kind: bus.KindSettled})
		h.logger.Info("transcript settled", "visible", h.store.VisibleLen())
	})
}

// bottomFollower は、スクロールを持たない出力先（ログ、テスト）向けです。
type bottomFollower struct{}

func (bottomFollower) Scrolled()                    {}
func (bottomFollower) IsScrolledUp() bool           { return false }
func (bottomFollower) HeaderScrolled() bool         { return false }
func (bottomFollower) ScrollToBottom()              {}
func (bottomFollower) AutoScrollOnNewContent() bool { return true }
