package audio

import (
	"log/slog"
	"sync"

	"github.com/sat8bit/kaiwa/metrics"
)

// DefaultVolume は効果音の固定音量です。
const DefaultVolume = 0.4

// Dispatcher は、メッセージ ID ごとに最大1回だけ Player を鳴らします。
// 再生の失敗（自動再生の制限など）はログに残すだけで、呼び出し側には返さず、
// 再試行もしません。
type Dispatcher struct {
	mu      sync.Mutex
	played  *PlayedSet
	player  Player
	volume  float64
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Dispatcher)

func WithVolume(v float64) Option {
	return func(d *Dispatcher) { d.volume = v }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher は Dispatcher を生成します。player が nil なら Nop を使います。
func NewDispatcher(player Player, opts ...Option) *Dispatcher {
	if player == nil {
		player = Nop
	}
	d := &Dispatcher{
		played: NewPlayedSet(),
		player: player,
		volume: DefaultVolume,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Play は id のキューを鳴らします。既に鳴らした id なら何もしません。
// 再生より先に集合へ追加するので、同時に2回呼ばれても鳴るのは1回です。
func (d *Dispatcher) Play(id string) {
	d.mu.Lock()
	fresh := d.played.MarkPlayed(id)
	d.mu.Unlock()

	if !fresh {
		d.metrics.Cue("duplicate")
		return
	}

	if err := d.player.Play(d.volume); err != nil {
		d.logger.Info("audio play failed", "messageId", id, "error", err)
		d.metrics.Cue("failed")
		return
	}
	d.metrics.Cue("played")
}

// Played は、id のキューが既に鳴らされたかどうかを返します。
func (d *Dispatcher) Played(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.played.Played(id)
}
