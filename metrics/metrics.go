// Package metrics は、再生エンジンの Prometheus メトリクスです。
// nil の *Metrics に対する呼び出しはすべて何もしません。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kaiwa"

// 表示列に入ったメッセージの出所
const (
	SourceScripted = "scripted"
	SourceUser     = "user"
	SourceReply    = "reply"
)

type Metrics struct {
	registry *prometheus.Registry

	reveals       *prometheus.CounterVec
	cues          *prometheus.CounterVec
	replyFailures *prometheus.CounterVec
	typing        prometheus.Gauge
	timers        prometheus.Gauge
}

// New は専用のレジストリにコレクタを登録して返します。
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reveals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_revealed_total",
			Help:      "Messages appended to the visible transcript, by source.",
		}, []string{"source"}),
		cues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_cues_total",
			Help:      "Audio cue dispatches, by result.",
		}, []string{"result"}),
		replyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reply_failures_total",
			Help:      "Reply service failures replaced by a fallback reply, by reason.",
		}, []string{"reason"}),
		typing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "typing_sources",
			Help:      "Pending sources currently asserting the typing indicator.",
		}),
		timers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_timers",
			Help:      "Timers scheduled by the orchestration host and not yet fired or cancelled.",
		}),
	}
	m.registry.MustRegister(m.reveals, m.cues, m.replyFailures, m.typing, m.timers)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler は /metrics 用のハンドラです。
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Revealed(source string) {
	if m == nil {
		return
	}
	m.reveals.WithLabelValues(source).Inc()
}

// Cue は音声キューの結果を数えます。result は played、failed、duplicate のいずれかです。
func (m *Metrics) Cue(result string) {
	if m == nil {
		return
	}
	m.cues.WithLabelValues(result).Inc()
}

func (m *Metrics) ReplyFailed(reason string) {
	if m == nil {
		return
	}
	m.replyFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) TypingSources(n int) {
	if m == nil {
		return
	}
	m.typing.Set(float64(n))
}

func (m *Metrics) PendingTimers(n int) {
	if m == nil {
		return
	}
	m.timers.Set(float64(n))
}
