// Package buslog は、警告以上のログを bus.Bus にも流す slog.Handler です。
// TUI はこれを購読して、ログファイルを見なくても失敗に気づけるようにします。
package buslog

import (
	"context"
	"log/slog"

	"github.com/sat8bit/kaiwa/bus"
)

// BusHandler は、ログを next に渡しつつ、level 以上のものを bus にも配信します。
type BusHandler struct {
	bus   bus.Bus
	next  slog.Handler
	level slog.Level
}

// NewBusHandler は BusHandler を生成します。next が nil なら bus にだけ流します。
func NewBusHandler(b bus.Bus, next slog.Handler, level slog.Level) *BusHandler {
	return &BusHandler{
		bus:   b,
		next:  next,
		level: level,
	}
}

// Enabled は、bus か next のどちらかが扱うレベルなら true です。
func (h *BusHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= h.level {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

// Handle はレコードを bus に配信してから next に渡します。
func (h *BusHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level {
		// bus が閉じていてもログ自体は続ける
		_ = h.bus.Broadcast(bus.Event{
			Kind: bus.KindLog,
			Text: r.Message,
			At:   r.Time,
		})
	}
	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *BusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BusHandler{bus: h.bus, next: withAttrs(h.next, attrs), level: h.level}
}

func (h *BusHandler) WithGroup(name string) slog.Handler {
	return &BusHandler{bus: h.bus, next: withGroup(h.next, name), level: h.level}
}

func withAttrs(next slog.Handler, attrs []slog.Attr) slog.Handler {
	if next == nil {
		return nil
	}
	return next.WithAttrs(attrs)
}

func withGroup(next slog.Handler, name string) slog.Handler {
	if next == nil {
		return nil
	}
	return next.WithGroup(name)
}

var _ slog.Handler = (*BusHandler)(nil)
