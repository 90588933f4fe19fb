package reveal

import (
	"github.com/sat8bit/kaiwa/metrics"
)

// Start は台本の再生を始めます。2回目以降と Cancel 後の呼び出しは何もしません。
// バイパスモードでは、タイマーを使わずに台本をすべて表示列に入れます。
func (h *Host) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started || h.cancelled {
		return
	}
	h.started = true
	h.logger.Info("playback started",
		"items", h.store.Len(),
		"bypass", h.bypass,
		"audio", h.cuer != nil,
	)

	if h.bypass {
		h.revealAll()
		return
	}
	h.scheduleNext()
}

func (h *Host) revealAll() {
	for !h.store.Settled() {
		m, err := h.store.RevealNext()
		if err != nil {
			h.violation("reveal all", err)
			break
		}
		h.disclosed++
		h.grew(m, metrics.SourceScripted)
	}
	h.settle()
}

// scheduleNext は、次の台本メッセージの開示を予約します。
// 開示は1件ずつで、前の開示が表示列に入るまで次は予約しません。
func (h *Host) scheduleNext() {
	for {
		if h.cancelled || h.disclosing {
			return
		}
		next, ok := h.store.Peek()
		if !ok {
			h.settle()
			return
		}

		if h.disclosed == 0 && h.timing.ImmediateFirst {
			h.revealScripted()
			continue
		}

		if next.Malformed() {
			h.logger.Warn("malformed message", "id", next.ID, "type", next.Kind)
		}
		h.disclosing = true
		src := h.typing.Begin()
		h.after(h.timing.TypingDelay(next), func() {
			h.typing.End(src)
			h.after(h.timing.Settle, func() {
				h.disclosing = false
				h.revealScripted()
				h.scheduleNext()
			})
		})
		return
	}
}

// revealScripted は、カーソル位置の台本メッセージを表示列に入れ、効果音を予約します。
func (h *Host) revealScripted() {
	m, err := h.store.RevealNext()
	if err != nil {
		h.violation("reveal next", err)
		return
	}
	h.disclosed++
	h.grew(m, metrics.SourceScripted)

	if h.cuer != nil {
		id := m.ID
		h.after(h.timing.CueOffset, func() { h.cue(id) })
	}
}
