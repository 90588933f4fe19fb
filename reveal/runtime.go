package reveal

import (
	"github.com/sat8bit/kaiwa/bus"
	"github.com/sat8bit/kaiwa/message"
	"github.com/sat8bit/kaiwa/metrics"
)

// Send はユーザーの送信をすぐに表示列に入れます。
// 新着カウンタは0に戻り、SendFollow 後に一番下へスクロールします。
// 中身の検証（空文字など）は呼び出し側の責務です。
func (h *Host) Send(text string) (*message.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled {
		return nil, ErrCancelled
	}
	m := message.New(message.SenderUser, text, h.clock.Now())
	if err := h.store.AppendRuntime(m, true); err != nil {
		return nil, h.violation("send", err)
	}
	h.grew(m, metrics.SourceUser)
	h.resetUnread()
	h.after(h.timing.SendFollow, h.scrollToBottom)
	return m, nil
}

// ReceiveReply は外部からの返信を受け取ります。
// 返信は受け取った時点で全体列に入ります。入力中表示を Thinking の間だけ出し、
// 消してから Settle 後に表示列に入れ、さらに CueOffset 後に効果音を鳴らします。
func (h *Host) ReceiveReply(text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled {
		return ErrCancelled
	}
	m := message.New(message.SenderAssistant, text, h.clock.Now())
	if err := h.store.AppendRuntime(m, false); err != nil {
		return h.violation("receive reply", err)
	}
	id := m.ID
	src := h.typing.Begin()
	h.after(h.timing.Thinking, func() {
		h.typing.End(src)
		h.after(h.timing.Settle, func() {
			m, err := h.store.Admit(id)
			if err != nil {
				h.violation("admit reply", err)
				return
			}
			h.grew(m, metrics.SourceReply)
			if h.cuer != nil {
				h.after(h.timing.CueOffset, func() { h.cue(id) })
			}
		})
	})
	return nil
}

func (h *Host) scrollToBottom() {
	h.follower.ScrollToBottom()
	h.publish(bus.Event{Kind: bus.KindScroll})
	h.updateCompact()
}

func (h *Host) resetUnread() {
	if h.unread.Count() == 0 {
		return
	}
	h.unread.Reset()
	h.publish(bus.Event{Kind: bus.KindUnread, Unread: 0})
}
