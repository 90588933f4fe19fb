package reveal

import (
	"github.com/sat8bit/kaiwa/bus"
	"github.com/sat8bit/kaiwa/message"
)

// Snapshot は、描画側が読む Host の状態です。
type Snapshot struct {
	Visible       []*message.Message
	Typing        bool
	Unread        int
	ScrolledUp    bool
	CompactHeader bool
	Settled       bool
	Cancelled     bool
}

// ShowUnread は、新着通知ボタンを出すかどうかです。
// 上にスクロールしてヘッダーが畳まれている間だけ出します。
func (s Snapshot) ShowUnread() bool {
	return s.ScrolledUp && s.Unread > 0 && s.CompactHeader
}

func (h *Host) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	return Snapshot{
		Visible:       h.store.Visible(),
		Typing:        h.typing.Active() && !h.bypass,
		Unread:        h.unread.Count(),
		ScrolledUp:    h.follower.IsScrolledUp(),
		CompactHeader: h.compact,
		Settled:       h.settled(),
		Cancelled:     h.cancelled,
	}
}

func (h *Host) settled() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Scrolled はユーザーのスクロール操作を知らせます。
func (h *Host) Scrolled() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled {
		return
	}
	h.follower.Scrolled()
	h.updateCompact()
}

// JumpToBottom は「一番下へ」操作です。新着カウンタを0に戻します。
func (h *Host) JumpToBottom() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled {
		return
	}
	h.scrollToBottom()
	h.resetUnread()
}

// AnchorVisible は、ヘッダーのアンカーが見えているかどうかの通知です。
// 見えたことはすぐに、見えなくなったことは AnchorHide 後に反映します。
// 新しい通知が来たら、反映待ちの古い通知は捨てます。
func (h *Host) AnchorVisible(visible bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled {
		return
	}
	h.stop(h.anchorTimer)
	h.anchorTimer = 0
	if visible {
		h.anchorVisible = true
		h.updateCompact()
		return
	}
	h.anchorTimer = h.after(h.timing.AnchorHide, func() {
		h.anchorTimer = 0
		h.anchorVisible = false
		h.updateCompact()
	})
}

// CompactHeader は、畳んだヘッダーを出すかどうかです。
func (h *Host) CompactHeader() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.compact
}

func (h *Host) updateCompact() {
	compact := h.follower.HeaderScrolled() && !h.anchorVisible
	if compact == h.compact {
		return
	}
	h.compact = compact
	h.publish(bus.Event{Kind: bus.KindHeader, Compact: compact})
}
