package reveal

import (
	"time"

	"github.com/sat8bit/kaiwa/message"
)

// Timing は、開示と返信の間合いです。
type Timing struct {
	// 入力中表示の長さは clamp(文字数 * CharDelay, MinDelay, MaxDelay)
	CharDelay time.Duration
	MinDelay  time.Duration
	MaxDelay  time.Duration

	// Settle は、入力中表示を消してからメッセージを表示列に入れるまでの間です。
	Settle time.Duration
	// Thinking は、返信を受け取ってから入力中表示を消すまでの間です。
	Thinking time.Duration
	// CueOffset は、表示してから効果音を鳴らすまでの間です。
	CueOffset time.Duration
	// SendFollow は、ユーザーの送信後に一番下へスクロールするまでの間です。
	SendFollow time.Duration
	// AnchorHide は、ヘッダーのアンカーが見えなくなった通知を反映するまでの間です。
	AnchorHide time.Duration

	// ImmediateFirst なら、台本の最初の1件は待たずに表示します。
	ImmediateFirst bool
}

// NarrativeTiming は、文章中心の台本向けの既定値です。
func NarrativeTiming() Timing {
	return Timing{
		CharDelay:  20 * time.Millisecond,
		MinDelay:   200 * time.Millisecond,
		MaxDelay:   1500 * time.Millisecond,
		Settle:     50 * time.Millisecond,
		Thinking:   800 * time.Millisecond,
		CueOffset:  450 * time.Millisecond,
		SendFollow: 100 * time.Millisecond,
		AnchorHide: 100 * time.Millisecond,
	}
}

// AudioTiming は、効果音付きの再生向けです。最初の1件はすぐに表示します。
func AudioTiming() Timing {
	t := NarrativeTiming()
	t.CharDelay = 30 * time.Millisecond
	t.MinDelay = 1000 * time.Millisecond
	t.ImmediateFirst = true
	return t
}

// TypingDelay は、m を表示する前の入力中表示の長さです。
// 形式の壊れたメッセージは長さを見ずに MinDelay にします。
func (t Timing) TypingDelay(m *message.Message) time.Duration {
	if m == nil || m.Malformed() {
		return t.MinDelay
	}
	return Clamp(m.ContentLength(), t.CharDelay, t.MinDelay, t.MaxDelay)
}

// Clamp は clamp(length * perChar, lo, hi) です。
func Clamp(length int, perChar, lo, hi time.Duration) time.Duration {
	if length < 0 {
		length = 0
	}
	d := time.Duration(length) * perChar
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
