package bus

import (
	"time"

	"github.com/sat8bit/kaiwa/message"
)

// Kind は、Host が配信するイベントの種類です。
type Kind string

const (
	KindRevealed  Kind = "revealed"  // 表示列にメッセージが増えた
	KindTyping    Kind = "typing"    // 入力中表示が切り替わった
	KindCue       Kind = "cue"       // 効果音のキューを出した
	KindUnread    Kind = "unread"    // 新着カウンタが変わった
	KindScroll    Kind = "scroll"    // 自動スクロールした
	KindHeader    Kind = "header"    // コンパクトヘッダーの表示が変わった
	KindSettled   Kind = "settled"   // 台本をすべて開示し終えた
	KindCancelled Kind = "cancelled" // Host が破棄された
	KindLog       Kind = "log"       // 利用者に見せたい警告ログ
)

// Event は、再生状態の変化の通知です。
// 受信側は通知を合図に Host のスナップショットを読み直せばよく、
// 取りこぼしても状態がずれることはありません。
type Event struct {
	Kind    Kind
	Message *message.Message
	Typing  bool
	Unread  int
	Compact bool
	Text    string
	At      time.Time
}

// Busはイベントの送受信責務を持つ
type Bus interface {
	Broadcast(e Event) error
	Subscribe() <-chan Event
	// SubscribeBlocking は取りこぼしの無い購読です。受信側が読むまで Broadcast を待たせるので、
	// 受信側から配信元（Host など）を呼び返してはいけません。
	SubscribeBlocking() <-chan Event
	Close()
}
