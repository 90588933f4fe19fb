package bus

import (
	"errors"
	"sync"
)

// ErrClosed は、閉じたバスに配信しようとしたときのエラーです。
var ErrClosed = errors.New("bus is closed")

// subscriberBuffer は購読者ごとのチャネルバッファです。
const subscriberBuffer = 64

// MemoryBus は Bus インターフェースのインメモリ実装です。
// 内部で購読者のチャネルリストを保持し、ブロードキャストされたイベントを
// すべての購読者に配送します。
type MemoryBus struct {
	// 購読しているすべてのチャネルのスライス
	subscribers []chan Event
	// 取りこぼしを許さない購読者
	blocking []chan Event

	// subscribers スライスを保護するための読み書きミューテックス
	mu sync.RWMutex

	isClosed bool
}

// NewMemoryBus は新しい MemoryBus を生成します。
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		subscribers: make([]chan Event, 0),
	}
}

// Broadcast はイベントをすべての購読者にブロードキャストします。
// Subscribe の購読者に対してはノンブロッキングで、チャネルバッファが一杯なら
// その購読者へのイベントはドロップされます。SubscribeBlocking の購読者には
// 受信されるまで待ちます。
func (b *MemoryBus) Broadcast(e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.isClosed {
		return ErrClosed
	}

	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
			// 受信が追いついていない購読者の分は捨てる
		}
	}
	for _, ch := range b.blocking {
		ch <- e
	}

	return nil
}

// Subscribe は新しい購読者を追加し、イベントを受信するためのチャネルを返します。
func (b *MemoryBus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)

	if b.isClosed {
		// バスが既に閉じられている場合は、閉じたチャネルを返す
		close(ch)
		return ch
	}

	b.subscribers = append(b.subscribers, ch)
	return ch
}

// SubscribeBlocking は、イベントを1件も落とさない購読者を追加します。
// 最後まで読み続けるレンダラー向けです。
func (b *MemoryBus) SubscribeBlocking() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.isClosed {
		close(ch)
		return ch
	}
	b.blocking = append(b.blocking, ch)
	return ch
}

// Close はバスを閉じ、すべての購読者チャネルをクローズします。
func (b *MemoryBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isClosed {
		b.isClosed = true
		for _, ch := range b.subscribers {
			close(ch)
		}
		for _, ch := range b.blocking {
			close(ch)
		}
		b.subscribers = nil
		b.blocking = nil
	}
}

// コンパイル時に Bus インターフェースを実装していることを保証します。
var _ Bus = (*MemoryBus)(nil)
