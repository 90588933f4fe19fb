package turn

import (
	"context"
	"fmt"
)

// MutexManager は turn.Manager の実装です。
// 内部でチャネルを使い、ミューテックスとして機能することで排他制御を実現します。
type MutexManager struct {
	// バッファサイズ1のチャネルをセマフォとして利用します。
	// 書き込めれば発話権の取得、読み出せれば解放です。
	turnCh chan struct{}
}

// NewMutexManager は新しい MutexManager を生成します。
func NewMutexManager() *MutexManager {
	return &MutexManager{
		turnCh: make(chan struct{}, 1),
	}
}

// Acquire は発話権を取得します。
// 既に他の誰かが持っている場合、解放されるか ctx が終わるまでブロックします。
func (m *MutexManager) Acquire(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("failed to acquire turn: %w", ctx.Err())
	case m.turnCh <- struct{}{}:
		return nil
	}
}

// TryAcquire は、返信待ちの間に来た送信を弾くために使います。
func (m *MutexManager) TryAcquire() bool {
	select {
	case m.turnCh <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release は保持している発話権を解放します。
func (m *MutexManager) Release() {
	select {
	case <-m.turnCh:
	default:
		// 取得していないのに Release された場合は何もしない
	}
}

// Held は、いま誰かが発話権を持っているかどうかを返します。
func (m *MutexManager) Held() bool {
	return len(m.turnCh) == 1
}

// コンパイル時に Manager インターフェースを実装していることを保証します。
var _ Manager = (*MutexManager)(nil)
