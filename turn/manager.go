package turn

import (
	"context"
)

// Manager は、外部への返信リクエストの発話権を管理します。
// 同時に発話権を持てるのは1つだけです。
type Manager interface {
	Acquire(ctx context.Context) error
	// TryAcquire は待たずに発話権の取得を試みます。取れなければ false です。
	TryAcquire() bool
	Release()
	Held() bool
}
