// Package clock は、再生エンジンが使うタイマーの抽象です。
// 本番では time.AfterFunc を、テストでは Manual を使います。
package clock

import "time"

// Timer は、予約済みのコールバックを取り消すためのハンドルです。
type Timer interface {
	// Stop は、まだ発火していなければ予約を取り消して true を返します。
	Stop() bool
}

// Clock は、現在時刻と遅延実行を提供します。
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real は time パッケージをそのまま使う Clock です。
// コールバックは別ゴルーチンで実行されます。
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

var _ Clock = Real{}
