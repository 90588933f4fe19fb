// Package scroll は、トランスクリプトのスクロール位置を追従させるコントローラです。
package scroll

// Viewport は、スクロールできる表示領域です。単位（ピクセル、行）は実装に任せます。
type Viewport interface {
	// Offset は現在のスクロール位置です。
	Offset() int
	// MaxOffset は一番下までスクロールしたときの位置です。
	MaxOffset() int
	// ScrollTo は offset までスクロールします。smooth ならアニメーションさせます。
	// アニメーションの完了を待つ必要はありません。
	ScrollTo(offset int, smooth bool)
}

const (
	DefaultBottomThreshold = 100
	DefaultHeaderThreshold = 50
)

// Follower は、ユーザーが一番下から離れているかどうかを判定し、
// 新しい内容が来たときに自動で追従するかどうかを決めます。
type Follower struct {
	vp              Viewport
	bottomThreshold int
	headerThreshold int

	scrolledUp     bool
	headerScrolled bool
}

type Option func(*Follower)

// WithBottomThreshold は「一番下にいる」とみなす距離を設定します。
func WithBottomThreshold(n int) Option {
	return func(f *Follower) { f.bottomThreshold = n }
}

// WithHeaderThreshold は、ヘッダーを通り過ぎたとみなすスクロール量を設定します。
func WithHeaderThreshold(n int) Option {
	return func(f *Follower) { f.headerThreshold = n }
}

// NewFollower は Follower を生成します。
func NewFollower(vp Viewport, opts ...Option) *Follower {
	f := &Follower{
		vp:              vp,
		bottomThreshold: DefaultBottomThreshold,
		headerThreshold: DefaultHeaderThreshold,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Scrolled は、ユーザーのスクロール操作の後に呼び、位置を判定し直します。
func (f *Follower) Scrolled() {
	offset := f.vp.Offset()
	f.scrolledUp = f.vp.MaxOffset()-offset > f.bottomThreshold
	f.headerScrolled = offset > f.headerThreshold
}

// IsScrolledUp は、ユーザーが一番下から離れているかどうかを返します。
func (f *Follower) IsScrolledUp() bool {
	return f.scrolledUp
}

// HeaderScrolled は、プロフィールのヘッダーが画面外に出たかどうかを返します。
func (f *Follower) HeaderScrolled() bool {
	return f.headerScrolled
}

// ScrollToBottom は一番下まで滑らかにスクロールします。
func (f *Follower) ScrollToBottom() {
	bottom := f.vp.MaxOffset()
	f.vp.ScrollTo(bottom, true)
	f.scrolledUp = false
	f.headerScrolled = bottom > f.headerThreshold
}

// AutoScrollOnNewContent は、表示列が伸びたときや入力中表示が切り替わったときに
// 呼びます。直前の判定で一番下にいたなら新しい一番下へ追従して true を返します。
// ユーザーが自分で上にスクロールしていたら位置を奪いません。
func (f *Follower) AutoScrollOnNewContent() bool {
	if f.scrolledUp {
		return false
	}
	f.ScrollToBottom()
	return true
}
