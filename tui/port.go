package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sat8bit/kaiwa/scroll"
)

// Port は、bubbletea の viewport と再生エンジンの間のスクロール位置の受け渡しです。
// viewport は Update のゴルーチンだけが触り、Host はタイマーのゴルーチンから Port を触ります。
// Host からのスクロール要求は記録だけして、次の Update で viewport に反映します。
type Port struct {
	mu      sync.Mutex
	offset  int
	max     int
	pending bool
	target  int
	bottom  bool
}

func NewPort() *Port {
	return &Port{}
}

func (p *Port) Offset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset
}

func (p *Port) MaxOffset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.max
}

// ScrollTo はスクロール要求を記録します。max 以上なら「一番下へ」として扱い、
// 反映時点の一番下に合わせます。
func (p *Port) ScrollTo(offset int, smooth bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = true
	p.target = offset
	p.bottom = offset >= p.max
	p.offset = min(offset, p.max)
}

// sync は viewport の現在位置を Port に写します。Update の最後に呼びます。
func (p *Port) sync(vp viewport.Model) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset = vp.YOffset
	p.max = max(0, vp.TotalLineCount()-vp.Height)
}

// apply は、記録されたスクロール要求を viewport に反映します。
func (p *Port) apply(vp *viewport.Model) bool {
	p.mu.Lock()
	pending, target, bottom := p.pending, p.target, p.bottom
	p.pending = false
	p.mu.Unlock()

	if !pending {
		return false
	}
	if bottom {
		vp.GotoBottom()
	} else {
		vp.SetYOffset(target)
	}
	return true
}

var _ scroll.Viewport = (*Port)(nil)
