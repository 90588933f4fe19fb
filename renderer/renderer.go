// Package renderer は、再生中や再生後の会話を端末やファイルに書き出します。
package renderer

import (
	"sync"

	"github.com/sat8bit/kaiwa/bus"
)

// Renderer は、バスを購読して会話を書き出すコンポーネントが満たすべきインターフェースです。
type Renderer interface {
	// Render は購読を始めます。バスが閉じられると書き出しを終えて wg を Done にします。
	Render(b bus.Bus, wg *sync.WaitGroup) error
}
