package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Player は、短い効果音を1回鳴らします。
type Player interface {
	Play(volume float64) error
}

// ErrMuted は、音量0で鳴らそうとしたときのエラーです。
var ErrMuted = errors.New("audio muted")

// BellPlayer は、端末のベル（BEL）で効果音の代わりにする Player です。
// ベルには音量が無いので、volume は0かどうかだけを見ます。
type BellPlayer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBellPlayer(w io.Writer) *BellPlayer {
	return &BellPlayer{w: w}
}

func (p *BellPlayer) Play(volume float64) error {
	if volume <= 0 {
		return ErrMuted
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := io.WriteString(p.w, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

// PlayerFunc は関数を Player として使うためのアダプタです。
type PlayerFunc func(volume float64) error

func (f PlayerFunc) Play(volume float64) error { return f(volume) }

// Nop は何も鳴らさない Player です。
var Nop Player = PlayerFunc(func(float64) error { return nil })

var _ Player = (*BellPlayer)(nil)
