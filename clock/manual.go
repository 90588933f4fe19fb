package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual は、Advance で明示的に進める Clock です。
// 期限の来たコールバックは Advance を呼んだゴルーチンで、期限の早い順に
// 同期実行されます。実行中は Now がそのコールバックの期限を返すため、
// コールバックの中で予約したタイマーも正しい時刻から数えられます。
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	c    *Manual
	at   time.Time
	seq  uint64
	f    func()
	done bool
}

// NewManual は、start を現在時刻とする Manual を生成します。
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Manual) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &manualTimer{c: c, at: c.now.Add(d), seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.c.remove(t)
	return true
}

// Advance は時刻を d だけ進め、その間に期限の来たタイマーをすべて発火させます。
func (c *Manual) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.next(end)
		if t == nil {
			c.now = end
			c.mu.Unlock()
			return
		}
		t.done = true
		c.remove(t)
		c.now = t.at
		c.mu.Unlock()

		t.f()
	}
}

// Pending は、まだ発火も取り消しもされていないタイマーの数です。
func (c *Manual) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// next は end までに期限が来るタイマーのうち最も早いものを返します。
// 同時刻なら予約順です。c.mu を保持して呼びます。
func (c *Manual) next(end time.Time) *manualTimer {
	if len(c.pending) == 0 {
		return nil
	}
	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].at.Equal(c.pending[j].at) {
			return c.pending[i].seq < c.pending[j].seq
		}
		return c.pending[i].at.Before(c.pending[j].at)
	})
	if c.pending[0].at.After(end) {
		return nil
	}
	return c.pending[0]
}

func (c *Manual) remove(t *manualTimer) {
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

var _ Clock = (*Manual)(nil)
