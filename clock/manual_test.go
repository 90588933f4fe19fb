package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_FiresInDeadlineOrder(t *testing.T) {
	c := NewManual(epoch)
	var got []string

	c.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	c.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	c.AfterFunc(200*time.Millisecond, func() { got = append(got, "b") })

	c.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, c.Pending())

	c.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, epoch.Add(300*time.Millisecond), c.Now())
}

func TestManual_ChainedTimersCountFromFireTime(t *testing.T) {
	c := NewManual(epoch)
	var firedAt []time.Duration

	c.AfterFunc(100*time.Millisecond, func() {
		firedAt = append(firedAt, c.Now().Sub(epoch))
		c.AfterFunc(50*time.Millisecond, func() {
			firedAt = append(firedAt, c.Now().Sub(epoch))
		})
	})

	c.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 150 * time.Millisecond}, firedAt)
}

func TestManual_Stop(t *testing.T) {
	c := NewManual(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(2 * time.Second)
	assert.False(t, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestManual_SameDeadlineKeepsScheduleOrder(t *testing.T) {
	c := NewManual(epoch)
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		c.AfterFunc(10*time.Millisecond, func() { got = append(got, i) })
	}
	c.Advance(10 * time.Millisecond)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}
