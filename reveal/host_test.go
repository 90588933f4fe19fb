package reveal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat8bit/kaiwa/audio"
	"github.com/sat8bit/kaiwa/bus"
	"github.com/sat8bit/kaiwa/clock"
	"github.com/sat8bit/kaiwa/message"
	"github.com/sat8bit/kaiwa/transcript"
)

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func text(id string, length int) *message.Message {
	return &message.Message{
		ID:      id,
		Sender:  message.SenderAssistant,
		Kind:    message.KindText,
		Content: strings.Repeat("a", length),
	}
}

func newStore(t *testing.T, items ...*message.Message) *transcript.Store {
	t.Helper()
	s := transcript.New()
	require.NoError(t, s.AppendAuthored(items))
	return s
}

func visibleIDs(h *Host) []string {
	var out []string
	for _, m := range h.Snapshot().Visible {
		out = append(out, m.ID)
	}
	return out
}

type cueRecorder struct {
	ids []string
}

func (c *cueRecorder) Play(id string) { c.ids = append(c.ids, id) }

type fakeFollower struct {
	scrolledUp     bool
	headerScrolled bool
	autoScrolls    int
	toBottom       int
}

func (f *fakeFollower) Scrolled()            {}
func (f *fakeFollower) IsScrolledUp() bool   { return f.scrolledUp }
func (f *fakeFollower) HeaderScrolled() bool { return f.headerScrolled }

func (f *fakeFollower) ScrollToBottom() {
	f.toBottom++
	f.scrolledUp = false
}

func (f *fakeFollower) AutoScrollOnNewContent() bool {
	if f.scrolledUp {
		return false
	}
	f.autoScrolls++
	return true
}

func TestTiming_TypingDelay(t *testing.T) {
	timing := NarrativeTiming()

	tests := []struct {
		name string
		msg  *message.Message
		want time.Duration
	}{
		{"empty content", text("a", 0), 200 * time.Millisecond},
		{"below min", text("b", 5), 200 * time.Millisecond},
		{"in range", text("c", 50), 1000 * time.Millisecond},
		{"capped", text("d", 1000), 1500 * time.Millisecond},
		{"malformed", &message.Message{ID: "e", Kind: message.KindPhotos, Content: strings.Repeat("a", 60)}, 200 * time.Millisecond},
		{"nil", nil, 200 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timing.TypingDelay(tt.msg))
		})
	}
}

func TestTiming_CountsRunes(t *testing.T) {
	m := &message.Message{ID: "jp", Kind: message.KindText, Content: strings.Repeat("あ", 20)}
	assert.Equal(t, 400*time.Millisecond, NarrativeTiming().TypingDelay(m))
}

func TestHost_PacedDisclosure(t *testing.T) {
	clk := clock.NewManual(epoch)
	h := New(newStore(t, text("1", 5), text("2", 50), text("3", 200)), WithClock(clk))

	h.Start()
	assert.True(t, h.Snapshot().Typing)
	assert.Empty(t, visibleIDs(h))

	clk.Advance(200 * time.Millisecond)
	assert.False(t, h.Snapshot().Typing)
	assert.Empty(t, visibleIDs(h))

	clk.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"1"}, visibleIDs(h))
	assert.True(t, h.Snapshot().Typing)

	clk.Advance(999 * time.Millisecond)
	assert.Equal(t, []string{"1"}, visibleIDs(h))

	clk.Advance(1 * time.Millisecond)
	assert.False(t, h.Snapshot().Typing)

	clk.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"1", "2"}, visibleIDs(h))
	assert.False(t, h.Snapshot().Settled)

	clk.Advance(1550 * time.Millisecond)
	assert.Equal(t, []string{"1", "2", "3"}, visibleIDs(h))

	snap := h.Snapshot()
	assert.True(t, snap.Settled)
	assert.False(t, snap.Typing)
	assert.Equal(t, 0, h.PendingTimers())
	select {
	case <-h.Done():
	default:
		t.Fatal("Done should be closed after the last item")
	}
}

func TestHost_OneDisclosureAtATime(t *testing.T) {
	clk := clock.NewManual(epoch)
	h := New(newStore(t, text("1", 5), text("2", 5)), WithClock(clk))

	h.Start()
	h.Start()
	assert.Equal(t, 1, h.PendingTimers())

	clk.Advance(200 * time.Millisecond)
	assert.Equal(t, 1, h.PendingTimers(), "settle timer only")
}

func TestHost_Bypass(t *testing.T) {
	clk := clock.NewManual(epoch)
	cues := &cueRecorder{}
	h := New(newStore(t, text("1", 5), text("2", 50), text("3", 200)),
		WithClock(clk), WithBypass(true), WithAudio(cues))

	h.Start()

	snap := h.Snapshot()
	assert.Equal(t, []string{"1", "2", "3"}, visibleIDs(h))
	assert.False(t, snap.Typing)
	assert.True(t, snap.Settled)
	assert.Equal(t, 0, h.PendingTimers())
	assert.Equal(t, 0, clk.Pending())
	assert.Empty(t, cues.ids)
}

func TestHost_EmptyScriptSettlesImmediately(t *testing.T) {
	h := New(transcript.New(), WithClock(clock.NewManual(epoch)))
	h.Start()
	assert.True(t, h.Snapshot().Settled)
}

func TestHost_CancelStopsEverything(t *testing.T) {
	clk := clock.NewManual(epoch)
	store := newStore(t, text("1", 5), text("2", 5))
	h := New(store, WithClock(clk))

	h.Start()
	clk.Advance(100 * time.Millisecond)
	require.NoError(t, h.ReceiveReply("late"))

	h.Cancel()
	h.Cancel()

	clk.Advance(10 * time.Second)
	snap := h.Snapshot()
	assert.Empty(t, snap.Visible)
	assert.False(t, snap.Typing)
	assert.True(t, snap.Cancelled)
	assert.Equal(t, 0, store.Cursor())
	assert.Equal(t, 0, clk.Pending())

	_, err := h.Send("hello?")
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, h.ReceiveReply("again"), ErrCancelled)
	assert.Equal(t, 0, store.VisibleLen())
}

func TestHost_CancelInsideSettleWindow(t *testing.T) {
	clk := clock.NewManual(epoch)
	h := New(newStore(t, text("1", 5)), WithClock(clk))

	h.Start()
	clk.Advance(200 * time.Millisecond)
	h.Cancel()
	clk.Advance(time.Second)

	assert.Empty(t, visibleIDs(h))
}

func TestHost_SendAndReply(t *testing.T) {
	clk := clock.NewManual(epoch)
	cues := &cueRecorder{}
	h := New(transcript.New(), WithClock(clk), WithAudio(cues))
	h.Start()

	sent, err := h.Send("hi")
	require.NoError(t, err)
	assert.Equal(t, message.SenderUser, sent.Sender)
	assert.Equal(t, epoch, sent.CreatedAt)
	assert.Equal(t, []string{sent.ID}, visibleIDs(h))

	require.NoError(t, h.ReceiveReply("sup"))
	assert.True(t, h.Snapshot().Typing)

	clk.Advance(800 * time.Millisecond)
	snap := h.Snapshot()
	assert.False(t, snap.Typing)
	assert.Len(t, snap.Visible, 1)

	clk.Advance(50 * time.Millisecond)
	snap = h.Snapshot()
	require.Len(t, snap.Visible, 2)
	reply := snap.Visible[1]
	assert.Equal(t, "sup", reply.Content)
	assert.Equal(t, message.SenderAssistant, reply.Sender)
	assert.Empty(t, cues.ids)

	clk.Advance(450 * time.Millisecond)
	assert.Equal(t, []string{reply.ID}, cues.ids)
}

func TestHost_ReplyJoinsFullSequenceOnArrival(t *testing.T) {
	clk := clock.NewManual(epoch)
	store := transcript.New()
	h := New(store, WithClock(clk))
	h.Start()

	require.NoError(t, h.ReceiveReply("sup"))
	require.Equal(t, 1, store.Len())
	assert.Equal(t, "sup", store.Full()[0].Content)
	assert.Equal(t, epoch, store.Full()[0].CreatedAt)
	assert.Equal(t, 0, store.VisibleLen())

	clk.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, store.VisibleLen(), "still thinking")

	clk.Advance(750 * time.Millisecond)
	assert.Equal(t, []string{store.Full()[0].ID}, visibleIDs(h))
}

func TestHost_CancelWhileThinkingKeepsReplyInFullSequence(t *testing.T) {
	clk := clock.NewManual(epoch)
	store := transcript.New()
	h := New(store, WithClock(clk))
	h.Start()

	require.NoError(t, h.ReceiveReply("sup"))
	clk.Advance(400 * time.Millisecond)
	h.Cancel()
	clk.Advance(time.Second)

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, store.VisibleLen())
}

func TestHost_FollowsWhenTypingEnds(t *testing.T) {
	clk := clock.NewManual(epoch)
	follower := &fakeFollower{}
	h := New(transcript.New(), WithClock(clk), WithScroll(follower))
	h.Start()

	require.NoError(t, h.ReceiveReply("sup"))
	assert.Equal(t, 1, follower.autoScrolls)

	clk.Advance(800 * time.Millisecond)
	assert.False(t, h.Snapshot().Typing)
	assert.Equal(t, 2, follower.autoScrolls)

	follower.scrolledUp = true
	require.NoError(t, h.ReceiveReply("again"))
	clk.Advance(800 * time.Millisecond)
	assert.Equal(t, 2, follower.autoScrolls, "scrolled up: position is kept")
}

func TestHost_TypingIsOrAcrossSources(t *testing.T) {
	clk := clock.NewManual(epoch)
	h := New(newStore(t, text("1", 50)), WithClock(clk))

	h.Start()
	require.NoError(t, h.ReceiveReply("pong"))

	clk.Advance(800 * time.Millisecond)
	assert.True(t, h.Snapshot().Typing, "scripted item is still pending")

	clk.Advance(200 * time.Millisecond)
	assert.False(t, h.Snapshot().Typing)

	clk.Advance(50 * time.Millisecond)
	assert.Len(t, h.Snapshot().Visible, 2)
}

func TestHost_ScriptedAndRuntimeInterleave(t *testing.T) {
	clk := clock.NewManual(epoch)
	h := New(newStore(t, text("1", 5), text("2", 5)), WithClock(clk))
	h.Start()

	clk.Advance(250 * time.Millisecond)
	sent, err := h.Send("me")
	require.NoError(t, err)

	clk.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"1", sent.ID, "2"}, visibleIDs(h))
	assert.True(t, h.Snapshot().Settled)
}

func TestHost_UnreadWhileScrolledUp(t *testing.T) {
	clk := clock.NewManual(epoch)
	follower := &fakeFollower{scrolledUp: true, headerScrolled: true}
	h := New(newStore(t, text("1", 5), text("2", 5)), WithClock(clk), WithScroll(follower))

	h.Start()
	clk.Advance(500 * time.Millisecond)

	snap := h.Snapshot()
	assert.Len(t, snap.Visible, 2)
	assert.Equal(t, 2, snap.Unread)
	assert.Equal(t, 0, follower.autoScrolls)
	assert.Equal(t, 0, follower.toBottom)

	h.JumpToBottom()
	assert.Equal(t, 0, h.Snapshot().Unread)
	assert.Equal(t, 1, follower.toBottom)
}

func TestHost_FollowsAtBottom(t *testing.T) {
	clk := clock.NewManual(epoch)
	follower := &fakeFollower{}
	h := New(newStore(t, text("1", 5)), WithClock(clk), WithScroll(follower))

	h.Start()
	assert.Equal(t, 1, follower.autoScrolls, "typing indicator appeared")

	clk.Advance(200 * time.Millisecond)
	assert.Equal(t, 2, follower.autoScrolls, "typing indicator went away")

	clk.Advance(50 * time.Millisecond)
	assert.Equal(t, 3, follower.autoScrolls)
	assert.Equal(t, 0, h.Snapshot().Unread)
}

func TestHost_SendResetsUnreadAndScrolls(t *testing.T) {
	clk := clock.NewManual(epoch)
	follower := &fakeFollower{scrolledUp: true}
	h := New(newStore(t, text("1", 5)), WithClock(clk), WithScroll(follower))
	h.Start()
	clk.Advance(250 * time.Millisecond)
	require.Equal(t, 1, h.Snapshot().Unread)

	_, err := h.Send("hey")
	require.NoError(t, err)
	assert.Equal(t, 0, h.Snapshot().Unread)
	assert.Equal(t, 0, follower.toBottom)

	clk.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, follower.toBottom)
}

func TestHost_MalformedItemIsPacedAtMin(t *testing.T) {
	clk := clock.NewManual(epoch)
	broken := &message.Message{ID: "p", Sender: message.SenderAssistant, Kind: message.KindPhotos, Content: strings.Repeat("x", 500)}
	h := New(newStore(t, broken, text("2", 5)), WithClock(clk))

	h.Start()
	clk.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"p"}, visibleIDs(h))

	clk.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"p", "2"}, visibleIDs(h))
}

func TestHost_AudioTimingShowsFirstImmediately(t *testing.T) {
	clk := clock.NewManual(epoch)
	cues := &cueRecorder{}
	h := New(newStore(t, text("1", 5), text("2", 5)),
		WithClock(clk), WithTiming(AudioTiming()), WithAudio(cues))

	h.Start()
	assert.Equal(t, []string{"1"}, visibleIDs(h))

	clk.Advance(450 * time.Millisecond)
	assert.Equal(t, []string{"1"}, cues.ids)

	clk.Advance(600 * time.Millisecond)
	assert.Equal(t, []string{"1", "2"}, visibleIDs(h))

	clk.Advance(450 * time.Millisecond)
	assert.Equal(t, []string{"1", "2"}, cues.ids)
}

func TestHost_CuesPlayOncePerID(t *testing.T) {
	clk := clock.NewManual(epoch)
	var played int
	d := audio.NewDispatcher(audio.PlayerFunc(func(float64) error {
		played++
		return nil
	}))
	h := New(newStore(t, text("1", 5)), WithClock(clk), WithAudio(d))

	h.Start()
	clk.Advance(time.Second)
	h.cue("1")

	assert.Equal(t, 1, played)
	assert.True(t, d.Played("1"))
}

func TestHost_AnchorVisibility(t *testing.T) {
	clk := clock.NewManual(epoch)
	follower := &fakeFollower{headerScrolled: true}
	h := New(transcript.New(), WithClock(clk), WithScroll(follower))

	h.Scrolled()
	assert.False(t, h.CompactHeader(), "anchor starts visible")

	h.AnchorVisible(false)
	assert.False(t, h.CompactHeader())
	clk.Advance(100 * time.Millisecond)
	assert.True(t, h.CompactHeader())

	h.AnchorVisible(false)
	h.AnchorVisible(true)
	assert.False(t, h.CompactHeader())
	clk.Advance(time.Second)
	assert.False(t, h.CompactHeader(), "stale hide must not apply")
}

func TestHost_ShowUnread(t *testing.T) {
	snap := Snapshot{ScrolledUp: true, Unread: 2, CompactHeader: true}
	assert.True(t, snap.ShowUnread())
	snap.CompactHeader = false
	assert.False(t, snap.ShowUnread())
}

func TestHost_PublishesEvents(t *testing.T) {
	clk := clock.NewManual(epoch)
	b := bus.NewMemoryBus()
	defer b.Close()
	events := b.Subscribe()

	h := New(newStore(t, text("1", 5)), WithClock(clk), WithBus(b))
	h.Start()
	clk.Advance(250 * time.Millisecond)

	var kinds []bus.Kind
	for len(events) > 0 {
		kinds = append(kinds, (<-events).Kind)
	}
	assert.Equal(t, []bus.Kind{
		bus.KindTyping, bus.KindScroll,
		bus.KindTyping, bus.KindScroll,
		bus.KindRevealed, bus.KindScroll,
		bus.KindSettled,
	}, kinds)
}

func TestHost_StrictPanicsOnViolation(t *testing.T) {
	h := New(transcript.New(), WithStrict(true))
	assert.Panics(t, func() { h.violation("test", transcript.ErrExhausted) })

	lenient := New(transcript.New())
	err := lenient.violation("test", transcript.ErrExhausted)
	assert.ErrorIs(t, err, transcript.ErrExhausted)
}
