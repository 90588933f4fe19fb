package renderer

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat8bit/kaiwa/blog"
	"github.com/sat8bit/kaiwa/bus"
	"github.com/sat8bit/kaiwa/message"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		msg  *message.Message
		want string
	}{
		{
			name: "text",
			msg:  &message.Message{Kind: message.KindText, Content: "yo"},
			want: "yo",
		},
		{
			name: "photos",
			msg:  &message.Message{Kind: message.KindPhotos, Photos: []message.Photo{{Src: "/me.jpg", Alt: "me", Caption: "talk"}}},
			want: "[photo] me: talk",
		},
		{
			name: "location",
			msg:  &message.Message{Kind: message.KindLocation, Location: &message.Location{City: "Howrah"}},
			want: "[location] Howrah",
		},
		{
			name: "blog",
			msg: &message.Message{Kind: message.KindBlog, Content: "read:", Blogs: []blog.Post{
				{Title: "A", Description: "first", Link: "/a"},
			}},
			want: "read:\n- A: first (/a)",
		},
		{
			name: "resume without label",
			msg:  &message.Message{Kind: message.KindResume, Resume: &message.Resume{Link: "/cv.pdf"}},
			want: "[resume] resume (/cv.pdf)",
		},
		{
			name: "malformed",
			msg:  &message.Message{Kind: message.KindPhotos},
			want: "[unsupported message]",
		},
		{
			name: "unknown kind keeps content",
			msg:  &message.Message{Kind: "hologram", Content: "hi"},
			want: "hi",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.msg))
		})
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMarkdown(&buf, Document{
		Title: "Intro",
		Name:  "Soumya",
		Date:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Tags:  []string{"Soumya"},
		Messages: []*message.Message{
			{Kind: message.KindText, Sender: message.SenderAssistant, Content: "yo"},
			{Kind: message.KindPhotos, Sender: message.SenderAssistant, Photos: []message.Photo{{Src: "/me.jpg", Alt: "me"}}},
			{Kind: message.KindText, Sender: message.SenderUser, Content: "hi"},
		},
	})
	require.NoError(t, err)

	got := buf.String()
	assert.True(t, strings.HasPrefix(got, "+++\ntitle = \"Intro\"\ndate = \"2024-06-01T12:00:00Z\"\ntags = [\"Soumya\"]\n+++\n"), got)
	assert.Contains(t, got, "**Soumya:** yo\n")
	assert.Contains(t, got, "**Soumya:** ![me](/me.jpg)\n")
	assert.Contains(t, got, "**you:** hi\n")
}

func TestConsoleRenderer(t *testing.T) {
	b := bus.NewMemoryBus()
	var out bytes.Buffer
	var wg sync.WaitGroup
	require.NoError(t, NewConsoleRenderer(&out, "Soumya").Render(b, &wg))

	require.NoError(t, b.Broadcast(bus.Event{Kind: bus.KindTyping, Typing: true}))
	require.NoError(t, b.Broadcast(bus.Event{Kind: bus.KindRevealed, Message: &message.Message{Kind: message.KindText, Content: "yo"}}))
	require.NoError(t, b.Broadcast(bus.Event{Kind: bus.KindRevealed, Message: &message.Message{Kind: message.KindText, Sender: message.SenderUser, Content: "hi"}}))
	require.NoError(t, b.Broadcast(bus.Event{Kind: bus.KindLog, Text: "reply failed"}))
	require.NoError(t, b.Broadcast(bus.Event{Kind: bus.KindSettled}))
	b.Close()
	wg.Wait()

	assert.Equal(t, "Soumya: yo\nyou: hi\n[!] reply failed\n---\n", out.String())
}

func TestConsoleRenderer_KeepsEveryMessageUnderBurst(t *testing.T) {
	b := bus.NewMemoryBus()
	var out bytes.Buffer
	var wg sync.WaitGroup
	require.NoError(t, NewConsoleRenderer(&out, "Soumya").Render(b, &wg))

	const n = 300
	for i := 0; i < n; i++ {
		m := &message.Message{Kind: message.KindText, Content: fmt.Sprintf("line-%03d", i)}
		require.NoError(t, b.Broadcast(bus.Event{Kind: bus.KindRevealed, Message: m}))
		require.NoError(t, b.Broadcast(bus.Event{Kind: bus.KindScroll}))
	}
	require.NoError(t, b.Broadcast(bus.Event{Kind: bus.KindSettled}))
	b.Close()
	wg.Wait()

	got := out.String()
	assert.Equal(t, n, strings.Count(got, "Soumya: line-"))
	assert.True(t, strings.HasSuffix(got, "Soumya: line-299\n---\n"))
}

func TestMarkdownRenderer(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewMarkdownRenderer(dir, "Intro", "Soumya", now)

	b := bus.NewMemoryBus()
	var wg sync.WaitGroup
	require.NoError(t, r.Render(b, &wg))
	require.NoError(t, b.Broadcast(bus.Event{Kind: bus.KindRevealed, Message: &message.Message{Kind: message.KindText, Content: "yo"}}))
	b.Close()
	wg.Wait()

	assert.Equal(t, "20240601-120000.md", r.Path()[len(dir)+1:])
	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "**Soumya:** yo")
}

func TestSaveMarkdown(t *testing.T) {
	dir := t.TempDir()
	doc := Document{
		Title: "Intro",
		Name:  "Soumya",
		Date:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Messages: []*message.Message{
			{Kind: message.KindText, Content: "yo"},
			{Kind: message.KindText, Sender: message.SenderUser, Content: "hi"},
		},
	}

	path, err := SaveMarkdown(dir, doc)
	require.NoError(t, err)
	assert.Equal(t, "20240601-120000.md", path[len(dir)+1:])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "**Soumya:** yo")
	assert.Contains(t, string(data), "**you:** hi")
}

func TestMarkdownRenderer_NothingRevealed(t *testing.T) {
	dir := t.TempDir()
	r := NewMarkdownRenderer(dir, "Intro", "Soumya", time.Now())

	b := bus.NewMemoryBus()
	var wg sync.WaitGroup
	require.NoError(t, r.Render(b, &wg))
	b.Close()
	wg.Wait()

	_, err := os.Stat(r.Path())
	assert.True(t, os.IsNotExist(err))
}
