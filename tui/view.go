package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sat8bit/kaiwa/message"
	"github.com/sat8bit/kaiwa/renderer"
	"github.com/sat8bit/kaiwa/unread"
)

func (m Model) View() string {
	if !m.ready {
		return "\n  loading…"
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.typingLine())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

// header は、ヘッダーを通り過ぎてアンカーも見えなくなったら1行に畳みます。
// 高さは畳んでも変えず、viewport の行数を保ちます。
func (m Model) header() string {
	if m.snap.CompactHeader {
		return compactStyle.Render(m.profile.Name) + "\n"
	}
	return headerStyle.Width(max(0, m.width)).Render(
		nameStyle.Render(m.profile.Name) + "  " + taglineStyle.Render(m.profile.Tagline),
	)
}

func (m Model) typingLine() string {
	if !m.snap.Typing {
		return ""
	}
	return typingStyle.Render(m.spinner.View() + " " + m.profile.Name + " is typing…")
}

func (m Model) statusLine() string {
	if m.snap.ShowUnread() {
		return unreadStyle.Render(unread.Text(m.snap.Unread) + " ↓ ctrl+g")
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

// transcript は、表示済みのメッセージを吹き出しにして並べます。
// 先頭の日付行がヘッダーのアンカーです。
func (m Model) transcript() string {
	width := max(20, m.width)
	bubbleWidth := max(10, width*3/4)

	var b strings.Builder
	b.WriteString(anchorStyle.Width(width).Render("Today"))
	b.WriteString("\n")
	for _, msg := range m.snap.Visible {
		body := renderer.Text(msg)
		// 枠の内側の幅。短い吹き出しは中身に合わせて縮める
		w := min(lipgloss.Width(body)+2, bubbleWidth)
		if msg.Sender == message.SenderUser {
			bubble := userBubble.Width(w).Render(body)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
		} else {
			b.WriteString(assistantBubble.Width(w).Render(body))
		}
		b.WriteString("\n")
	}
	return b.String()
}
