package renderer

import (
	"fmt"
	"strings"

	"github.com/sat8bit/kaiwa/message"
)

// Text は、メッセージを1行以上のプレーンテキストにします。
// 端末や TUI のバブルの中身に使います。
func Text(m *message.Message) string {
	if m.Malformed() {
		if m.Content != "" {
			return m.Content
		}
		return "[unsupported message]"
	}

	var lines []string
	if m.Content != "" {
		lines = append(lines, m.Content)
	}

	switch m.Kind {
	case message.KindPhotos:
		for _, p := range m.Photos {
			lines = append(lines, labelled("photo", p.Alt, p.Caption))
		}
	case message.KindMusic:
		lines = append(lines, "[music] ♪")
	case message.KindLocation:
		lines = append(lines, "[location] "+m.Location.City)
	case message.KindResume:
		text := m.Resume.LinkText
		if text == "" {
			text = "resume"
		}
		lines = append(lines, fmt.Sprintf("[resume] %s (%s)", text, m.Resume.Link))
	case message.KindBlog:
		for _, p := range m.Blogs {
			lines = append(lines, fmt.Sprintf("- %s: %s (%s)", p.Title, p.Description, p.Link))
		}
	case message.KindSocial:
		lines = append(lines, fmt.Sprintf("[%s] %s (%s)", or(m.Social.SiteName, "link"), m.Social.Title, m.Social.URL))
	case message.KindProject:
		lines = append(lines, labelled("project", m.Project.Title, m.Project.Description))
		if m.Project.Link != "" {
			lines = append(lines, m.Project.Link)
		}
	}
	return strings.Join(lines, "\n")
}

// Markdown は、メッセージを Markdown の段落にします。
func Markdown(m *message.Message) string {
	if m.Malformed() {
		return Text(m)
	}

	var b strings.Builder
	if m.Content != "" {
		b.WriteString(m.Content)
		b.WriteString("\n")
	}

	switch m.Kind {
	case message.KindPhotos:
		for _, p := range m.Photos {
			fmt.Fprintf(&b, "![%s](%s)\n", p.Alt, p.Src)
			if p.Caption != "" {
				fmt.Fprintf(&b, "*%s*\n", p.Caption)
			}
		}
	case message.KindMusic:
		b.WriteString("♪\n")
	case message.KindLocation:
		fmt.Fprintf(&b, "📍 %s\n", m.Location.City)
	case message.KindResume:
		fmt.Fprintf(&b, "[%s](%s)\n", or(m.Resume.LinkText, "resume"), m.Resume.Link)
	case message.KindBlog:
		for _, p := range m.Blogs {
			fmt.Fprintf(&b, "- [%s](%s): %s\n", p.Title, p.Link, p.Description)
		}
	case message.KindSocial:
		fmt.Fprintf(&b, "[%s](%s)\n", or(m.Social.Title, m.Social.URL), m.Social.URL)
	case message.KindProject:
		fmt.Fprintf(&b, "**%s**: %s\n", m.Project.Title, m.Project.Description)
		if len(m.Project.Tags) > 0 {
			fmt.Fprintf(&b, "`%s`\n", strings.Join(m.Project.Tags, "` `"))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func labelled(label, title, detail string) string {
	if detail == "" {
		return fmt.Sprintf("[%s] %s", label, title)
	}
	return fmt.Sprintf("[%s] %s: %s", label, title, detail)
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
