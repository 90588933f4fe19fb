package renderer

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/sat8bit/kaiwa/bus"
	"github.com/sat8bit/kaiwa/message"
)

const markdownTemplate = `+++
title = {{ .Title }}
date = {{ .Date }}
tags = {{ .Tags }}
+++

{{ .Body }}
`

// Document は、書き出す会話1本分です。
type Document struct {
	Title    string
	Name     string
	Date     time.Time
	Tags     []string
	Messages []*message.Message
}

// WriteMarkdown は、Hugo の Front Matter 付きの Markdown を w に書き出します。
func WriteMarkdown(w io.Writer, doc Document) error {
	tmpl, err := template.New("markdown").Parse(markdownTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse markdown template: %w", err)
	}

	var body strings.Builder
	for _, m := range doc.Messages {
		who := doc.Name
		if m.Sender == message.SenderUser {
			who = "you"
		}
		fmt.Fprintf(&body, "**%s:** %s\n\n", who, Markdown(m))
	}

	tags := make([]string, len(doc.Tags))
	for i, t := range doc.Tags {
		tags[i] = fmt.Sprintf("%q", t)
	}

	data := struct {
		Date  string
		Title string
		Tags  string
		Body  string
	}{
		Date:  fmt.Sprintf(`"%s"`, doc.Date.Format(time.RFC3339)),
		Title: fmt.Sprintf("%q", doc.Title),
		Tags:  fmt.Sprintf("[%s]", strings.Join(tags, ", ")),
		Body:  strings.TrimRight(body.String(), "\n"),
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// NewMarkdownRenderer は、バスが閉じられたときに表示済みの会話を
// outputDir/<slug>.md に書き出すレンダラーを生成します。
func NewMarkdownRenderer(outputDir, title, name string, now time.Time) *MarkdownRenderer {
	return &MarkdownRenderer{
		outputDir: outputDir,
		doc: Document{
			Title: title,
			Name:  name,
			Date:  now,
			Tags:  []string{name},
		},
		filePath: markdownPath(outputDir, now),
	}
}

type MarkdownRenderer struct {
	outputDir string
	doc       Document
	filePath  string
}

// Path は書き出し先のファイルパスです。
func (r *MarkdownRenderer) Path() string {
	return r.filePath
}

func (r *MarkdownRenderer) Render(b bus.Bus, wg *sync.WaitGroup) error {
	ch := b.SubscribeBlocking()

	wg.Add(1)
	go func() {
		defer wg.Done()
		var inbox []*message.Message
		for e := range ch {
			if e.Kind == bus.KindRevealed && e.Message != nil {
				inbox = append(inbox, e.Message)
			}
		}

		if len(inbox) == 0 {
			slog.Info("nothing revealed, skipping markdown export")
			return
		}
		if err := r.write(inbox); err != nil {
			slog.Error("failed to render markdown", "error", err)
		}
	}()

	return nil
}

func (r *MarkdownRenderer) write(msgs []*message.Message) error {
	doc := r.doc
	doc.Messages = msgs
	_, err := SaveMarkdown(r.outputDir, doc)
	return err
}

// SaveMarkdown は doc を dir/<日時>.md に書き出し、そのパスを返します。
func SaveMarkdown(dir string, doc Document) (string, error) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, doc); err != nil {
		return "", err
	}

	path := markdownPath(dir, doc.Date)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown file: %w", err)
	}

	slog.Info("Markdown file generated", "path", path, "messages", len(doc.Messages))
	return path, nil
}

func markdownPath(dir string, at time.Time) string {
	return filepath.Join(dir, at.Format("20060102-150405")+".md")
}

var _ Renderer = (*MarkdownRenderer)(nil)
