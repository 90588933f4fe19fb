// Package script は、埋め込みの台本を読み込みます。
package script

import (
	"errors"
	"fmt"

	"github.com/sat8bit/kaiwa/blog"
	"github.com/sat8bit/kaiwa/configs"
	"github.com/sat8bit/kaiwa/message"
	"gopkg.in/yaml.v3"
)

// ErrEmpty は、メッセージが1件も無い台本を読み込んだときのエラーです。
var ErrEmpty = errors.New("script has no messages")

type document struct {
	Messages []*message.Message `yaml:"messages"`
}

// Default は埋め込みの台本を読み込みます。
func Default(posts []blog.Post) ([]*message.Message, error) {
	return Load(configs.Script, posts)
}

// Load は YAML の台本を読み込み、ブログ一覧メッセージに posts を差し込みます。
// posts が空ならフォールバックの記事を使います。
// 種類が不明なメッセージもそのまま返します。表示側で壊れたものとして扱います。
func Load(data []byte, posts []blog.Post) ([]*message.Message, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal script: %w", err)
	}
	if len(doc.Messages) == 0 {
		return nil, ErrEmpty
	}
	if len(posts) == 0 {
		posts = blog.Fallback()
	}

	for i, m := range doc.Messages {
		if m == nil {
			return nil, fmt.Errorf("script message %d is empty", i)
		}
		if m.Sender == "" {
			m.Sender = message.SenderAssistant
		}
		if m.Kind == message.KindBlog && len(m.Blogs) == 0 {
			m.Blogs = append([]blog.Post(nil), posts...)
		}
	}
	return doc.Messages, nil
}
