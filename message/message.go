package message

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sat8bit/kaiwa/blog"
)

// Photo は、写真メッセージの1枚分です。
type Photo struct {
	Src     string `yaml:"src" json:"src"`
	Alt     string `yaml:"alt" json:"alt"`
	Caption string `yaml:"caption,omitempty" json:"caption,omitempty"`
}

type Location struct {
	City string `yaml:"city" json:"city"`
}

type Resume struct {
	Link     string `yaml:"link" json:"link"`
	LinkText string `yaml:"linkText,omitempty" json:"linkText,omitempty"`
}

// SocialPreview は、SNS プロフィールへのリンクカードです。
type SocialPreview struct {
	URL      string `yaml:"url" json:"url"`
	Title    string `yaml:"title" json:"title"`
	SiteName string `yaml:"siteName" json:"siteName"`
	Favicon  string `yaml:"favicon,omitempty" json:"favicon,omitempty"`
}

type Project struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Link        string   `yaml:"link,omitempty" json:"link,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Message は、トランスクリプトの1件です。生成後は変更しません。
// 表示側が使うペイロードは Kind に対応するフィールドだけが埋まります。
// 再生エンジンが読むのは ID と Content（の長さ）だけです。
type Message struct {
	ID        string    `yaml:"id" json:"id"`
	Sender    Sender    `yaml:"sender" json:"sender"`
	Kind      Kind      `yaml:"type" json:"type"`
	Content   string    `yaml:"content" json:"content"`
	CreatedAt time.Time `yaml:"-" json:"createdAt,omitzero"`

	Photos   []Photo        `yaml:"photos,omitempty" json:"photos,omitempty"`
	Location *Location      `yaml:"location,omitempty" json:"location,omitempty"`
	Resume   *Resume        `yaml:"resume,omitempty" json:"resume,omitempty"`
	Blogs    []blog.Post    `yaml:"blogs,omitempty" json:"blogs,omitempty"`
	Social   *SocialPreview `yaml:"social,omitempty" json:"social,omitempty"`
	Project  *Project       `yaml:"project,omitempty" json:"project,omitempty"`
}

// New は、実行時に生まれるテキストメッセージを生成します。
// ID は UUID で採番し、CreatedAt には at を入れます。
func New(sender Sender, content string, at time.Time) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Kind:      KindText,
		Content:   content,
		CreatedAt: at,
	}
}

// ContentLength は、タイピング遅延の計算に使う文字数（rune 数）です。
func (m *Message) ContentLength() int {
	if m == nil {
		return 0
	}
	return utf8.RuneCountInString(m.Content)
}

// Malformed は、Kind に必要なペイロードが欠けているかどうかを返します。
// 欠けていても再生は止めません。表示側がフォールバックを描画します。
func (m *Message) Malformed() bool {
	if m == nil {
		return true
	}
	switch m.Kind {
	case KindPhotos:
		return len(m.Photos) == 0
	case KindLocation:
		return m.Location == nil || m.Location.City == ""
	case KindResume:
		return m.Resume == nil || m.Resume.Link == ""
	case KindSocial:
		return m.Social == nil || m.Social.URL == ""
	case KindProject:
		return m.Project == nil
	case KindText, KindMusic, KindBlog:
		return false
	}
	return !m.Kind.Valid()
}

func (m *Message) IsUser() bool {
	return m != nil && m.Sender == SenderUser
}
