package blog

// Post は、ブログ一覧メッセージに並ぶ1記事です。
// 取得元（RSS、静的データなど）に依存しない形式です。
type Post struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Link        string `yaml:"link" json:"link"`
}

var fallbackPosts = []Post{
	{
		Title:       "Open Source",
		Description: "Thoughts & feelings on Open Source",
		Link:        "/blogs/open-source",
	},
	{
		Title:       "Art of Procrastination",
		Description: "How I procrastinate and still get things done",
		Link:        "/blogs/art-of-procrastination",
	},
}

// Fallback は、フィードが使えないときに表示する記事のコピーを返します。
func Fallback() []Post {
	out := make([]Post, len(fallbackPosts))
	copy(out, fallbackPosts)
	return out
}
