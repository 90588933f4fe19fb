package blog

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/mmcdole/gofeed"
)

// RSSFetcher は Fetcher の RSS/Atom 実装です。
type RSSFetcher struct {
	url    string
	limit  int
	parser *gofeed.Parser
}

// NewRSSFetcher は新しい RSSFetcher を生成します。
// limit は取得する記事の上限数です。0以下の場合は無制限。
func NewRSSFetcher(url string, limit int) *RSSFetcher {
	return &RSSFetcher{
		url:    url,
		limit:  limit,
		parser: gofeed.NewParser(),
	}
}

// Fetch はフィードを取得し、新しい順に Post へ変換します。
func (f *RSSFetcher) Fetch(ctx context.Context) ([]Post, error) {
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed from %s: %w", f.url, err)
	}
	return postsFromFeed(feed, f.limit), nil
}

func postsFromFeed(feed *gofeed.Feed, limit int) []Post {
	items := make([]*gofeed.Item, len(feed.Items))
	copy(items, feed.Items)

	// 公開日で降順。日付の無い記事はフィード内の順序を保つ
	sort.SliceStable(items, func(i, j int) bool {
		iTime := items[i].PublishedParsed
		jTime := items[j].PublishedParsed
		if iTime == nil || jTime == nil {
			return false
		}
		return iTime.After(*jTime)
	})

	var posts []Post
	for i, item := range items {
		if limit > 0 && i >= limit {
			break
		}
		posts = append(posts, Post{
			Title:       item.Title,
			Description: truncateString(stripHTML(item.Description), 120),
			Link:        item.Link,
		})
	}
	return posts
}

var htmlRegex = regexp.MustCompile("<[^>]*>")

// stripHTML は文字列からHTMLタグを削除します。
func stripHTML(s string) string {
	return htmlRegex.ReplaceAllString(s, "")
}

// truncateString は文字列をrune単位で指定された長さに切り詰めます。
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return s
}

var _ Fetcher = (*RSSFetcher)(nil)
