package blog

import (
	"context"
	"log/slog"
)

// Resolve は、fetcher から記事を取得します。取得に失敗した場合や
// 記事が0件の場合はフォールバックを返します。fetcher が nil でも構いません。
func Resolve(ctx context.Context, fetcher Fetcher, logger *slog.Logger) []Post {
	if logger == nil {
		logger = slog.Default()
	}
	if fetcher == nil {
		logger.Warn("no blog feed configured, using fallback blogs")
		return Fallback()
	}
	posts, err := fetcher.Fetch(ctx)
	if err != nil {
		logger.Warn("blog feed unavailable, using fallback blogs", "error", err)
		return Fallback()
	}
	if len(posts) == 0 {
		logger.Warn("blog feed returned no posts, using fallback blogs")
		return Fallback()
	}
	return posts
}
