package blog

import "context"

// Fetcher は、外部のデータソースから []Post を取得するためのインターフェースです。
type Fetcher interface {
	Fetch(ctx context.Context) ([]Post, error)
}
