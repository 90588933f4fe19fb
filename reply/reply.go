// Package reply は、ユーザーの送信に対する返信を外部から取得します。
package reply

import (
	"context"
	"errors"
	"fmt"
)

// 返信を取得できなかったときに代わりに表示する文言
const (
	StatusFallback    = "yo my bad, something went wrong. try again? 🤔"
	TransportFallback = "oops, couldn't connect rn. maybe refresh? 💭"
)

// ErrNotConfigured は、API キーなどの設定が無く返信を生成できないときのエラーです。
var ErrNotConfigured = errors.New("reply service not configured")

// Service は、1件の送信に対して1件の返信テキストを返します。
type Service interface {
	Reply(ctx context.Context, text string) (string, error)
}

// StatusError は、返信エンドポイントが成功以外のステータスを返したときのエラーです。
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("reply endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("reply endpoint returned status %d: %s", e.Code, e.Message)
}

// Fallback は、返信の取得に失敗したときに表示する文言を選びます。
// 相手が応答した（ステータスが返った、または設定が無い）なら StatusFallback、
// そもそも届かなかったなら TransportFallback です。
func Fallback(err error) string {
	var se *StatusError
	if errors.As(err, &se) || errors.Is(err, ErrNotConfigured) {
		return StatusFallback
	}
	return TransportFallback
}

// FailureReason は、メトリクスのラベルに使う失敗の分類です。
func FailureReason(err error) string {
	var se *StatusError
	switch {
	case errors.As(err, &se):
		return "status"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "transport"
	}
}

// Unconfigured は、返信元が無いときの Service です。常に ErrNotConfigured を返します。
type Unconfigured struct{}

func (Unconfigured) Reply(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

var _ Service = Unconfigured{}
