// Package unread は「新着メッセージ」通知のカウンタです。
// 正確な未読件数ではなく、最後に見てから新しい内容が来たかどうかの目安です。
package unread

import "fmt"

// Counter は、ユーザーが上にスクロールしている間の表示列の伸びを数えます。
type Counter struct {
	count int
}

// Observe は表示列が伸びたことを知らせます。
// scrolledUp のときだけ1増やし、増えたかどうかを返します。
func (c *Counter) Observe(scrolledUp bool) bool {
	if !scrolledUp {
		return false
	}
	c.count++
	return true
}

// Reset は「一番下へ」操作でカウンタを0に戻します。
func (c *Counter) Reset() {
	c.count = 0
}

func (c *Counter) Count() int {
	return c.count
}

// Text は通知ボタンの文言です。
func Text(count int) string {
	if count == 1 {
		return "1 new message"
	}
	return fmt.Sprintf("%d new messages", count)
}
