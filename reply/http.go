package reply

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request と Response は /api/chat のボディです。
type Request struct {
	Message string `json:"message"`
}

type Response struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// HTTPClient は、別プロセスの /api/chat に返信を問い合わせる Service です。
type HTTPClient struct {
	url    string
	client *http.Client
}

// NewHTTPClient は url に POST する HTTPClient を生成します。client が nil なら10秒タイムアウトのものを使います。
func NewHTTPClient(url string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{url: url, client: client}
}

func (c *HTTPClient) Reply(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(Request{Message: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach reply endpoint: %w", err)
	}
	defer res.Body.Close()

	var out Response
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&out); err != nil && res.StatusCode == http.StatusOK {
		return "", fmt.Errorf("failed to decode reply: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", &StatusError{Code: res.StatusCode, Message: out.Error}
	}
	if out.Reply == "" {
		return "", &StatusError{Code: res.StatusCode, Message: "empty reply"}
	}
	return out.Reply, nil
}

var _ Service = (*HTTPClient)(nil)
