package reply

import (
	"context"
	"fmt"
	"strings"

	"github.com/sat8bit/kaiwa/persona"
	"google.golang.org/genai"
)

// GeminiConfig は Gemini クライアントの設定です。
// Backend が "vertex" なら Project と Location を、それ以外なら APIKey を使います。
type GeminiConfig struct {
	APIKey   string
	Backend  string
	Project  string
	Location string
	Model    string
	// BaseURL はテスト用にエンドポイントを差し替えます。
	BaseURL string
}

func (c GeminiConfig) configured() bool {
	if c.Backend == "vertex" {
		return c.Project != "" && c.Location != ""
	}
	return c.APIKey != ""
}

// NewGemini は Gemini クライアントを生成します。設定が足りなければ ErrNotConfigured です。
func NewGemini(ctx context.Context, cfg GeminiConfig, p *persona.Persona) (*Gemini, error) {
	if !cfg.configured() {
		return nil, ErrNotConfigured
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Backend == "vertex" {
		cc = &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("reply.NewGemini: %w", err)
	}

	return &Gemini{
		client:  client,
		model:   cfg.Model,
		persona: p,
	}, nil
}

// Gemini は、ペルソナのシステムプロンプトと挨拶で会話を始めてから
// ユーザーの送信を渡し、返信を生成します。
type Gemini struct {
	client  *genai.Client
	model   string
	persona *persona.Persona
}

func (g *Gemini) Reply(ctx context.Context, text string) (string, error) {
	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: g.persona.SystemPrompt()}}},
		{Role: genai.RoleModel, Parts: []*genai.Part{{Text: g.persona.Greeting}}},
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: text}}},
	}

	var temp float32 = 0.9
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: 256,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("reply.Gemini.Reply: %w", err)
	}

	txt := strings.TrimSpace(extractText(resp))
	if txt == "" {
		return "", fmt.Errorf("reply.Gemini.Reply: empty response")
	}
	return txt, nil
}

func extractText(res *genai.GenerateContentResponse) string {
	if res == nil {
		return ""
	}
	for _, c := range res.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

var _ Service = (*Gemini)(nil)
