// Package config は、環境変数（と任意の .env）から設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config は kaiwa の設定です。
type Config struct {
	Gemini GeminiConfig
	Blog   BlogConfig
	Server ServerConfig
	Log    LogConfig

	// ReplyURL が空でなければ、Gemini を直接呼ばずにこの /api/chat に問い合わせます。
	ReplyURL string `envconfig:"REPLY_URL"`
	// Strict なら再生エンジンの不変条件違反で panic します。
	Strict bool `envconfig:"KAIWA_STRICT" default:"false"`
}

type GeminiConfig struct {
	APIKey   string `envconfig:"GEMINI_API_KEY"`
	Model    string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	Backend  string `envconfig:"GEMINI_BACKEND" default:"gemini"`
	Project  string `envconfig:"PROJECT_ID"`
	Location string `envconfig:"LOCATION"`
}

type BlogConfig struct {
	FeedURL string `envconfig:"BLOG_FEED_URL"`
	Limit   int    `envconfig:"BLOG_FEED_LIMIT" default:"3"`
}

type ServerConfig struct {
	Addr string `envconfig:"SERVER_ADDR" default:":8080"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
	// File は TUI 実行中のログの出力先です。空なら捨てます。
	File string `envconfig:"KAIWA_LOG_FILE"`
}

// Load は .env があれば読み込んでから、環境変数を Config に読み込みます。
// 既に設定済みの環境変数は .env で上書きしません。
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// 無いのは普通なので無視する
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は、必須項目以外の論理的な誤りを確かめます。
func (c *Config) Validate() error {
	switch c.Gemini.Backend {
	case "gemini", "vertex":
	default:
		return fmt.Errorf("GEMINI_BACKEND must be gemini or vertex, got %q", c.Gemini.Backend)
	}
	if c.Blog.Limit < 0 {
		return fmt.Errorf("BLOG_FEED_LIMIT must not be negative, got %d", c.Blog.Limit)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}
	return nil
}
