package persona

import (
	"errors"
	"fmt"

	"github.com/sat8bit/kaiwa/configs"
	"gopkg.in/yaml.v3"
)

// ErrNoName は、displayName の無いプロフィールを読み込んだときのエラーです。
var ErrNoName = errors.New("persona has no displayName")

// Default は、埋め込みのプロフィールを読み込みます。
func Default() (*Persona, error) {
	return Load(configs.Persona)
}

// Load は YAML のプロフィールを読み込みます。
func Load(data []byte) (*Persona, error) {
	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal persona: %w", err)
	}
	if p.DisplayName == "" {
		return nil, ErrNoName
	}
	if p.MaxSentences <= 0 {
		p.MaxSentences = 3
	}
	return &p, nil
}
