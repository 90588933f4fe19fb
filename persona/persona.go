package persona

// Link は、プロフィールに載せる連絡先の1つです。
type Link struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Persona は、返信を生成する語り手の人格を定義します。
// この情報は、LLMに渡すシステムプロンプトのベースとなります。
type Persona struct {
	PersonaId    string   `yaml:"personaId"`
	DisplayName  string   `yaml:"displayName"`
	Handle       string   `yaml:"handle"`
	Tagline      string   `yaml:"tagline"`
	Greeting     string   `yaml:"greeting"`
	MaxSentences int      `yaml:"maxSentences"`
	Style        []string `yaml:"style"`
	About        []string `yaml:"about"`
	Links        []Link   `yaml:"links"`
	Ragebait     []string `yaml:"ragebait"`
}
