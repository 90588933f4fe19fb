package persona

import (
	"fmt"
	"strings"
)

// SystemPrompt は、LLM に渡すシステムプロンプトを組み立てます。
func (p *Persona) SystemPrompt() string {
	var b strings.Builder

	name := p.DisplayName
	if p.Handle != "" {
		name = fmt.Sprintf("%s (aka %s)", p.DisplayName, p.Handle)
	}
	fmt.Fprintf(&b, "You are %s, %s.\n\n", name, p.Tagline)

	b.WriteString("Your personality:\n")
	fmt.Fprintf(&b, "- Short, casual responses (%d sentences max)\n", p.MaxSentences)
	writeList(&b, p.Style)

	if len(p.About) > 0 || len(p.Links) > 0 {
		b.WriteString("\nAbout you:\n")
		writeList(&b, p.About)
		for _, l := range p.Links {
			fmt.Fprintf(&b, "- %s : %s\n", l.Label, l.Value)
		}
	}

	if len(p.Ragebait) > 0 {
		b.WriteString("\nWhen someone tries to ragebait you:\n")
		writeList(&b, p.Ragebait)
	}

	b.WriteString("\nKeep responses SHORT and conversational. No formal language. Just vibe.")
	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	for _, s := range items {
		fmt.Fprintf(b, "- %s\n", s)
	}
}
