package llm

import (
	_ "embed"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

//go:embed prompts/summary.xml
var summaryPromptXML []byte

// messagesPlaceholder is replaced with the message bodies in the user prompt.
const messagesPlaceholder = "{{MESSAGES}}"

// PromptConfig represents a prompt loaded from XML.
// It contains the system prompt and the user prompt template.
type PromptConfig struct {
	XMLName xml.Name `xml:"prompt"`
	System  string   `xml:"system"`
	User    string   `xml:"user"`
}

// DefaultPrompt returns the built-in summary prompt.
func DefaultPrompt() *PromptConfig {
	p, err := ParsePrompt(summaryPromptXML)
	if err != nil {
		panic(fmt.Sprintf("llm: embedded prompt: %v", err))
	}
	return p
}

// LoadPrompt reads and parses a prompt configuration from an XML file.
func LoadPrompt(filepath string) (*PromptConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}
	return ParsePrompt(data)
}

// ParsePrompt parses a prompt configuration. The user template must contain
// the {{MESSAGES}} placeholder.
func ParsePrompt(data []byte) (*PromptConfig, error) {
	var config PromptConfig
	if err := xml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse prompt xml: %w", err)
	}

	config.System = strings.TrimSpace(config.System)
	config.User = strings.TrimSpace(config.User)

	if !strings.Contains(config.User, messagesPlaceholder) {
		return nil, fmt.Errorf("prompt user template has no %s placeholder", messagesPlaceholder)
	}

	return &config, nil
}

// BuildUserPrompt substitutes the message bodies into the user template,
// one block per message.
func (p *PromptConfig) BuildUserPrompt(texts []string) string {
	var b strings.Builder
	for i, t := range texts {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		b.WriteString(t)
	}
	return strings.ReplaceAll(p.User, messagesPlaceholder, b.String())
}
