package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed channels.yaml
var defaultChannelsYAML []byte

// ChannelLists holds the trading and news channel usernames.
type ChannelLists struct {
	Trading []string `yaml:"trading"`
	News    []string `yaml:"news"`
}

// Total returns the number of channel fetches a run performs.
func (l ChannelLists) Total() int {
	return len(l.Trading) + len(l.News)
}

// LoadChannels reads channel lists from a YAML file.
// An empty path yields the built-in lists.
func LoadChannels(path string) (*ChannelLists, error) {
	data := defaultChannelsYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read channels file: %w", err)
		}
	}
	return ParseChannels(data)
}

// ParseChannels decodes YAML channel lists. Usernames are trimmed and a
// leading @ is dropped; blank entries are ignored.
func ParseChannels(data []byte) (*ChannelLists, error) {
	var lists ChannelLists
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("parse channels yaml: %w", err)
	}

	lists.Trading = normalize(lists.Trading)
	lists.News = normalize(lists.News)

	if lists.Total() == 0 {
		return nil, errors.New("channel lists are empty")
	}
	return &lists, nil
}

func normalize(channels []string) []string {
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		ch = strings.TrimPrefix(strings.TrimSpace(ch), "@")
		if ch == "" {
			continue
		}
		out = append(out, ch)
	}
	return out
}
