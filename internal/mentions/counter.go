package mentions

import (
	"strings"

	"github.com/blockedby/crypto-digest/internal/models"
)

// Count is the number of mentions of one dictionary entry.
type Count struct {
	Entry
	Mentions int
}

// Counts holds one Count per dictionary entry, in dictionary order.
type Counts struct {
	items []Count
	index map[string]int
}

// NewCounts returns zeroed counts for every entry of dict.
func NewCounts(dict Dictionary) Counts {
	c := Counts{
		items: make([]Count, len(dict.entries)),
		index: make(map[string]int, len(dict.entries)),
	}
	for i, e := range dict.entries {
		c.items[i] = Count{Entry: e}
		c.index[e.Name] = i
	}
	return c
}

// Items returns a copy of the counts in dictionary order.
func (c Counts) Items() []Count {
	out := make([]Count, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the mentions for a full name.
func (c Counts) Get(name string) (int, bool) {
	i, ok := c.index[name]
	if !ok {
		return 0, false
	}
	return c.items[i].Mentions, true
}

// Len returns the number of entries.
func (c Counts) Len() int {
	return len(c.items)
}

// Total returns the sum of all mentions.
func (c Counts) Total() int {
	total := 0
	for _, item := range c.items {
		total += item.Mentions
	}
	return total
}

// add scans one lowercased body. The full name and the ticker are matched
// independently, so a body containing both adds to the same entry twice.
// Matching is plain substring containment: short tickers also match inside
// unrelated words.
func (c Counts) add(body string) {
	for i := range c.items {
		e := c.items[i].Entry
		c.items[i].Mentions += strings.Count(body, e.Name)
		c.items[i].Mentions += strings.Count(body, strings.ToLower(e.Symbol))
	}
}

// CountMessages tallies mentions across messages. Messages without a body contribute nothing.
func CountMessages(messages []models.Message, dict Dictionary) Counts {
	counts := NewCounts(dict)
	for _, m := range messages {
		if !m.HasText() {
			continue
		}
		counts.add(strings.ToLower(m.Text))
	}
	return counts
}

// CountTexts tallies mentions across raw bodies. Empty bodies contribute nothing.
func CountTexts(texts []string, dict Dictionary) Counts {
	counts := NewCounts(dict)
	for _, text := range texts {
		if text == "" {
			continue
		}
		counts.add(strings.ToLower(text))
	}
	return counts
}
