package models

import (
	"time"
)

// Category classifies a channel list for reporting.
type Category string

// Category constants name the two channel lists.
const (
	CategoryTrading Category = "trading"
	CategoryNews    Category = "news"
)

// Categories lists every category in collection order.
var Categories = []Category{CategoryTrading, CategoryNews}

// Message is one fetched channel post.
type Message struct {
	Channel  string    // channel username (without @)
	ID       int       // message id (unique within channel)
	Date     time.Time // message creation timestamp
	Text     string    // message body, empty when the post has none
	Views    int       // view count
	Forwards int       // forward count
	Replies  int       // reply count
}

// HasText reports whether the message carries a body.
func (m Message) HasText() bool {
	return m.Text != ""
}

// Batch is the ordered set of messages collected for one category in one run.
type Batch struct {
	Category Category
	Messages []Message
}

// Len returns the number of messages in the batch.
func (b Batch) Len() int {
	return len(b.Messages)
}

// Texts returns the non-empty bodies of the batch in order.
func (b Batch) Texts() []string {
	return Texts(b.Messages)
}

// Texts returns the non-empty bodies of messages in order.
func Texts(messages []Message) []string {
	texts := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.HasText() {
			texts = append(texts, m.Text)
		}
	}
	return texts
}
