// Package storage persists message batches as CSV files shared between the
// collector and analyzer stages.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/blockedby/crypto-digest/internal/models"
)

// Header is the column layout of a batch file.
var Header = []string{"channel", "message_id", "date", "text", "views", "forwards", "replies"}

// ErrBadHeader is returned when a batch file does not start with Header.
var ErrBadHeader = errors.New("unexpected batch file header")

// WriteMessages writes the header and one record per message.
func WriteMessages(w io.Writer, messages []models.Message) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, msg := range messages {
		if err := writer.Write(record(msg)); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func record(msg models.Message) []string {
	return []string{
		msg.Channel,
		strconv.Itoa(msg.ID),
		msg.Date.Format(time.RFC3339),
		msg.Text,
		strconv.Itoa(msg.Views),
		strconv.Itoa(msg.Forwards),
		strconv.Itoa(msg.Replies),
	}
}

// ReadMessages parses a batch file written by WriteMessages.
// Columns are matched by header name; blank counters read as zero.
func ReadMessages(r io.Reader) ([]models.Message, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	head, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []models.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	cols := make(map[string]int, len(head))
	for i, name := range head {
		cols[name] = i
	}
	for _, name := range Header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadHeader, name)
		}
	}

	messages := []models.Message{}
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV line %d: %w", line, err)
		}

		msg, err := parseRecord(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("parse CSV line %d: %w", line, err)
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

func parseRecord(rec []string, cols map[string]int) (models.Message, error) {
	field := func(name string) string {
		if i := cols[name]; i < len(rec) {
			return rec[i]
		}
		return ""
	}

	var (
		msg models.Message
		err error
	)
	msg.Channel = field("channel")
	msg.Text = field("text")

	if msg.ID, err = atoi(field("message_id")); err != nil {
		return msg, fmt.Errorf("message_id: %w", err)
	}
	if msg.Views, err = atoi(field("views")); err != nil {
		return msg, fmt.Errorf("views: %w", err)
	}
	if msg.Forwards, err = atoi(field("forwards")); err != nil {
		return msg, fmt.Errorf("forwards: %w", err)
	}
	if msg.Replies, err = atoi(field("replies")); err != nil {
		return msg, fmt.Errorf("replies: %w", err)
	}

	if raw := field("date"); raw != "" {
		if msg.Date, err = time.Parse(time.RFC3339, raw); err != nil {
			return msg, fmt.Errorf("date: %w", err)
		}
	}

	return msg, nil
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
