// Package telegram provides a Telegram MTProto client for reading public channel history.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/blockedby/crypto-digest/internal/logger"
	"github.com/blockedby/crypto-digest/internal/models"
)

// ErrNotConnected is returned when the underlying protocol client is not running.
var ErrNotConnected = errors.New("telegram client not connected")

// Client reads channel history through the Manager's protocol client.
type Client struct {
	manager     *Manager
	rateLimiter *RateLimiter
	log         *logger.Logger
}

// NewClient creates a client backed by manager.
func NewClient(manager *Manager) *Client {
	return &Client{
		manager:     manager,
		rateLimiter: DefaultRateLimiter(),
		log:         logger.Get().With("telegram"),
	}
}

// Close stops the underlying protocol client.
func (c *Client) Close() {
	if c.manager != nil {
		c.manager.Stop()
	}
}

// API returns the raw tg.Client for direct API calls.
func (c *Client) API() (*tg.Client, error) {
	if c.manager == nil {
		return nil, ErrNotConnected
	}
	proto := c.manager.GetClient()
	if proto == nil {
		return nil, ErrNotConnected
	}
	return proto.API(), nil
}

// FetchMessages returns the messages of a channel posted at or after since,
// newest first.
func (c *Client) FetchMessages(ctx context.Context, username string, since time.Time) ([]models.Message, error) {
	channel, err := c.ResolveChannel(ctx, username)
	if err != nil {
		return nil, err
	}

	messages, stats, err := fetchSince(ctx, since, func(ctx context.Context, offsetID int) (historyPage, error) {
		return c.getHistoryPage(ctx, channel, offsetID, historyPageSize)
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("channel", channel.Username).
		Int("pages", stats.Pages).
		Int("fetched", stats.Fetched).
		Int("kept", stats.Kept).
		Msg("telegram: history walk finished")

	return messages, nil
}

// ResolveChannel resolves a username (with or without @) to a readable peer.
func (c *Client) ResolveChannel(ctx context.Context, username string) (*Channel, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	api, err := c.API()
	if err != nil {
		return nil, err
	}

	c.log.Debug().Str("username", username).Msg("telegram: resolving username")
	resolved, err := api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
		Username: username,
	})
	if err != nil {
		c.handleFloodWait(err)
		return nil, fmt.Errorf("resolve username %s: %w", username, err)
	}

	return channelFromResolved(username, resolved)
}

// getHistoryPage fetches one page of history, newest first.
// offsetID: start below this message id (0 = newest messages)
// limit: page size (max 100)
func (c *Client) getHistoryPage(ctx context.Context, channel *Channel, offsetID int, limit int) (historyPage, error) {
	if limit > historyPageSize {
		limit = historyPageSize
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return historyPage{}, err
	}

	api, err := c.API()
	if err != nil {
		return historyPage{}, err
	}

	history, err := api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:     channel.Peer,
		OffsetID: offsetID,
		Limit:    limit,
	})
	if err != nil {
		c.handleFloodWait(err)
		return historyPage{}, fmt.Errorf("get history %s: %w", channel.Username, err)
	}

	return extractPage(history, channel.Username), nil
}

func (c *Client) handleFloodWait(err error) {
	if d, ok := tgerr.AsFloodWait(err); ok {
		c.log.Warn().Dur("wait", d).Msg("telegram: FLOOD_WAIT detected, pausing requests")
		c.rateLimiter.SetFloodWait(d)
	}
}

// historyPage is one page of history. Raw, LastID and LastDate describe the
// raw response, service messages included.
type historyPage struct {
	Messages []models.Message
	Raw      int
	LastID   int
	LastDate time.Time
}

// pageFunc fetches the history page below offsetID.
type pageFunc func(ctx context.Context, offsetID int) (historyPage, error)

// fetchSince walks history pages newest first until it reaches a message
// older than since or the history ends.
func fetchSince(ctx context.Context, since time.Time, next pageFunc) ([]models.Message, FetchStats, error) {
	var (
		out   []models.Message
		stats FetchStats
	)
	offsetID := 0

	for {
		page, err := next(ctx, offsetID)
		if err != nil {
			return nil, stats, err
		}
		stats.Pages++
		stats.Fetched += page.Raw

		if page.Raw == 0 {
			return out, stats, nil
		}

		for _, msg := range page.Messages {
			if msg.Date.Before(since) {
				stats.SkippedOld++
				return out, stats, nil
			}
			out = append(out, msg)
			stats.Kept++
		}

		if !page.LastDate.IsZero() && page.LastDate.Before(since) {
			return out, stats, nil
		}
		if offsetID != 0 && page.LastID >= offsetID {
			// history did not advance
			return out, stats, nil
		}
		offsetID = page.LastID
	}
}

// channelFromResolved picks the readable peer out of a resolve response.
func channelFromResolved(username string, resolved *tg.ContactsResolvedPeer) (*Channel, error) {
	for _, chat := range resolved.Chats {
		if ch, ok := chat.(*tg.Channel); ok {
			return &Channel{
				Username: username,
				Title:    ch.Title,
				Peer: &tg.InputPeerChannel{
					ChannelID:  ch.ID,
					AccessHash: ch.AccessHash,
				},
			}, nil
		}
	}
	for _, u := range resolved.Users {
		if user, ok := u.(*tg.User); ok {
			return &Channel{
				Username: username,
				Title:    strings.TrimSpace(user.FirstName + " " + user.LastName),
				Peer: &tg.InputPeerUser{
					UserID:     user.ID,
					AccessHash: user.AccessHash,
				},
			}, nil
		}
	}
	return nil, fmt.Errorf("channel not found: %s", username)
}

// extractPage converts a history response to a page. Service messages are
// dropped from Messages but still move the page boundary.
func extractPage(messagesClass tg.MessagesMessagesClass, channel string) historyPage {
	var raw []tg.MessageClass

	switch h := messagesClass.(type) {
	case *tg.MessagesChannelMessages:
		raw = h.Messages
	case *tg.MessagesMessagesSlice:
		raw = h.Messages
	case *tg.MessagesMessages:
		raw = h.Messages
	}

	page := historyPage{
		Messages: make([]models.Message, 0, len(raw)),
		Raw:      len(raw),
	}
	for _, msg := range raw {
		if m, ok := parseMessage(msg, channel); ok {
			page.Messages = append(page.Messages, m)
		}
	}

	if len(raw) > 0 {
		last := raw[len(raw)-1]
		page.LastID = last.GetID()
		switch m := last.(type) {
		case *tg.Message:
			page.LastDate = time.Unix(int64(m.Date), 0)
		case *tg.MessageService:
			page.LastDate = time.Unix(int64(m.Date), 0)
		}
	}
	return page
}

// parseMessage converts a single telegram message. Service messages are dropped.
func parseMessage(msg tg.MessageClass, channel string) (models.Message, bool) {
	m, ok := msg.(*tg.Message)
	if !ok {
		return models.Message{}, false
	}

	views, _ := m.GetViews()
	forwards, _ := m.GetForwards()
	replies := 0
	if r, ok := m.GetReplies(); ok {
		replies = r.Replies
	}

	return models.Message{
		Channel:  channel,
		ID:       m.ID,
		Date:     time.Unix(int64(m.Date), 0),
		Text:     m.Message,
		Views:    views,
		Forwards: forwards,
		Replies:  replies,
	}, true
}
