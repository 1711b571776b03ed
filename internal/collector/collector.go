// Package collector gathers recent messages from the configured channel lists.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blockedby/crypto-digest/internal/config"
	"github.com/blockedby/crypto-digest/internal/logger"
	"github.com/blockedby/crypto-digest/internal/models"
)

// ChannelDelay is the fixed pause after every channel fetch.
const ChannelDelay = 2 * time.Second

// ErrInvalidHours is returned for a non-positive lookback window.
var ErrInvalidHours = errors.New("hours must be a positive integer")

// ErrIntervalTooShort is returned for a repeat interval shorter than models.MinRunInterval.
var ErrIntervalTooShort = fmt.Errorf("repeat interval must be 0 or at least %s", models.MinRunInterval)

// Source fetches the messages of one channel posted at or after since.
type Source interface {
	FetchMessages(ctx context.Context, channel string, since time.Time) ([]models.Message, error)
}

// Collector walks channel lists sequentially and builds batches.
type Collector struct {
	source Source
	log    *logger.Logger
	now    func() time.Time
	delay  time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a collector reading from source.
func New(source Source, log *logger.Logger) *Collector {
	return &Collector{
		source: source,
		log:    log,
		now:    time.Now,
		delay:  ChannelDelay,
		sleep:  sleepContext,
	}
}

// SetClock replaces the clock used to compute the cutoff.
func (c *Collector) SetClock(now func() time.Time) {
	c.now = now
}

// SetDelay replaces the pause after each channel fetch.
func (c *Collector) SetDelay(d time.Duration) {
	c.delay = d
}

// ValidateHours checks the lookback window.
func ValidateHours(hours int) error {
	if hours <= 0 {
		return ErrInvalidHours
	}
	return nil
}

// ValidateInterval checks the repeat interval. Zero means run once.
func ValidateInterval(every time.Duration) error {
	if every == 0 {
		return nil
	}
	if every < models.MinRunInterval {
		return ErrIntervalTooShort
	}
	return nil
}

// CollectChannel returns the channel's messages from the last hours.
// A fetch failure is logged and yields no messages.
func (c *Collector) CollectChannel(ctx context.Context, channel string, hours int) []models.Message {
	channel = strings.TrimPrefix(strings.TrimSpace(channel), "@")
	cutoff := c.now().Add(-time.Duration(hours) * time.Hour)

	messages, err := c.source.FetchMessages(ctx, channel, cutoff)
	if err != nil {
		c.log.Error().Err(err).Str("channel", channel).Msg("failed to fetch channel")
		return []models.Message{}
	}

	kept := make([]models.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Date.Before(cutoff) {
			continue
		}
		kept = append(kept, msg)
	}

	c.log.Info().
		Str("channel", channel).
		Int("messages", len(kept)).
		Msg("channel collected")

	return kept
}

// Collect walks channels in order, pausing after each fetch (ChannelDelay by default).
// Cancellation stops the walk and returns what was collected so far.
func (c *Collector) Collect(ctx context.Context, category models.Category, channels []string, hours int) models.Batch {
	batch := models.Batch{Category: category, Messages: []models.Message{}}

	c.log.Info().
		Str("category", string(category)).
		Int("channels", len(channels)).
		Int("hours", hours).
		Msg("collecting category")

	for i, channel := range channels {
		if ctx.Err() != nil {
			c.log.Warn().Str("category", string(category)).Msg("collection cancelled")
			break
		}

		batch.Messages = append(batch.Messages, c.CollectChannel(ctx, channel, hours)...)

		c.log.Debug().
			Int("done", i+1).
			Int("total", len(channels)).
			Msg("pacing before next channel")
		if err := c.sleep(ctx, c.delay); err != nil {
			c.log.Warn().Str("category", string(category)).Msg("collection cancelled")
			break
		}
	}

	c.log.Info().
		Str("category", string(category)).
		Int("messages", batch.Len()).
		Msg("category collected")

	return batch
}

// CollectAll collects the trading list, then the news list.
func (c *Collector) CollectAll(ctx context.Context, lists config.ChannelLists, hours int) (trading, news models.Batch) {
	trading = c.Collect(ctx, models.CategoryTrading, lists.Trading, hours)
	news = c.Collect(ctx, models.CategoryNews, lists.News, hours)
	return trading, news
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
