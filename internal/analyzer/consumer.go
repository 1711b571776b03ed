package analyzer

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/blockedby/crypto-digest/internal/models"
	"github.com/blockedby/crypto-digest/internal/nats"
)

// Subscriber is the part of the nats client the consumer needs.
type Subscriber interface {
	Subscribe(ctx context.Context, stream, consumer, subject string, handler func([]byte) error) error
}

// AnalyzeFunc analyzes one collected run. A returned error triggers redelivery.
type AnalyzeFunc func(ctx context.Context, event models.RunCollectedEvent) error

// Consumer handles run collected events from NATS.
type Consumer struct {
	client  Subscriber
	analyze AnalyzeFunc
	log     *zerolog.Logger
	ctx     context.Context
}

// NewConsumer creates a new NATS consumer
func NewConsumer(client Subscriber, analyze AnalyzeFunc, log *zerolog.Logger) *Consumer {
	return &Consumer{
		client:  client,
		analyze: analyze,
		log:     log,
		ctx:     context.Background(),
	}
}

// Start subscribes to runs.collected. Handlers run with ctx until it is done.
func (c *Consumer) Start(ctx context.Context) error {
	c.ctx = ctx
	c.log.Info().Msg("starting analyzer consumer")
	return c.client.Subscribe(ctx, nats.StreamRuns, nats.ConsumerAnalyzer, nats.SubjectRunCollected, c.handleMessage)
}

// handleMessage processes a single message
func (c *Consumer) handleMessage(data []byte) error {
	var event models.RunCollectedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.log.Error().Err(err).Msg("invalid nats message format, skipping")
		return nil // ack poison message
	}

	if _, err := models.ParseRunID(event.RunID.String()); err != nil {
		c.log.Error().Err(err).Str("event_id", event.EventID.String()).Msg("invalid run id, skipping")
		return nil
	}

	c.log.Debug().
		Str("event_id", event.EventID.String()).
		Str("run_id", event.RunID.String()).
		Msg("received run event")

	if err := c.analyze(c.ctx, event); err != nil {
		c.log.Error().Str("run_id", event.RunID.String()).Err(err).Msg("failed to analyze run")
		return err
	}

	return nil
}
