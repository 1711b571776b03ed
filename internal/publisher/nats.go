// Package publisher announces collected runs on NATS.
package publisher

import (
	"context"
	"errors"
	"fmt"

	"github.com/blockedby/crypto-digest/internal/models"
	inats "github.com/blockedby/crypto-digest/internal/nats"
)

// ErrNotConnected is returned when the NATS connection is down.
var ErrNotConnected = errors.New("nats not connected")

// NATSClient interface to allow mocking
type NATSClient interface {
	Publish(ctx context.Context, subject string, data any) error
	IsConnected() bool
}

// NATSPublisher hands collected runs over to the analyzer.
type NATSPublisher struct {
	client NATSClient
}

// NewNATSPublisher creates a new publisher
func NewNATSPublisher(client NATSClient) *NATSPublisher {
	return &NATSPublisher{client: client}
}

// PublishRunCollected publishes a run collected event to the runs stream.
func (p *NATSPublisher) PublishRunCollected(ctx context.Context, event models.RunCollectedEvent) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}

	if err := p.client.Publish(ctx, inats.SubjectRunCollected, event); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}
