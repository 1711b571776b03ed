package analyzer

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/crypto-digest/internal/models"
	"github.com/blockedby/crypto-digest/internal/nats"
)

func TestConsumer_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("Skipping integration test; set INTEGRATION_TEST=1 to run")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		t.Skip("NATS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := nats.New(ctx, natsURL)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.EnsureRunsStream(ctx))

	event := models.NewRunCollectedEvent(models.NewRunID(time.Now()), "openai", true, 1, 1)
	got := make(chan models.RunCollectedEvent, 1)

	logger := zerolog.Nop()
	consumer := NewConsumer(client, func(_ context.Context, e models.RunCollectedEvent) error {
		if e.EventID == event.EventID {
			got <- e
		}
		return nil
	}, &logger)
	require.NoError(t, consumer.Start(ctx))

	require.NoError(t, client.Publish(ctx, nats.SubjectRunCollected, event))

	select {
	case e := <-got:
		require.Equal(t, event.RunID, e.RunID)
	case <-ctx.Done():
		t.Fatal("Timeout waiting for run event")
	}
}
