package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/crypto-digest/internal/config"
	"github.com/blockedby/crypto-digest/internal/logger"
	"github.com/blockedby/crypto-digest/internal/models"
)

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

// MockSource serves canned messages per channel and records calls.
type MockSource struct {
	mu       sync.Mutex
	Messages map[string][]models.Message
	Errors   map[string]error
	Calls    []string
	Since    []time.Time
}

func (m *MockSource) FetchMessages(_ context.Context, channel string, since time.Time) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, channel)
	m.Since = append(m.Since, since)
	if err := m.Errors[channel]; err != nil {
		return nil, err
	}
	return m.Messages[channel], nil
}

func newTestCollector(src Source) (*Collector, *[]time.Duration) {
	var sleeps []time.Duration
	c := New(src, logger.Nop())
	c.now = func() time.Time { return testNow }
	c.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	return c, &sleeps
}

func msg(channel string, id int, age time.Duration, text string) models.Message {
	return models.Message{Channel: channel, ID: id, Date: testNow.Add(-age), Text: text}
}

func TestValidateHours(t *testing.T) {
	assert.NoError(t, ValidateHours(1))
	assert.NoError(t, ValidateHours(48))
	assert.ErrorIs(t, ValidateHours(0), ErrInvalidHours)
	assert.ErrorIs(t, ValidateHours(-3), ErrInvalidHours)
}

func TestCollectChannel_DropsOlderThanCutoff(t *testing.T) {
	src := &MockSource{Messages: map[string][]models.Message{
		"whale": {
			msg("whale", 3, 10*time.Minute, "BTC"),
			msg("whale", 2, 59*time.Minute, "ETH"),
			msg("whale", 1, 2*time.Hour, "old"),
		},
	}}
	c, _ := newTestCollector(src)

	got := c.CollectChannel(context.Background(), "@whale", 1)

	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
	assert.Equal(t, []string{"whale"}, src.Calls, "@ prefix stripped")
	assert.Equal(t, testNow.Add(-time.Hour), src.Since[0])
}

func TestCollectChannel_ErrorYieldsEmpty(t *testing.T) {
	src := &MockSource{Errors: map[string]error{"private": errors.New("CHANNEL_PRIVATE")}}
	c, _ := newTestCollector(src)

	got := c.CollectChannel(context.Background(), "private", 1)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollect_SequentialWithPacing(t *testing.T) {
	src := &MockSource{
		Messages: map[string][]models.Message{
			"a": {msg("a", 1, time.Minute, "one")},
			"c": {msg("c", 5, time.Minute, "five"), msg("c", 4, 2*time.Minute, "")},
		},
		Errors: map[string]error{"b": errors.New("USERNAME_INVALID")},
	}
	c, sleeps := newTestCollector(src)

	batch := c.Collect(context.Background(), models.CategoryTrading, []string{"a", "b", "c"}, 1)

	assert.Equal(t, models.CategoryTrading, batch.Category)
	assert.Equal(t, []string{"a", "b", "c"}, src.Calls)
	require.Equal(t, 3, batch.Len(), "failed channel does not abort the batch")
	assert.Equal(t, "one", batch.Messages[0].Text)
	assert.Equal(t, "five", batch.Messages[1].Text)
	assert.Equal(t, []time.Duration{ChannelDelay, ChannelDelay, ChannelDelay}, *sleeps)
}

func TestCollect_Cancelled(t *testing.T) {
	src := &MockSource{Messages: map[string][]models.Message{
		"a": {msg("a", 1, time.Minute, "one")},
		"b": {msg("b", 1, time.Minute, "two")},
	}}
	c, _ := newTestCollector(src)

	ctx, cancel := context.WithCancel(context.Background())
	c.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	batch := c.Collect(ctx, models.CategoryNews, []string{"a", "b"}, 1)

	assert.Equal(t, []string{"a"}, src.Calls)
	require.Equal(t, 1, batch.Len(), "partial batch is kept")
}

func TestCollectAll_TradingThenNews(t *testing.T) {
	src := &MockSource{Messages: map[string][]models.Message{
		"shared": {msg("shared", 1, time.Minute, "sol")},
		"t":      {msg("t", 2, time.Minute, "ada")},
	}}
	c, _ := newTestCollector(src)

	trading, news := c.CollectAll(context.Background(), config.ChannelLists{
		Trading: []string{"t", "shared"},
		News:    []string{"shared"},
	}, 1)

	assert.Equal(t, []string{"t", "shared", "shared"}, src.Calls, "channel on both lists is fetched twice")
	assert.Equal(t, models.CategoryTrading, trading.Category)
	assert.Equal(t, 2, trading.Len())
	assert.Equal(t, models.CategoryNews, news.Category)
	assert.Equal(t, 1, news.Len())
}

func TestCollect_EmptyList(t *testing.T) {
	c, sleeps := newTestCollector(&MockSource{})

	batch := c.Collect(context.Background(), models.CategoryNews, nil, 1)

	assert.NotNil(t, batch.Messages)
	assert.Zero(t, batch.Len())
	assert.Empty(t, *sleeps)
}

func TestValidateInterval(t *testing.T) {
	tests := []struct {
		name    string
		every   time.Duration
		wantErr bool
	}{
		{name: "run once", every: 0},
		{name: "one second", every: time.Second},
		{name: "hourly", every: time.Hour},
		{name: "sub-second reuses run ids", every: 500 * time.Millisecond, wantErr: true},
		{name: "negative", every: -time.Minute, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInterval(tt.every)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIntervalTooShort)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCollect_SetClockAndDelay(t *testing.T) {
	src := &MockSource{Messages: map[string][]models.Message{
		"a": {msg("a", 1, 30*time.Minute, "fresh"), msg("a", 0, 90*time.Minute, "stale")},
	}}
	c, sleeps := newTestCollector(src)
	c.SetClock(func() time.Time { return testNow.Add(time.Hour) })
	c.SetDelay(time.Millisecond)

	batch := c.Collect(context.Background(), models.CategoryTrading, []string{"a"}, 1)

	assert.Empty(t, batch.Messages, "both messages are older than an hour on the shifted clock")
	require.Len(t, src.Since, 1)
	assert.Equal(t, testNow, src.Since[0])
	assert.Equal(t, []time.Duration{time.Millisecond}, *sleeps)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
