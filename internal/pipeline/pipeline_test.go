package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/crypto-digest/internal/collector"
	"github.com/blockedby/crypto-digest/internal/config"
	"github.com/blockedby/crypto-digest/internal/logger"
	"github.com/blockedby/crypto-digest/internal/models"
	"github.com/blockedby/crypto-digest/internal/report"
	"github.com/blockedby/crypto-digest/internal/storage"
)

var runStart = time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)

// MockCollector returns fixed batches.
type MockCollector struct {
	Trading, News []models.Message
	Calls         int
}

func (m *MockCollector) CollectAll(_ context.Context, _ config.ChannelLists, _ int) (models.Batch, models.Batch) {
	m.Calls++
	return models.Batch{Category: models.CategoryTrading, Messages: m.Trading},
		models.Batch{Category: models.CategoryNews, Messages: m.News}
}

// MockSummarizer returns a fixed summary and records its input.
type MockSummarizer struct {
	mu    sync.Mutex
	Out   string
	Texts []string
	Calls int
}

func (m *MockSummarizer) Summarize(_ context.Context, texts []string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.Texts = texts
	return m.Out
}

// PanickingSummarizer panics on every call.
type PanickingSummarizer struct{}

func (PanickingSummarizer) Summarize(context.Context, []string) string {
	panic("backend blew up")
}

// stubSource serves fixed channel histories, including messages older than the cutoff.
type stubSource map[string][]models.Message

func (s stubSource) FetchMessages(_ context.Context, channel string, _ time.Time) ([]models.Message, error) {
	return s[channel], nil
}

// MockHandoff records published events.
type MockHandoff struct {
	Events []models.RunCollectedEvent
	Err    error
}

func (m *MockHandoff) PublishRunCollected(_ context.Context, e models.RunCollectedEvent) error {
	m.Events = append(m.Events, e)
	return m.Err
}

type fixture struct {
	dir        string
	pipeline   *Pipeline
	collector  *MockCollector
	summarizer *MockSummarizer
}

func newFixture(t *testing.T, trading, news []models.Message) *fixture {
	t.Helper()
	dir := t.TempDir()
	log := logger.Nop()

	renderer := report.NewRenderer(dir, log)
	renderer.SetClock(func() time.Time { return runStart })

	f := &fixture{
		dir:        dir,
		collector:  &MockCollector{Trading: trading, News: news},
		summarizer: &MockSummarizer{Out: "SUMMARY_OK"},
	}
	f.pipeline = New(Options{
		Collector:  f.collector,
		Summarizer: f.summarizer,
		Store:      storage.New(dir, log),
		Renderer:   renderer,
		Channels:   config.ChannelLists{Trading: []string{"t"}, News: []string{"n"}},
		Hours:      1,
		Backend:    "openai",
		Logger:     log,
	})
	f.pipeline.now = func() time.Time { return runStart }
	return f
}

func (f *fixture) exists(t *testing.T, name string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(f.dir, name))
	return err == nil
}

func sample() (trading, news []models.Message) {
	at := runStart.Add(-10 * time.Minute)
	trading = []models.Message{
		{Channel: "t", ID: 2, Date: at, Text: "Bitcoin breaks out"},
		{Channel: "t", ID: 1, Date: at},
	}
	news = []models.Message{
		{Channel: "n", ID: 9, Date: at, Text: "ETH and bitcoin ETFs"},
	}
	return trading, news
}

func TestRun_EndToEnd(t *testing.T) {
	trading, news := sample()
	f := newFixture(t, trading, news)

	res, err := f.pipeline.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.RunID("20240115_120000"), res.Collect.RunID)
	assert.Equal(t, 2, res.Collect.TradingCount)
	assert.Equal(t, 1, res.Collect.NewsCount)
	require.NotNil(t, res.Analysis)
	assert.Nil(t, res.Event)

	assert.Equal(t, []string{"Bitcoin breaks out", "ETH and bitcoin ETFs"}, f.summarizer.Texts)
	assert.Equal(t, 3, res.Analysis.Messages)

	body, err := os.ReadFile(res.Analysis.ReportPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "crypto_analysis_20240115_120000.txt"), res.Analysis.ReportPath)
	assert.Contains(t, string(body), "ANALYSIS SUMMARY\n--------------------\nSUMMARY_OK\n")
	assert.Contains(t, string(body), "BITCOIN (BTC): 2 mentions")
	assert.Contains(t, string(body), "ETHEREUM (ETH): 1 mentions")

	bitcoin, _ := res.Analysis.Counts.Get("bitcoin")
	assert.Equal(t, 2, bitcoin)

	assert.False(t, f.exists(t, "crypto_trading_messages_20240115_120000.csv"))
	assert.False(t, f.exists(t, "crypto_news_messages_20240115_120000.csv"))
	assert.Len(t, res.Analysis.Removed, 2)
}

func TestRun_KeepFiles(t *testing.T) {
	trading, news := sample()
	f := newFixture(t, trading, news)

	collected, err := f.pipeline.Collect(context.Background(), "20240115_120000")
	require.NoError(t, err)

	before, err := os.ReadFile(collected.TradingFile)
	require.NoError(t, err)

	res, err := f.pipeline.Analyze(context.Background(), "20240115_120000", true)
	require.NoError(t, err)
	assert.Empty(t, res.Removed)

	after, err := os.ReadFile(collected.TradingFile)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.True(t, f.exists(t, "crypto_news_messages_20240115_120000.csv"))
}

func TestAnalyze_CleanupOneMissingFile(t *testing.T) {
	trading, _ := sample()
	f := newFixture(t, trading, nil)

	collected, err := f.pipeline.Collect(context.Background(), "20240115_120000")
	require.NoError(t, err)
	assert.Empty(t, collected.NewsFile)

	res, err := f.pipeline.Analyze(context.Background(), "20240115_120000", false)
	require.NoError(t, err)

	assert.Equal(t, []string{collected.TradingFile}, res.Removed)
	assert.FileExists(t, res.ReportPath)
}

func TestRun_NoData(t *testing.T) {
	f := newFixture(t, nil, nil)

	res, err := f.pipeline.Run(context.Background(), RunOptions{})

	assert.ErrorIs(t, err, ErrNoMessages)
	require.NotNil(t, res)
	assert.Nil(t, res.Analysis)
	assert.Zero(t, f.summarizer.Calls)

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no report and no batch files")
}

func TestAnalyze_UnknownRun(t *testing.T) {
	f := newFixture(t, nil, nil)

	_, err := f.pipeline.Analyze(context.Background(), "20200101_000000", false)

	assert.ErrorIs(t, err, ErrNoMessages)
	assert.False(t, f.exists(t, "crypto_analysis_20200101_000000.txt"))
}

func TestAnalyze_SentinelStillRendered(t *testing.T) {
	trading, news := sample()
	f := newFixture(t, trading, news)
	f.summarizer.Out = "Analysis failed due to API limitations. Please try again later."

	res, err := f.pipeline.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	body, err := os.ReadFile(res.Analysis.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Analysis failed due to API limitations")
}

func TestRun_Handoff(t *testing.T) {
	trading, news := sample()
	f := newFixture(t, trading, news)
	handoff := &MockHandoff{}
	f.pipeline.opts.Handoff = handoff

	res, err := f.pipeline.Run(context.Background(), RunOptions{KeepFiles: true})
	require.NoError(t, err)

	assert.Nil(t, res.Analysis)
	require.Len(t, handoff.Events, 1)
	e := handoff.Events[0]
	assert.Equal(t, models.RunID("20240115_120000"), e.RunID)
	assert.Equal(t, "openai", e.Backend)
	assert.True(t, e.KeepFiles)
	assert.Equal(t, 2, e.TradingCount)
	assert.Equal(t, 1, e.NewsCount)
	assert.Zero(t, f.summarizer.Calls, "analysis happens in the consumer")
	assert.True(t, f.exists(t, "crypto_trading_messages_20240115_120000.csv"))
}

func TestRun_HandoffFails(t *testing.T) {
	trading, news := sample()
	f := newFixture(t, trading, news)
	f.pipeline.opts.Handoff = &MockHandoff{Err: errors.New("nats down")}

	_, err := f.pipeline.Run(context.Background(), RunOptions{})

	assert.ErrorContains(t, err, "HANDOFF")
	assert.ErrorContains(t, err, "nats down")
}

func TestWithSummarizer(t *testing.T) {
	trading, news := sample()
	f := newFixture(t, trading, news)
	other := &MockSummarizer{Out: "OTHER"}

	_, err := f.pipeline.Collect(context.Background(), "20240115_120000")
	require.NoError(t, err)

	res, err := f.pipeline.WithSummarizer(other).Analyze(context.Background(), "20240115_120000", true)
	require.NoError(t, err)

	assert.Equal(t, "OTHER", res.Summary)
	assert.Zero(t, f.summarizer.Calls)
	assert.Equal(t, 1, other.Calls)
}

func TestRun_EndToEndWithCollector(t *testing.T) {
	dir := t.TempDir()
	log := logger.Nop()
	in := runStart.Add(-10 * time.Minute)
	src := stubSource{
		"alpha": {
			{Channel: "alpha", ID: 4, Date: in, Text: "SOL pumps"},
			{Channel: "alpha", ID: 3, Date: in, Text: "XRP"},
			{Channel: "alpha", ID: 2, Date: in, Text: "solana and xrp"},
			{Channel: "alpha", ID: 1, Date: runStart.Add(-3 * time.Hour), Text: "ETH ETF approved"},
		},
		"beta": {
			{Channel: "beta", ID: 2, Date: in, Text: "BNB"},
			{Channel: "beta", ID: 1, Date: in, Text: "bnb chain"},
		},
	}

	c := collector.New(src, log)
	c.SetClock(func() time.Time { return runStart })
	c.SetDelay(0)

	renderer := report.NewRenderer(dir, log)
	renderer.SetClock(func() time.Time { return runStart })
	summarizer := &MockSummarizer{Out: "SUMMARY_OK"}

	p := New(Options{
		Collector:  c,
		Summarizer: summarizer,
		Store:      storage.New(dir, log),
		Renderer:   renderer,
		Channels:   config.ChannelLists{Trading: []string{"alpha"}, News: []string{"@beta"}},
		Hours:      1,
		Logger:     log,
	})
	p.now = func() time.Time { return runStart }

	res, err := p.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Collect.TradingCount)
	assert.Equal(t, 2, res.Collect.NewsCount)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, 5, res.Analysis.Messages)
	assert.NotContains(t, summarizer.Texts, "ETH ETF approved")

	body, err := os.ReadFile(res.Analysis.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), "SUMMARY_OK")

	want := map[string]int{"solana": 3, "xrp": 4, "bnb": 4}
	for _, item := range res.Analysis.Counts.Items() {
		assert.Equal(t, want[item.Name], item.Mentions, item.Name)
	}
}

func TestAnalyze_SummarizerPanicIsReturned(t *testing.T) {
	trading, news := sample()
	f := newFixture(t, trading, news)

	_, err := f.pipeline.Collect(context.Background(), "20240115_120000")
	require.NoError(t, err)

	var res *AnalyzeResult
	require.NotPanics(t, func() {
		res, err = f.pipeline.WithSummarizer(PanickingSummarizer{}).Analyze(context.Background(), "20240115_120000", false)
	})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrStagePanic)
	assert.ErrorContains(t, err, "SUMMARIZE")
	assert.ErrorContains(t, err, "backend blew up")
	assert.False(t, f.exists(t, "crypto_analysis_20240115_120000.txt"))
	assert.True(t, f.exists(t, "crypto_trading_messages_20240115_120000.csv"), "batches survive a failed analysis")
}

func TestGuard(t *testing.T) {
	err := guard(StageCount, func() { panic("boom") })()

	var se *stageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageCount, se.stage)
	assert.ErrorIs(t, err, ErrStagePanic)

	assert.NoError(t, guard(StageCount, func() {})())
}
