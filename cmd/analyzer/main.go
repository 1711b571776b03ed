package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/blockedby/crypto-digest/internal/analyzer"
	"github.com/blockedby/crypto-digest/internal/config"
	"github.com/blockedby/crypto-digest/internal/llm"
	"github.com/blockedby/crypto-digest/internal/logger"
	"github.com/blockedby/crypto-digest/internal/models"
	"github.com/blockedby/crypto-digest/internal/nats"
	"github.com/blockedby/crypto-digest/internal/pipeline"
	"github.com/blockedby/crypto-digest/internal/report"
	"github.com/blockedby/crypto-digest/internal/storage"
)

var (
	aiBackend string
	runID     string
	keepFiles bool
	follow    bool
)

var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Summarize and count the collected messages of a run and write its report",
	Long: `Loads the CSV batches of --run-id, asks the AI backend for a summary,
counts cryptocurrency mentions and writes crypto_analysis_<run-id>.txt.
With --follow it instead consumes run events published by the collector.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&aiBackend, "ai", llm.BackendOpenAI, "AI backend to use (openai|gemini)")
	rootCmd.Flags().StringVar(&runID, "run-id", "", "Run identifier (YYYYMMDD_HHMMSS) of the batches to analyze")
	rootCmd.Flags().BoolVar(&keepFiles, "keep-files", false, "Keep the CSV batch files after analysis")
	rootCmd.Flags().BoolVar(&follow, "follow", false, "Consume run events from NATS instead of analyzing one run")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("analyzer failed", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) (err error) {
	var id models.RunID
	if !follow {
		if id, err = models.ParseRunID(runID); err != nil {
			return fmt.Errorf("--run-id: %w", err)
		}
	}

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup Logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	log := logger.Get()
	log.Info().Bool("follow", follow).Msg("starting analyzer")

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("unexpected failure")
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	// 3. Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	p := pipeline.New(pipeline.Options{
		Store:    storage.New(cfg.DataDir, log),
		Renderer: report.NewRenderer(cfg.DataDir, log),
		Logger:   log,
	})
	summarizers := newSummarizerCache(cfg, log.With("analyzer").Zero())

	if follow {
		return runFollow(ctx, cfg, p, summarizers, log)
	}

	// 4. One run
	summarizer, err := summarizers.get(ctx, aiBackend)
	if err != nil {
		return err
	}

	res, err := p.WithSummarizer(summarizer).Analyze(ctx, id, keepFiles)
	if errors.Is(err, pipeline.ErrNoMessages) {
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Analysis complete! Report saved to: %s\n", res.ReportPath)
	report.WriteTopTable(os.Stdout, res.Counts, 10)
	return nil
}

func runFollow(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, summarizers *summarizerCache, log *logger.Logger) error {
	natsClient, err := nats.New(ctx, cfg.NatsURL)
	if err != nil {
		return err
	}
	defer natsClient.Close()
	log.Info().Msg("connected to nats")

	if err := natsClient.EnsureRunsStream(ctx); err != nil {
		return err
	}

	analyze := func(ctx context.Context, event models.RunCollectedEvent) error {
		summarizer, err := summarizers.get(ctx, event.Backend)
		if err != nil {
			// redelivery cannot fix configuration
			log.Error().Err(err).Str("run_id", event.RunID.String()).Msg("cannot analyze run")
			return nil
		}

		res, err := p.WithSummarizer(summarizer).Analyze(ctx, event.RunID, event.KeepFiles)
		if errors.Is(err, pipeline.ErrNoMessages) {
			return nil
		}
		if err != nil {
			return err
		}

		log.Info().Str("run_id", event.RunID.String()).Str("report", res.ReportPath).Msg("run analyzed")
		return nil
	}

	consumer := analyzer.NewConsumer(natsClient, analyze, log.With("consumer").Zero())
	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	log.Info().Msg("analyzer running, waiting for runs")
	<-ctx.Done()
	logger.Info("analyzer stopped")
	return nil
}

// summarizerCache builds one summarizer per backend name.
type summarizerCache struct {
	mu    sync.Mutex
	cfg   *config.Config
	log   *zerolog.Logger
	cache map[string]*analyzer.Summarizer
}

func newSummarizerCache(cfg *config.Config, log *zerolog.Logger) *summarizerCache {
	return &summarizerCache{cfg: cfg, log: log, cache: make(map[string]*analyzer.Summarizer)}
}

func (c *summarizerCache) get(ctx context.Context, name string) (*analyzer.Summarizer, error) {
	if name == "" {
		name = llm.BackendOpenAI
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.cache[name]; ok {
		return s, nil
	}

	backend, err := llm.NewBackend(ctx, c.cfg, name)
	if err != nil {
		return nil, err
	}
	s := analyzer.NewSummarizer(backend, c.log)
	c.cache[name] = s
	return s, nil
}
