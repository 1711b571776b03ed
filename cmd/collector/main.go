package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blockedby/crypto-digest/internal/analyzer"
	"github.com/blockedby/crypto-digest/internal/collector"
	"github.com/blockedby/crypto-digest/internal/config"
	"github.com/blockedby/crypto-digest/internal/llm"
	"github.com/blockedby/crypto-digest/internal/logger"
	"github.com/blockedby/crypto-digest/internal/nats"
	"github.com/blockedby/crypto-digest/internal/pipeline"
	"github.com/blockedby/crypto-digest/internal/publisher"
	"github.com/blockedby/crypto-digest/internal/report"
	"github.com/blockedby/crypto-digest/internal/scheduler"
	"github.com/blockedby/crypto-digest/internal/storage"
	"github.com/blockedby/crypto-digest/internal/telegram"
)

const (
	handoffLocal = "local"
	handoffNATS  = "nats"
)

var (
	hours        int
	aiBackend    string
	keepFiles    bool
	handoff      string
	every        time.Duration
	channelsFile string
)

var rootCmd = &cobra.Command{
	Use:   "collector",
	Short: "Collect recent crypto channel messages and produce an analysis report",
	Long: `Collects the last --hours of messages from the trading and news channel
lists, saves them as CSV batches and analyzes them with the selected AI
backend, either in-process or by handing the run to the analyzer over NATS.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().IntVar(&hours, "hours", 1, "Number of hours of history to collect")
	rootCmd.Flags().StringVar(&aiBackend, "ai", llm.BackendOpenAI, "AI backend to use (openai|gemini)")
	rootCmd.Flags().BoolVar(&keepFiles, "keep-files", false, "Keep the CSV batch files after analysis")
	rootCmd.Flags().StringVar(&handoff, "handoff", handoffLocal, "Where to analyze the run (local|nats)")
	rootCmd.Flags().DurationVar(&every, "every", 0, "Repeat the run at this interval (0 = run once)")
	rootCmd.Flags().StringVar(&channelsFile, "channels", "", "YAML file with trading and news channel lists (default: built-in lists)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("collector failed", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) (err error) {
	if err := collector.ValidateHours(hours); err != nil {
		return err
	}
	if err := collector.ValidateInterval(every); err != nil {
		return fmt.Errorf("invalid --every: %w", err)
	}
	if handoff != handoffLocal && handoff != handoffNATS {
		return fmt.Errorf("invalid --handoff %q: must be %s or %s", handoff, handoffLocal, handoffNATS)
	}

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	log := logger.Get()
	log.Info().Int("hours", hours).Str("ai", aiBackend).Str("handoff", handoff).Msg("starting collector")

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

	// 4. Channel lists
	if err := cfg.ValidateTelegram(); err != nil {
		return err
	}
	if channelsFile == "" {
		channelsFile = cfg.ChannelsFile
	}
	lists, err := config.LoadChannels(channelsFile)
	if err != nil {
		return err
	}
	log.Info().Int("trading", len(lists.Trading)).Int("news", len(lists.News)).Msg("channel lists loaded")

	opts := pipeline.Options{
		Store:    storage.New(cfg.DataDir, log),
		Renderer: report.NewRenderer(cfg.DataDir, log),
		Channels: *lists,
		Hours:    hours,
		Backend:  aiBackend,
		Logger:   log,
	}

	// 5. Analysis stage: in-process backend or NATS handoff
	switch handoff {
	case handoffLocal:
		backend, err := llm.NewBackend(ctx, cfg, aiBackend)
		if err != nil {
			return err
		}
		opts.Summarizer = analyzer.NewSummarizer(backend, log.With("analyzer").Zero())
	case handoffNATS:
		nc, err := nats.New(ctx, cfg.NatsURL)
		if err != nil {
			return err
		}
		defer nc.Close()
		if err := nc.EnsureRunsStream(ctx); err != nil {
			return err
		}
		opts.Handoff = publisher.NewNATSPublisher(nc)
		log.Info().Msg("connected to nats")
	}

	// 6. Telegram
	tgManager := telegram.NewManager(cfg)
	if err := tgManager.Start(ctx); err != nil {
		return fmt.Errorf("start telegram client: %w", err)
	}
	tgClient := telegram.NewClient(tgManager)
	defer tgClient.Close()

	opts.Collector = collector.New(tgClient, log.With("collector"))
	p := pipeline.New(opts)

	runOnce := func(ctx context.Context) error {
		res, err := p.Run(ctx, pipeline.RunOptions{KeepFiles: keepFiles})
		return printResult(res, err)
	}

	if every == 0 {
		return runOnce(ctx)
	}

	// 7. Periodic runs
	sched, err := scheduler.New(log)
	if err != nil {
		return err
	}
	if err := sched.Every(ctx, "collect", every, func(ctx context.Context) {
		if err := runOnce(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled run failed")
		}
	}); err != nil {
		return err
	}
	return sched.Run(ctx)
}

func printResult(res *pipeline.RunResult, err error) error {
	if errors.Is(err, pipeline.ErrNoMessages) {
		// logged by the pipeline; not a failure
		return nil
	}
	if err != nil {
		return err
	}

	if res.Event != nil {
		fmt.Printf("Run %s handed off to the analyzer (event %s)\n", res.Collect.RunID, res.Event.EventID)
		return nil
	}

	fmt.Printf("Analysis complete! Report saved to: %s\n", res.Analysis.ReportPath)
	report.WriteTopTable(os.Stdout, res.Analysis.Counts, 10)
	return nil
}
