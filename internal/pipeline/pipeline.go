// Package pipeline runs the collect, analyze and report stages of a run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/blockedby/crypto-digest/internal/config"
	"github.com/blockedby/crypto-digest/internal/logger"
	"github.com/blockedby/crypto-digest/internal/mentions"
	"github.com/blockedby/crypto-digest/internal/models"
	"github.com/blockedby/crypto-digest/internal/report"
	"github.com/blockedby/crypto-digest/internal/storage"
)

// ErrNoMessages is returned when a run has no collected messages to analyze.
var ErrNoMessages = errors.New("no messages to analyze")

// ErrStagePanic is returned when a concurrent stage panics.
var ErrStagePanic = errors.New("stage panicked")

// Stage names a step of a run.
type Stage string

// Stage constants in execution order.
const (
	StageInit      Stage = "INIT"
	StageCollect   Stage = "COLLECT"
	StagePersist   Stage = "PERSIST"
	StageHandoff   Stage = "HANDOFF"
	StageLoad      Stage = "LOAD"
	StageSummarize Stage = "SUMMARIZE"
	StageCount     Stage = "COUNT"
	StageRender    Stage = "RENDER"
	StageCleanup   Stage = "CLEANUP"
	StageDone      Stage = "DONE"
	StageFailed    Stage = "FAILED"
)

// Collector gathers both category batches.
type Collector interface {
	CollectAll(ctx context.Context, lists config.ChannelLists, hours int) (trading, news models.Batch)
}

// Summarizer produces the summary text. It never fails; exhaustion yields a sentinel.
type Summarizer interface {
	Summarize(ctx context.Context, texts []string) string
}

// Handoff announces a collected run to a separate analyzer.
type Handoff interface {
	PublishRunCollected(ctx context.Context, event models.RunCollectedEvent) error
}

// Options wires a Pipeline.
type Options struct {
	Collector  Collector
	Summarizer Summarizer
	Handoff    Handoff
	Store      *storage.Store
	Renderer   *report.Renderer
	Dictionary mentions.Dictionary
	Channels   config.ChannelLists
	Hours      int
	Backend    string
	Logger     *logger.Logger
}

// Pipeline owns the lifecycle of runs.
type Pipeline struct {
	opts Options
	now  func() time.Time
	log  *logger.Logger
}

// New creates a pipeline. Dictionary defaults to the built-in one.
func New(opts Options) *Pipeline {
	if opts.Dictionary.Len() == 0 {
		opts.Dictionary = mentions.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Pipeline{opts: opts, now: time.Now, log: opts.Logger}
}

// WithSummarizer returns a copy of p using s.
func (p *Pipeline) WithSummarizer(s Summarizer) *Pipeline {
	cp := *p
	cp.opts.Summarizer = s
	return &cp
}

// CollectResult describes the persisted batches of a run.
type CollectResult struct {
	RunID        models.RunID
	TradingFile  string
	NewsFile     string
	TradingCount int
	NewsCount    int
}

// Collect fetches both channel lists and persists the batches.
func (p *Pipeline) Collect(ctx context.Context, runID models.RunID) (*CollectResult, error) {
	log := p.runLogger(runID)

	stage(log, StageCollect).Int("hours", p.opts.Hours).Int("channels", p.opts.Channels.Total()).Msg("collecting")
	trading, news := p.opts.Collector.CollectAll(ctx, p.opts.Channels, p.opts.Hours)

	stage(log, StagePersist).Msg("persisting batches")
	res := &CollectResult{
		RunID:        runID,
		TradingCount: trading.Len(),
		NewsCount:    news.Len(),
	}

	var err error
	if res.TradingFile, err = p.opts.Store.WriteBatch(runID, trading); err != nil {
		return nil, p.fail(log, StagePersist, err)
	}
	if res.NewsFile, err = p.opts.Store.WriteBatch(runID, news); err != nil {
		return nil, p.fail(log, StagePersist, err)
	}

	log.Info().
		Int("trading", res.TradingCount).
		Int("news", res.NewsCount).
		Msg("collection finished")

	return res, nil
}

// AnalyzeResult describes the report of a run.
type AnalyzeResult struct {
	RunID      models.RunID
	Messages   int
	Summary    string
	Counts     mentions.Counts
	ReportPath string
	Removed    []string
}

// Analyze loads the batches of a run, summarizes and counts them concurrently,
// writes the report and removes the batch files unless keepFiles is set.
// It returns ErrNoMessages, and touches nothing, when both batches are empty or absent.
func (p *Pipeline) Analyze(ctx context.Context, runID models.RunID, keepFiles bool) (*AnalyzeResult, error) {
	log := p.runLogger(runID)

	stage(log, StageLoad).Msg("loading batches")
	var messages []models.Message
	for _, category := range models.Categories {
		batch, err := p.opts.Store.ReadBatch(runID, category)
		if err != nil {
			return nil, p.fail(log, StageLoad, err)
		}
		messages = append(messages, batch.Messages...)
	}

	if len(messages) == 0 {
		log.Error().Str("stage", string(StageLoad)).Msg("no messages found to analyze")
		return nil, ErrNoMessages
	}

	if p.opts.Summarizer == nil {
		return nil, p.fail(log, StageSummarize, errors.New("no summarizer configured"))
	}

	res := &AnalyzeResult{RunID: runID, Messages: len(messages)}
	texts := models.Texts(messages)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard(StageSummarize, func() {
		stage(log, StageSummarize).Int("texts", len(texts)).Msg("summarizing")
		res.Summary = p.opts.Summarizer.Summarize(gctx, texts)
	}))
	g.Go(guard(StageCount, func() {
		stage(log, StageCount).Int("messages", len(messages)).Msg("counting mentions")
		res.Counts = mentions.CountMessages(messages, p.opts.Dictionary)
	}))
	if err := g.Wait(); err != nil {
		s := StageSummarize
		var se *stageError
		if errors.As(err, &se) {
			s, err = se.stage, se.err
		}
		return nil, p.fail(log, s, err)
	}

	stage(log, StageRender).Msg("rendering report")
	path, err := p.opts.Renderer.Render(runID, res.Summary, res.Counts)
	if err != nil {
		return nil, p.fail(log, StageRender, err)
	}
	res.ReportPath = path

	if keepFiles {
		log.Info().Msg("keeping batch files")
	} else {
		stage(log, StageCleanup).Msg("removing batch files")
		res.Removed = p.opts.Store.Remove(runID)
	}

	stage(log, StageDone).Str("report", path).Msg("analysis complete")
	return res, nil
}

// RunOptions controls a full run.
type RunOptions struct {
	KeepFiles bool
}

// RunResult describes a full run. Analysis is nil when the run was handed off.
type RunResult struct {
	Collect  *CollectResult
	Analysis *AnalyzeResult
	Event    *models.RunCollectedEvent
}

// Run starts a new run: collect and persist, then either hand the run off or
// analyze it in-process with the same run id.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	runID := models.NewRunID(p.now())
	log := p.runLogger(runID)
	stage(log, StageInit).Bool("keep_files", opts.KeepFiles).Msg("run started")

	collected, err := p.Collect(ctx, runID)
	if err != nil {
		return nil, err
	}
	res := &RunResult{Collect: collected}

	if p.opts.Handoff != nil {
		event := models.NewRunCollectedEvent(runID, p.opts.Backend, opts.KeepFiles, collected.TradingCount, collected.NewsCount)
		stage(log, StageHandoff).Str("event_id", event.EventID.String()).Msg("handing run off")
		if err := p.opts.Handoff.PublishRunCollected(ctx, event); err != nil {
			return res, p.fail(log, StageHandoff, err)
		}
		res.Event = &event
		return res, nil
	}

	res.Analysis, err = p.Analyze(ctx, runID, opts.KeepFiles)
	return res, err
}

func (p *Pipeline) runLogger(runID models.RunID) *zerolog.Logger {
	l := p.log.Logger.With().Str("run_id", runID.String()).Logger()
	return &l
}

func (p *Pipeline) fail(log *zerolog.Logger, s Stage, err error) error {
	log.Error().Err(err).Str("stage", string(s)).Str("state", string(StageFailed)).Msg("run failed")
	return fmt.Errorf("%s: %w", s, err)
}

type stageError struct {
	stage Stage
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }

func (e *stageError) Unwrap() error { return e.err }

// guard runs fn as an errgroup task, turning a panic into an error
// tagged with the stage it happened in.
func guard(s Stage, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &stageError{stage: s, err: fmt.Errorf("%w: %v", ErrStagePanic, r)}
			}
		}()
		fn()
		return nil
	}
}

func stage(log *zerolog.Logger, s Stage) *zerolog.Event {
	return log.Info().Str("stage", string(s))
}
