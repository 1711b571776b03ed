// Package analyzer turns collected messages into an AI summary and consumes
// run handoff events.
package analyzer

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/blockedby/crypto-digest/internal/llm"
)

// Retry policy of the summary request.
const (
	MaxAttempts = 3
	RetryDelay  = 60 * time.Second
)

// SentinelSummary is returned when every attempt failed.
const SentinelSummary = "Analysis failed due to API limitations. Please try again later."

// Summarizer asks a backend for a summary, retrying with a constant delay.
type Summarizer struct {
	backend     llm.Backend
	maxAttempts int
	delay       time.Duration
	timer       backoff.Timer
	log         *zerolog.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithTimer replaces the wall clock timer used between attempts.
func WithTimer(t backoff.Timer) Option {
	return func(s *Summarizer) { s.timer = t }
}

// WithRetryDelay overrides RetryDelay.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Summarizer) { s.delay = d }
}

// WithMaxAttempts overrides MaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewSummarizer creates a Summarizer over backend.
func NewSummarizer(backend llm.Backend, log *zerolog.Logger, opts ...Option) *Summarizer {
	s := &Summarizer{
		backend:     backend,
		maxAttempts: MaxAttempts,
		delay:       RetryDelay,
		log:         log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the name of the underlying backend.
func (s *Summarizer) Backend() string {
	return s.backend.Name()
}

// Summarize returns the backend's analysis of texts, or SentinelSummary once
// all attempts have failed. It never returns an error.
func (s *Summarizer) Summarize(ctx context.Context, texts []string) string {
	var (
		summary string
		attempt int
	)

	operation := func() error {
		attempt++
		s.log.Info().
			Str("backend", s.backend.Name()).
			Int("attempt", attempt).
			Int("messages", len(texts)).
			Msg("requesting summary")

		out, err := s.backend.Summarize(ctx, texts)
		if err != nil {
			s.log.Error().Err(err).
				Str("backend", s.backend.Name()).
				Int("attempt", attempt).
				Msg("summary attempt failed")
			return err
		}
		summary = out
		return nil
	}

	notify := func(_ error, wait time.Duration) {
		s.log.Info().Dur("wait", wait).Msg("retrying summary")
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.delay), uint64(s.maxAttempts-1)),
		ctx,
	)

	if err := backoff.RetryNotifyWithTimer(operation, policy, notify, s.timer); err != nil {
		s.log.Error().Err(err).
			Str("backend", s.backend.Name()).
			Int("attempts", attempt).
			Msg("all summary attempts failed")
		return SentinelSummary
	}

	return summary
}
