package models

import (
	"time"

	"github.com/google/uuid"
)

// RunCollectedEvent announces that the batch files of a run are ready for analysis.
type RunCollectedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	RunID        RunID     `json:"run_id"`
	Backend      string    `json:"backend"`
	KeepFiles    bool      `json:"keep_files"`
	TradingCount int       `json:"trading_count"`
	NewsCount    int       `json:"news_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewRunCollectedEvent creates an event with a fresh id.
func NewRunCollectedEvent(runID RunID, backend string, keepFiles bool, trading, news int) RunCollectedEvent {
	return RunCollectedEvent{
		EventID:      uuid.New(),
		RunID:        runID,
		Backend:      backend,
		KeepFiles:    keepFiles,
		TradingCount: trading,
		NewsCount:    news,
		CreatedAt:    time.Now(),
	}
}
