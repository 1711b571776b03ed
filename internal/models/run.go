package models

import (
	"errors"
	"fmt"
	"time"
)

// RunIDLayout is the time layout of a run identifier.
const RunIDLayout = "20060102_150405"

// MinRunInterval is the shortest gap between run starts that still yields
// distinct run identifiers.
const MinRunInterval = time.Second

// ErrInvalidRunID is returned when a run identifier does not match RunIDLayout.
var ErrInvalidRunID = errors.New("invalid run id")

// RunID correlates the batch files, summary and report of one pipeline run.
type RunID string

// NewRunID derives a run identifier from the run start time.
func NewRunID(t time.Time) RunID {
	return RunID(t.Format(RunIDLayout))
}

// ParseRunID validates s and returns it as a RunID.
func ParseRunID(s string) (RunID, error) {
	if _, err := time.ParseInLocation(RunIDLayout, s, time.Local); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidRunID, s)
	}
	return RunID(s), nil
}

// String implements fmt.Stringer.
func (r RunID) String() string {
	return string(r)
}

// Time returns the run start time encoded in the identifier.
func (r RunID) Time() (time.Time, error) {
	t, err := time.ParseInLocation(RunIDLayout, string(r), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRunID, string(r))
	}
	return t, nil
}
