package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blockedby/crypto-digest/internal/logger"
	"github.com/blockedby/crypto-digest/internal/models"
)

// Store reads and writes the batch files of runs in one directory.
type Store struct {
	dir string
	log *logger.Logger
}

// New creates a store rooted at dir.
func New(dir string, log *logger.Logger) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir, log: log}
}

// Dir returns the directory holding the run files.
func (s *Store) Dir() string {
	return s.dir
}

// BatchPath returns the file name of a category batch of a run.
func (s *Store) BatchPath(runID models.RunID, category models.Category) string {
	return filepath.Join(s.dir, fmt.Sprintf("crypto_%s_messages_%s.csv", category, runID))
}

// WriteBatch persists batch. An empty batch writes no file and returns "".
func (s *Store) WriteBatch(runID models.RunID, batch models.Batch) (string, error) {
	if batch.Len() == 0 {
		s.log.Info().
			Str("run_id", runID.String()).
			Str("category", string(batch.Category)).
			Msg("batch empty, no file written")
		return "", nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	path := s.BatchPath(runID, batch.Category)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := WriteMessages(file, batch.Messages); err != nil {
		file.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	s.log.Info().
		Str("run_id", runID.String()).
		Str("file", path).
		Int("messages", batch.Len()).
		Msg("batch saved")

	return path, nil
}

// ReadBatch loads a category batch of a run. A missing file is an empty batch.
func (s *Store) ReadBatch(runID models.RunID, category models.Category) (models.Batch, error) {
	batch := models.Batch{Category: category, Messages: []models.Message{}}
	path := s.BatchPath(runID, category)

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Str("file", path).Msg("batch file not found")
		return batch, nil
	}
	if err != nil {
		return batch, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	messages, err := ReadMessages(file)
	if err != nil {
		return batch, fmt.Errorf("read %s: %w", path, err)
	}
	batch.Messages = messages

	s.log.Info().
		Str("file", path).
		Int("messages", batch.Len()).
		Msg("batch loaded")

	return batch, nil
}

// Remove deletes the batch files of a run. Each file is removed
// independently; a missing file is not an error. It returns the removed paths.
func (s *Store) Remove(runID models.RunID) []string {
	var removed []string
	for _, category := range models.Categories {
		path := s.BatchPath(runID, category)
		err := os.Remove(path)
		switch {
		case err == nil:
			removed = append(removed, path)
			s.log.Info().Str("file", path).Msg("removed file")
		case errors.Is(err, os.ErrNotExist):
		default:
			s.log.Warn().Err(err).Str("file", path).Msg("failed to remove file")
		}
	}
	return removed
}
