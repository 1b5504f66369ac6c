package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/genricoloni/playtime/internal/domain"
	"go.uber.org/zap"
)

// FileStore keeps the tracking record in a single JSON file
type FileStore struct {
	logger *zap.Logger
	path   string
}

// NewFileStore creates a store backed by the configured data file
func NewFileStore(logger *zap.Logger, cfg domain.Config) *FileStore {
	return &FileStore{
		logger: logger,
		path:   cfg.GetDataFile(),
	}
}

// Path returns the backing file location
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the record from disk, falling back to defaults.
// Keys present in the file replace the defaults; missing keys keep them.
func (s *FileStore) Load() domain.Record {
	rec := domain.DefaultRecord()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("No existing data file found, starting fresh", zap.String("path", s.path))
			return rec
		}
		s.logger.Error("Failed to read data file", zap.String("path", s.path), zap.Error(err))
		return domain.DefaultRecord()
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Error("Failed to parse data file, using defaults",
			zap.String("path", s.path),
			zap.Error(err))
		return domain.DefaultRecord()
	}

	s.logger.Info("Data loaded successfully",
		zap.String("path", s.path),
		zap.Int64("counter", rec.GlobalCounter),
		zap.Bool("playing", rec.IsCurrentlyPlaying))
	return rec
}

// Save overwrites the data file with rec.
// The file is written to a temp sibling and renamed so a failed write
// never leaves a truncated record behind.
func (s *FileStore) Save(rec domain.Record) error {
	if err := s.write(rec); err != nil {
		s.logger.Error("Failed to save data", zap.String("path", s.path), zap.Error(err))
		return err
	}
	s.logger.Debug("Data saved successfully", zap.String("path", s.path))
	return nil
}

func (s *FileStore) write(rec domain.Record) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}
