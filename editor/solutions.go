package editor

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

type (
	// SolutionRecord is one entry in the generation history database.
	SolutionRecord struct {
		Name      string `json:"name"`
		Path      string `json:"path"`
		Timestamp string `json:"timestamp"`
	}

	// SolutionStore keeps the generation history as a JSON array on disk.
	// The file is small and append-only in practice, so every append
	// rewrites the whole array.
	SolutionStore struct {
		path string
	}
)

func NewSolutionStore(path string) *SolutionStore {
	return &SolutionStore{path: path}
}

func (s *SolutionStore) Path() string { return s.path }

// Records reads the history from disk. A missing file is an empty history,
// not an error.
func (s *SolutionStore) Records() ([]SolutionRecord, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var records []SolutionRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Append adds one record and rewrites the database file.
func (s *SolutionStore) Append(r SolutionRecord) error {
	records, err := s.Records()
	if err != nil {
		return err
	}
	records = append(records, r)
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, out, 0644)
}
