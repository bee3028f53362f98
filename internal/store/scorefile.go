package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ScoreFile keeps the user -> best score mapping in a JSON file.
type ScoreFile struct {
	path string
}

// NewScoreFile returns a ScoreFile backed by path.
func NewScoreFile(path string) *ScoreFile {
	return &ScoreFile{path: path}
}

// Path returns the backing file path.
func (f *ScoreFile) Path() string {
	return f.path
}

// LoadScores reads the mapping. A missing file is an empty mapping.
func (f *ScoreFile) LoadScores(_ context.Context) (map[string]int, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]int{}, nil
		}
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}
	scores := map[string]int{}
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode scores: %w", err)
	}
	return scores, nil
}

// SaveScores rewrites the whole file.
func (f *ScoreFile) SaveScores(_ context.Context, scores map[string]int) error {
	data, err := json.MarshalIndent(scores, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode scores: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create score directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "score-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp score file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write scores: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close score file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("failed to write scores: %w", err)
	}
	return nil
}
