// Package snapshot persists the baseline compilation result between the
// baseline and final proof runs, which may be separate invocations.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/abdidvp/lazarus/internal/domain"
)

// Store is a file-based implementation of domain.SnapshotStore.
type Store struct{}

func New() *Store {
	return &Store{}
}

// LoadBaseline reads the stored baseline snapshot. Returns (nil, nil) when
// no baseline was recorded.
func (s *Store) LoadBaseline(repoPath string) (*domain.BaselineCompilationResult, error) {
	data, err := os.ReadFile(snapshotPath(repoPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var result domain.BaselineCompilationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveBaseline writes the baseline snapshot, creating directories as needed.
func (s *Store) SaveBaseline(repoPath string, result *domain.BaselineCompilationResult) error {
	path := snapshotPath(repoPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Invalidate removes the stored baseline.
func (s *Store) Invalidate(repoPath string) error {
	if err := os.Remove(snapshotPath(repoPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func snapshotPath(repoPath string) string {
	return filepath.Join(repoPath, ".lazarus", "proof", "baseline.json")
}
