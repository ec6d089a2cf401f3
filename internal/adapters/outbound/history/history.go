// Package history persists per-repository fix memory as JSON under the
// repository's .lazarus directory.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/abdidvp/lazarus/internal/domain"
)

const historyFile = ".lazarus/history/fixes.json"

// FileHistory implements domain.HistoryStore using JSON file storage.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

// Load reads the repository's fix history, returning an empty history
// (never nil) when no record exists yet.
func (h *FileHistory) Load(repoPath string) (*domain.FixHistory, error) {
	data, err := os.ReadFile(filepath.Join(repoPath, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.FixHistory{RepoID: RepoID(repoPath)}, nil
		}
		return nil, err
	}

	var hist domain.FixHistory
	if err := json.Unmarshal(data, &hist); err != nil {
		return nil, err
	}
	if hist.RepoID == "" {
		hist.RepoID = RepoID(repoPath)
	}
	return &hist, nil
}

// Save writes the history back, creating directories as needed.
func (h *FileHistory) Save(repoPath string, hist *domain.FixHistory) error {
	if hist.RepoID == "" {
		hist.RepoID = RepoID(repoPath)
	}

	fp := filepath.Join(repoPath, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(hist, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fp, data, 0644)
}

// RepoID derives a stable repository identity from its absolute path.
func RepoID(repoPath string) string {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		abs = repoPath
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:6])
}
