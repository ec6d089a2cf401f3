// Package config loads engine options from .lazarus.yaml in the target
// repository.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abdidvp/lazarus/internal/domain"
)

const fileName = ".lazarus.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .lazarus.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .lazarus.yaml from repoPath. Returns the engine defaults when
// the file does not exist.
func (l *YAMLLoader) Load(repoPath string) (domain.Options, error) {
	data, err := os.ReadFile(filepath.Join(repoPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultOptions(), nil
		}
		return domain.Options{}, err
	}

	var opts domain.Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return domain.Options{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	// Validate before merging so typos in the raw input surface.
	if err := opts.Validate(); err != nil {
		return domain.Options{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return opts.WithDefaults(), nil
}
