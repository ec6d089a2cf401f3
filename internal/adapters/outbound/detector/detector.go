// Package detector decides how a repository should be verified: which build
// strategy applies, which command runs it, and how long it may take.
package detector

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/abdidvp/lazarus/internal/domain"
)

// Per-strategy timeouts: type-checking is much cheaper than a full build.
const (
	typecheckTimeoutMs = 120_000
	buildTimeoutMs     = 300_000
)

// bundlerConfigs are probed in order; the first present file wins.
var bundlerConfigs = []struct {
	file    string
	command string
}{
	{"webpack.config.js", "npx webpack"},
	{"webpack.config.ts", "npx webpack"},
	{"vite.config.js", "npx vite build"},
	{"vite.config.ts", "npx vite build"},
	{"rollup.config.js", "npx rollup -c"},
	{"rollup.config.mjs", "npx rollup -c"},
}

// StrategyDetector implements domain.StrategyDetector for Node projects.
type StrategyDetector struct{}

func New() *StrategyDetector {
	return &StrategyDetector{}
}

// Detect applies the strategy rules in fixed precedence: a dedicated
// type-checker config wins, then a bundler config, then a declared build
// script, else custom (generic build when one exists, otherwise the check
// is vacuous).
func (d *StrategyDetector) Detect(repoPath string, pm domain.PackageManager) (domain.ProjectProbe, error) {
	manifest, err := readManifest(repoPath)
	if err != nil {
		return domain.ProjectProbe{}, err
	}

	probe := domain.ProjectProbe{
		Kind:           detectKind(repoPath, manifest),
		HasBuildScript: manifest.Scripts["build"] != "",
	}

	if exists(repoPath, "tsconfig.json") {
		probe.BuildStrategy = domain.StrategyTypecheck
		probe.BuildCommand = "npx tsc --noEmit"
		probe.TimeoutMs = typecheckTimeoutMs
		return probe, nil
	}

	for _, bc := range bundlerConfigs {
		if !exists(repoPath, bc.file) {
			continue
		}
		probe.BuildStrategy = domain.StrategyBundler
		if probe.HasBuildScript {
			probe.BuildCommand = runScript(pm, "build")
		} else {
			probe.BuildCommand = bc.command
		}
		probe.TimeoutMs = buildTimeoutMs
		return probe, nil
	}

	if probe.HasBuildScript {
		probe.BuildStrategy = domain.StrategyBuildScript
		probe.BuildCommand = runScript(pm, "build")
		probe.TimeoutMs = buildTimeoutMs
		return probe, nil
	}

	probe.BuildStrategy = domain.StrategyCustom
	probe.TimeoutMs = buildTimeoutMs
	return probe, nil
}

type manifest struct {
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func readManifest(repoPath string) (manifest, error) {
	var m manifest
	data, err := os.ReadFile(filepath.Join(repoPath, "package.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil // no manifest: custom strategy, vacuous checks
		}
		return m, err
	}
	// A corrupt manifest is itself a build problem; report what we can.
	_ = json.Unmarshal(data, &m)
	return m, nil
}

func detectKind(repoPath string, m manifest) domain.ProjectKind {
	if exists(repoPath, "tsconfig.json") {
		return domain.KindTypeScript
	}
	if _, ok := m.Dependencies["typescript"]; ok {
		return domain.KindTypeScript
	}
	if _, ok := m.DevDependencies["typescript"]; ok {
		return domain.KindTypeScript
	}
	return domain.KindJavaScript
}

func runScript(pm domain.PackageManager, script string) string {
	if pm == domain.PMYarn {
		return "yarn " + script
	}
	return string(pm) + " run " + script
}

func exists(repoPath, name string) bool {
	_, err := os.Stat(filepath.Join(repoPath, name))
	return err == nil
}
