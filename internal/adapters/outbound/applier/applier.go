// Package applier executes fix strategies against the working tree:
// manifest edits, lockfile deletion, and reinstalls with relaxed flags.
package applier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/abdidvp/lazarus/internal/domain"
)

// CommandRunner abstracts the install subprocess so tests can stub it out.
type CommandRunner interface {
	Run(ctx context.Context, dir, command string) error
}

// Applier implements domain.FixApplier.
type Applier struct {
	runner CommandRunner
}

func New() *Applier {
	return &Applier{runner: execRunner{}}
}

// NewWithRunner injects a custom command runner. Tests use this to avoid
// invoking a real package manager.
func NewWithRunner(r CommandRunner) *Applier {
	return &Applier{runner: r}
}

// Apply executes one fix strategy. Manifest edits are followed by a fresh
// install so the next compile observes the change.
func (a *Applier) Apply(ctx context.Context, repoPath string, pm domain.PackageManager, strategy domain.FixStrategy) error {
	switch strategy.Kind {
	case domain.StrategyAdjustVersion:
		if err := editManifest(repoPath, func(m manifestDoc) {
			m.setDependency(strategy.Package, strategy.NewVersion)
		}); err != nil {
			return err
		}
		return a.install(ctx, repoPath, pm, "")

	case domain.StrategySubstitutePackage:
		if err := editManifest(repoPath, func(m manifestDoc) {
			version := m.removeDependency(strategy.Package)
			if version == "" {
				version = "latest"
			}
			m.setDependency(strategy.Replacement, version)
		}); err != nil {
			return err
		}
		return a.install(ctx, repoPath, pm, "")

	case domain.StrategyRemovePackage:
		if err := editManifest(repoPath, func(m manifestDoc) {
			m.removeDependency(strategy.Package)
		}); err != nil {
			return err
		}
		return a.install(ctx, repoPath, pm, "")

	case domain.StrategyAddResolution:
		if err := editManifest(repoPath, func(m manifestDoc) {
			m.addResolution(pm, strategy.Package, strategy.NewVersion)
		}); err != nil {
			return err
		}
		return a.install(ctx, repoPath, pm, "")

	case domain.StrategyRemoveLockfile:
		lf := strategy.Lockfile
		if lf == "" {
			lf = pm.Lockfile()
		}
		if err := os.Remove(filepath.Join(repoPath, lf)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", lf, err)
		}
		return a.install(ctx, repoPath, pm, "")

	case domain.StrategyLegacyPeerDeps:
		return a.install(ctx, repoPath, pm, legacyPeerFlag(pm))

	case domain.StrategyForceInstall:
		return a.install(ctx, repoPath, pm, "--force")

	default:
		return fmt.Errorf("unknown fix strategy %q", strategy.Kind)
	}
}

func (a *Applier) install(ctx context.Context, repoPath string, pm domain.PackageManager, flag string) error {
	command := string(pm) + " install"
	if flag != "" {
		command += " " + flag
	}
	if err := a.runner.Run(ctx, repoPath, command); err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}

func legacyPeerFlag(pm domain.PackageManager) string {
	switch pm {
	case domain.PMPnpm:
		return "--config.strict-peer-dependencies=false"
	case domain.PMYarn:
		// yarn classic treats peer mismatches as warnings already.
		return ""
	default:
		return "--legacy-peer-deps"
	}
}

// manifestDoc is the parsed package.json. Editing through a generic map
// preserves fields we do not model.
type manifestDoc map[string]any

var dependencySections = []string{"dependencies", "devDependencies", "optionalDependencies"}

func editManifest(repoPath string, edit func(manifestDoc)) error {
	path := filepath.Join(repoPath, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	var doc manifestDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}

	edit(doc)

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// setDependency updates the section already declaring the package, or adds
// it to dependencies when absent everywhere.
func (m manifestDoc) setDependency(pkg, version string) {
	for _, section := range dependencySections {
		if deps, ok := m[section].(map[string]any); ok {
			if _, declared := deps[pkg]; declared {
				deps[pkg] = version
				return
			}
		}
	}
	deps, ok := m["dependencies"].(map[string]any)
	if !ok {
		deps = map[string]any{}
		m["dependencies"] = deps
	}
	deps[pkg] = version
}

// removeDependency drops the package from every section, returning the last
// version constraint it was declared with.
func (m manifestDoc) removeDependency(pkg string) string {
	var version string
	for _, section := range dependencySections {
		if deps, ok := m[section].(map[string]any); ok {
			if v, declared := deps[pkg]; declared {
				if s, ok := v.(string); ok {
					version = s
				}
				delete(deps, pkg)
			}
		}
	}
	return version
}

// addResolution pins a transitive dependency: npm spells it "overrides",
// yarn and pnpm spell it "resolutions".
func (m manifestDoc) addResolution(pm domain.PackageManager, pkg, version string) {
	section := "resolutions"
	if pm == domain.PMNpm {
		section = "overrides"
	}
	res, ok := m[section].(map[string]any)
	if !ok {
		res = map[string]any{}
		m[section] = res
	}
	res[pkg] = version
}

// execRunner runs install commands through the shell.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%v: %s", err, truncate(string(out), 2048))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
