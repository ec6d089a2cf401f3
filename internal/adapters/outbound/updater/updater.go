// Package updater installs one planned dependency change and commits it, so
// batch execution can roll back exactly that change on failure.
package updater

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/gitops"
	"github.com/abdidvp/lazarus/internal/domain"
)

// CommandRunner abstracts the install subprocess so tests can stub it out.
type CommandRunner interface {
	Run(ctx context.Context, dir, command string) error
}

// Updater implements domain.DependencyUpdater.
type Updater struct {
	runner CommandRunner
	git    *gitops.GitOps
}

func New() *Updater {
	return &Updater{runner: execRunner{}, git: gitops.New()}
}

// NewWithRunner injects a custom command runner for tests.
func NewWithRunner(r CommandRunner) *Updater {
	return &Updater{runner: r, git: gitops.New()}
}

// Update installs the target version and commits the resulting manifest and
// lockfile changes as a single commit.
func (u *Updater) Update(ctx context.Context, repoPath string, pm domain.PackageManager, item domain.ResurrectionPlanItem) error {
	command := installCommand(pm, item.PackageName, item.TargetVersion)
	if err := u.runner.Run(ctx, repoPath, command); err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}

	message := fmt.Sprintf("chore(deps): bump %s from %s to %s",
		item.PackageName, item.CurrentVersion, item.TargetVersion)
	if _, err := u.git.CommitAll(repoPath, message); err != nil {
		return fmt.Errorf("committing update of %s: %w", item.PackageName, err)
	}
	return nil
}

func installCommand(pm domain.PackageManager, pkg, version string) string {
	spec := pkg + "@" + version
	switch pm {
	case domain.PMYarn:
		return "yarn add " + spec
	case domain.PMPnpm:
		return "pnpm add " + spec
	default:
		return "npm install " + spec
	}
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%v: %s", err, firstBytes(out, 2048))
	}
	return nil
}

func firstBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
