// Package compiler runs the target repository's build/verify command as a
// bounded subprocess.
package compiler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/abdidvp/lazarus/internal/domain"
)

// maxOutputBytes caps captured output per stream so chatty tools cannot
// exhaust memory.
const maxOutputBytes = 1 << 20

const defaultTimeoutMs = 300_000

// lockfilePrecedence decides the package manager when several lockfiles
// coexist: npm's first-party lockfile wins, then yarn, then pnpm.
var lockfilePrecedence = []struct {
	file string
	pm   domain.PackageManager
}{
	{"package-lock.json", domain.PMNpm},
	{"yarn.lock", domain.PMYarn},
	{"pnpm-lock.yaml", domain.PMPnpm},
}

// Runner implements domain.Compiler with os/exec.
type Runner struct{}

func New() *Runner {
	return &Runner{}
}

// DetectPackageManager picks the package manager by lockfile presence,
// defaulting to npm when no lockfile exists.
func (r *Runner) DetectPackageManager(repoPath string) domain.PackageManager {
	for _, lp := range lockfilePrecedence {
		if _, err := os.Stat(filepath.Join(repoPath, lp.file)); err == nil {
			return lp.pm
		}
	}
	return domain.PMNpm
}

// Compile runs the build command under a hard wall-clock timeout with
// bounded output capture. A timeout yields a synthetic failing result,
// never an error; errors are reserved for being unable to start at all.
func (r *Runner) Compile(ctx context.Context, repoPath string, opts domain.CompileOptions) (domain.CompilationResult, error) {
	pm := opts.PackageManager
	if pm == "" {
		pm = r.DetectPackageManager(repoPath)
	}

	command := opts.BuildCommand
	if command == "" {
		command = DetectBuildCommand(repoPath, pm)
	}

	timeout := time.Duration(opts.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultTimeoutMs * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = repoPath
	var stdout, stderr boundedBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := domain.CompilationResult{
		Command:    command,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMs: elapsed.Milliseconds(),
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.Success = false
		result.ExitCode = -1
		result.TimedOut = true
		result.Stderr = fmt.Sprintf("%s\nbuild timed out after %s", result.Stderr, timeout)
		return result, nil
	}

	switch {
	case err == nil:
		result.Success = true
		result.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			return result, fmt.Errorf("running build command: %w", err)
		}
	}

	return result, nil
}

// DetectBuildCommand inspects the manifest's declared scripts, preferring an
// explicit "build" entry, then a type-check if a tsconfig exists, else a
// plain install as the minimal verification a JS repo supports.
func DetectBuildCommand(repoPath string, pm domain.PackageManager) string {
	if scripts := readScripts(repoPath); scripts["build"] != "" {
		return runScriptCommand(pm, "build")
	}
	if _, err := os.Stat(filepath.Join(repoPath, "tsconfig.json")); err == nil {
		return "npx tsc --noEmit"
	}
	return string(pm) + " install"
}

func runScriptCommand(pm domain.PackageManager, script string) string {
	if pm == domain.PMYarn {
		return "yarn " + script
	}
	return string(pm) + " run " + script
}

func readScripts(repoPath string) map[string]string {
	data, err := os.ReadFile(filepath.Join(repoPath, "package.json"))
	if err != nil {
		return nil
	}
	var manifest struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil
	}
	return manifest.Scripts
}

// boundedBuffer keeps the first maxOutputBytes of writes and drops the rest.
type boundedBuffer struct {
	buf       []byte
	truncated bool
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	remaining := maxOutputBytes - len(b.buf)
	if remaining > 0 {
		if len(p) > remaining {
			b.buf = append(b.buf, p[:remaining]...)
			b.truncated = true
		} else {
			b.buf = append(b.buf, p...)
		}
	} else {
		b.truncated = true
	}
	// Report full consumption so the subprocess never blocks on us.
	return len(p), nil
}

func (b *boundedBuffer) String() string {
	if b.truncated {
		return string(b.buf) + "\n[output truncated]"
	}
	return string(b.buf)
}
