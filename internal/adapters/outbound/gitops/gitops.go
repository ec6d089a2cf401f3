// Package gitops implements commit and rollback operations on the target
// working tree using go-git.
package gitops

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/abdidvp/lazarus/internal/domain"
)

// GitOps implements domain.Rollbacker.
type GitOps struct{}

func New() *GitOps {
	return &GitOps{}
}

// IsGitRepo reports whether the path is inside a git working tree.
func (g *GitOps) IsGitRepo(repoPath string) bool {
	_, err := git.PlainOpen(repoPath)
	return err == nil
}

// RollbackLastCommit hard-resets the working tree and branch to the parent
// of HEAD. All failure modes are reported in the result, never raised: a
// single-commit repository has nothing to roll back to and HEAD stays put.
func (g *GitOps) RollbackLastCommit(repoPath string) domain.RollbackResult {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return failure("opening repository: %v", err)
	}

	head, err := repo.Head()
	if err != nil {
		return failure("reading HEAD: %v", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return failure("reading HEAD commit: %v", err)
	}

	result := domain.RollbackResult{
		RolledBackCommit: commit.Hash.String(),
		CommitMessage:    strings.TrimSpace(commit.Message),
	}

	wt, err := repo.Worktree()
	if err != nil {
		result.Error = fmt.Sprintf("opening worktree: %v", err)
		return result
	}

	// Uncommitted changes are noted but do not block: the hard reset is
	// the point of this operation.
	if status, err := wt.Status(); err == nil {
		result.HadUncommittedChanges = !status.IsClean()
	}

	if commit.NumParents() == 0 {
		result.Error = "cannot roll back the only commit in the repository"
		return result
	}

	parent, err := commit.Parent(0)
	if err != nil {
		result.Error = fmt.Sprintf("reading parent commit: %v", err)
		return result
	}

	if err := wt.Reset(&git.ResetOptions{Commit: parent.Hash, Mode: git.HardReset}); err != nil {
		result.Error = fmt.Sprintf("hard reset to %s: %v", parent.Hash, err)
		return result
	}

	newHead, err := repo.Head()
	if err != nil {
		result.Error = fmt.Sprintf("reading HEAD after reset: %v", err)
		return result
	}

	result.Success = true
	result.NewHead = newHead.Hash().String()
	return result
}

// RecoverFromFailedUpdate rolls back the offending commit and marks the
// implicated dependency as failed, so batch execution can continue.
func (g *GitOps) RecoverFromFailedUpdate(repoPath string, update *domain.PackageUpdateResult) domain.RollbackResult {
	result := g.RollbackLastCommit(repoPath)
	if result.Success {
		update.Status = domain.UpdateRolledBack
	} else {
		update.Status = domain.UpdateFailed
		if update.Error == "" {
			update.Error = result.Error
		}
	}
	return result
}

// CommitAll stages everything and commits. Used after each dependency update
// so a later rollback bisects to exactly one change.
func (g *GitOps) CommitAll(repoPath, message string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("opening worktree: %w", err)
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("staging changes: %w", err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "lazarus",
			Email: "lazarus@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return hash.String(), nil
}

// CommitHash returns the current HEAD hash.
func (g *GitOps) CommitHash(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

func failure(format string, args ...any) domain.RollbackResult {
	return domain.RollbackResult{Error: fmt.Sprintf(format, args...)}
}
