// Package gitutil reports which upstream revision a target file belongs to.
package gitutil

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Revision describes the checkout holding a target.
type Revision struct {
	Root   string `json:"root"`
	Head   string `json:"head"`
	Branch string `json:"branch,omitempty"`
	// Dirty is true when the worktree has any uncommitted change.
	Dirty bool `json:"dirty"`
	// TargetModified is true when the target itself differs from HEAD.
	TargetModified bool `json:"target_modified"`
}

// Short returns the abbreviated HEAD hash.
func (r Revision) Short() string {
	if len(r.Head) > 12 {
		return r.Head[:12]
	}
	return r.Head
}

// Client handles interacting with Git repositories.
type Client struct {
	Logger *slog.Logger
}

// NewClient returns a new Client instance.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Logger: logger}
}

// Revision finds the repository containing target, walking up parent
// directories. ok is false when target is not inside a repository.
func (c *Client) Revision(target string) (rev Revision, ok bool, err error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return Revision{}, false, fmt.Errorf("failed to resolve %s: %w", target, err)
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		c.Logger.Debug("target is not inside a git repository", "target", target)
		return Revision{}, false, nil
	}
	if err != nil {
		return Revision{}, false, fmt.Errorf("failed to open repository for %s: %w", target, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return Revision{}, false, fmt.Errorf("failed to get worktree: %w", err)
	}
	rev.Root = wt.Filesystem.Root()

	head, err := repo.Head()
	if err != nil {
		return Revision{}, false, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	rev.Head = head.Hash().String()
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}

	status, err := wt.Status()
	if err != nil {
		return Revision{}, false, fmt.Errorf("failed to get worktree status: %w", err)
	}
	rev.Dirty = !status.IsClean()

	if rel, relErr := filepath.Rel(rev.Root, abs); relErr == nil {
		if fs, changed := status[filepath.ToSlash(rel)]; changed {
			rev.TargetModified = fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified
		}
	}
	return rev, true, nil
}
