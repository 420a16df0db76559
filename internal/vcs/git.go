// Package vcs records issue changes in the surrounding git repository.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
)

// ErrNothingToCommit is returned when git finds no staged changes.
// Callers report it as information, not as a failure.
var ErrNothingToCommit = errors.New("nothing to commit")

// Committer stages a directory and commits it.
type Committer interface {
	Commit(ctx context.Context, dir, message string) error
}

// Git runs the git binary in a repository.
type Git struct {
	repoRoot string
	logger   *log.Logger
}

// NewGit creates a Git that runs commands in repoRoot.
func NewGit(repoRoot string, logger *log.Logger) *Git {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Git{repoRoot: repoRoot, logger: logger}
}

// Commit stages dir and commits it with message.
func (g *Git) Commit(ctx context.Context, dir, message string) error {
	if message == "" {
		return fmt.Errorf("commit message is required")
	}

	add := exec.CommandContext(ctx, "git", "add", dir)
	add.Dir = g.repoRoot
	if output, err := add.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to stage %s: %w\n%s", dir, err, strings.TrimSpace(string(output)))
	}

	commit := exec.CommandContext(ctx, "git", "commit", "-m", message)
	commit.Dir = g.repoRoot
	var stdout, stderr strings.Builder
	commit.Stdout = &stdout
	commit.Stderr = &stderr
	if err := commit.Run(); err != nil {
		if nothingToCommit(stdout.String()) {
			return ErrNothingToCommit
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		return fmt.Errorf("failed to commit: %w\n%s", err, detail)
	}
	g.logger.Printf("committed %q", message)
	return nil
}

func nothingToCommit(output string) bool {
	for _, marker := range []string{"nothing to commit", "no changes added to commit", "nothing added to commit"} {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}

// CoreEditor returns git's configured core.editor.
func (g *Git) CoreEditor(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "config", "--get", "core.editor")
	cmd.Dir = g.repoRoot
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git config failed or core.editor not set: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// FormatCommitMessage fills the {action}, {id} and {title} placeholders of a
// commit message template.
func FormatCommitMessage(template, action string, id uint32, title string) string {
	return strings.NewReplacer(
		"{action}", action,
		"{id}", fmt.Sprint(id),
		"{title}", title,
	).Replace(template)
}
