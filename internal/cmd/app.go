// Package cmd implements the git-issue command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"git-issue/internal/config"
	"git-issue/internal/issuestorage"
	"git-issue/internal/kvstorage"
	"git-issue/internal/query"
	"git-issue/internal/vcs"

	"golang.org/x/term"
)

// EditorFunc opens path in the editor command line editor.
type EditorFunc func(ctx context.Context, editor, path string) error

// App holds application state shared across commands.
type App struct {
	Paths     config.Paths
	Storage   issuestorage.IssueStore
	Config    config.Config
	Identity  *config.Identity
	Settings  config.Settings
	Cache     *kvstorage.ListCache
	Committer vcs.Committer // nil disables automatic commits
	Editor    EditorFunc
	Logger    *log.Logger
	Now       func() time.Time
	Out       io.Writer
	Err       io.Writer
	NoColor   bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logf(format string, args ...interface{}) {
	if a.Logger != nil {
		a.Logger.Printf(format, args...)
	}
}

// Engine returns a query engine configured for this repository.
func (a *App) Engine() *query.Engine {
	e := &query.Engine{
		Relationships:  a.Config.Relationships.Names(),
		DefaultColumns: a.Config.ListColumns,
		Descriptions:   a.Storage,
	}
	if a.Identity != nil {
		e.Identity = a.Identity
	}
	return e
}

// commit records a change to the issues directory when commit_auto is on.
// Finding nothing to commit is reported, not returned.
func (a *App) commit(ctx context.Context, action string, issue *issuestorage.Issue) error {
	if a.Committer == nil || !a.Config.CommitAuto {
		return nil
	}
	msg := vcs.FormatCommitMessage(a.Config.CommitMessage, action, uint32(issue.ID), issue.Title)
	return a.commitDir(ctx, a.Paths.Issues, msg)
}

func (a *App) commitDir(ctx context.Context, dir, msg string) error {
	err := a.Committer.Commit(ctx, dir, msg)
	if errors.Is(err, vcs.ErrNothingToCommit) {
		fmt.Fprintln(a.Out, "Info: Nothing to commit")
		return nil
	}
	return err
}

// colorEnabled reports whether Out is an interactive terminal and colors
// have not been turned off.
func (a *App) colorEnabled() bool {
	if a.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := a.Out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// paint wraps s in the ANSI codes of a configured color name.
func (a *App) paint(s, color string) string {
	code, ok := config.ColorCode(color)
	if !ok || code == "" {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// SuccessColor returns the string wrapped in green ANSI codes if stdout is a terminal,
// otherwise returns the string unchanged.
func (a *App) SuccessColor(s string) string {
	if a.colorEnabled() {
		return a.paint(s, "green")
	}
	return s
}

// WarnColor returns the string wrapped in orange ANSI codes if stdout is a terminal,
// otherwise returns the string unchanged.
func (a *App) WarnColor(s string) string {
	if a.colorEnabled() {
		return a.paint(s, "orange")
	}
	return s
}
