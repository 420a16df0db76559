package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"git-issue/internal/config"
	"git-issue/internal/issuestorage"
	"git-issue/internal/issuestorage/filesystem"
	"git-issue/internal/kvstorage"
	kvfs "git-issue/internal/kvstorage/filesystem"
)

// testNow is the fixed clock of test apps.
var testNow = time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

const testUsers = `users:
  - id: alice
    name: Alice Example
  - id: bob
    name: Bob Example
`

// fakeCommitter records commits instead of running git.
type fakeCommitter struct {
	dirs     []string
	messages []string
	err      error
}

func (f *fakeCommitter) Commit(ctx context.Context, dir, message string) error {
	if f.err != nil {
		return f.err
	}
	f.dirs = append(f.dirs, dir)
	f.messages = append(f.messages, message)
	return nil
}

// setupTestApp creates an App over a fresh .gitissues directory with the
// default config, the users alice and bob, and alice as current user.
func setupTestApp(t *testing.T) (*App, *filesystem.FilesystemStorage, *fakeCommitter) {
	t.Helper()
	paths := config.NewPaths(filepath.Join(t.TempDir(), config.DirName))
	if err := config.WriteDefaults(paths); err != nil {
		t.Fatalf("failed to write defaults: %v", err)
	}
	if err := os.WriteFile(paths.UsersFile, []byte(testUsers), 0644); err != nil {
		t.Fatalf("failed to write users: %v", err)
	}
	users, err := config.LoadUsers(paths.UsersFile)
	if err != nil {
		t.Fatalf("failed to load users: %v", err)
	}
	settings, err := config.LoadSettings(paths.SettingsFile)
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}

	store := filesystem.New(paths.Root)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	committer := &fakeCommitter{}
	return &App{
		Paths:     paths,
		Storage:   store,
		Config:    config.Default(),
		Identity:  config.NewIdentity(users, "alice"),
		Settings:  settings,
		Cache:     kvstorage.NewListCache(kvfs.New(paths.TmpDir), kvstorage.DefaultMaxAge),
		Committer: committer,
		Now:       func() time.Time { return testNow },
		Out:       &bytes.Buffer{},
		Err:       &bytes.Buffer{},
	}, store, committer
}

// createTestIssue stores an issue directly, bypassing the new command.
func createTestIssue(t *testing.T, store *filesystem.FilesystemStorage, issue *issuestorage.Issue) issuestorage.ID {
	t.Helper()
	if issue.State == "" {
		issue.State = "new"
	}
	if issue.Created == "" {
		issue.Created = "2024-01-01T09:00:00Z"
		issue.Updated = issue.Created
	}
	id, err := store.Create(context.Background(), issue, "# Description\n")
	if err != nil {
		t.Fatalf("failed to create issue: %v", err)
	}
	return id
}

func loadTestIssue(t *testing.T, store *filesystem.FilesystemStorage, id issuestorage.ID) *issuestorage.Issue {
	t.Helper()
	issue, err := store.Load(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to load issue %d: %v", id, err)
	}
	return issue
}

// outputLines returns the non-empty lines written to app.Out.
func outputLines(app *App) []string {
	var lines []string
	for _, line := range strings.Split(app.Out.(*bytes.Buffer).String(), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
