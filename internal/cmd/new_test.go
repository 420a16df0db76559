package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"git-issue/internal/config"
	"git-issue/internal/issuestorage"
	"git-issue/internal/query"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNewBasic(t *testing.T) {
	app, store, committer := setupTestApp(t)
	out := app.Out.(*bytes.Buffer)

	cmd := newNewCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"  Login fails  "})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("new failed: %v", err)
	}

	if got, want := strings.TrimSpace(out.String()), "✓ Created issue #1"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	issue := loadTestIssue(t, store, 1)
	want := &issuestorage.Issue{
		ID:       1,
		Title:    "Login fails",
		State:    "new",
		Reporter: "alice",
		Created:  "2024-03-05T10:30:00Z",
		Updated:  "2024-03-05T10:30:00Z",
	}
	if diff := cmp.Diff(want, issue, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("issue mismatch (-want +got):\n%s", diff)
	}

	description, err := store.LoadDescription(context.Background(), 1)
	if err != nil {
		t.Fatalf("failed to load description: %v", err)
	}
	if description != config.DefaultDescription() {
		t.Errorf("description = %q, want the template", description)
	}

	if diff := cmp.Diff([]string{"[issue] new #1 - Login fails"}, committer.messages); diff != "" {
		t.Errorf("commit messages mismatch (-want +got):\n%s", diff)
	}
	if len(committer.dirs) != 1 || committer.dirs[0] != app.Paths.Issues {
		t.Errorf("committed dirs = %v, want [%s]", committer.dirs, app.Paths.Issues)
	}
}

func TestNewWithFields(t *testing.T) {
	app, store, _ := setupTestApp(t)

	cmd := newNewCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"Crash on start",
		"--type", "bug",
		"--priority", "p1",
		"--reporter", "bob",
		"--assignee", "me",
		"--due_date", "2024-06-30",
		"--labels", "ui, triage,ui,",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("new failed: %v", err)
	}

	issue := loadTestIssue(t, store, 1)
	if issue.Type != "bug" {
		t.Errorf("type = %q, want %q", issue.Type, "bug")
	}
	if issue.Priority != issuestorage.PriorityP1 {
		t.Errorf("priority = %q, want %q", issue.Priority, issuestorage.PriorityP1)
	}
	if issue.Reporter != "bob" {
		t.Errorf("reporter = %q, want %q", issue.Reporter, "bob")
	}
	if issue.Assignee != "alice" {
		t.Errorf("assignee = %q, want %q", issue.Assignee, "alice")
	}
	if issue.DueDate != "2024-06-30" {
		t.Errorf("due_date = %q, want %q", issue.DueDate, "2024-06-30")
	}
	if diff := cmp.Diff([]string{"ui", "triage"}, issue.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestNewAssignsSequentialIDs(t *testing.T) {
	app, store, _ := setupTestApp(t)
	createTestIssue(t, store, &issuestorage.Issue{Title: "first"})
	createTestIssue(t, store, &issuestorage.Issue{Title: "second"})

	cmd := newNewCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"third"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if got := loadTestIssue(t, store, 3).Title; got != "third" {
		t.Errorf("issue 3 title = %q, want %q", got, "third")
	}
}

func TestNewEmptyReporterWithoutCurrentUser(t *testing.T) {
	app, store, _ := setupTestApp(t)
	app.Identity = config.NewIdentity(config.Users{}, "")

	cmd := newNewCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"Anonymous report"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if got := loadTestIssue(t, store, 1).Reporter; got != "" {
		t.Errorf("reporter = %q, want empty", got)
	}
}

func TestNewNoAutoCommit(t *testing.T) {
	app, _, committer := setupTestApp(t)
	app.Config.CommitAuto = false

	cmd := newNewCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"Quiet"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if len(committer.messages) != 0 {
		t.Errorf("expected no commits, got %v", committer.messages)
	}
}

func TestNewInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"empty title", []string{"   "}, query.ErrInvalidValue},
		{"unknown type", []string{"x", "--type", "epic"}, query.ErrInvalidValue},
		{"bad due date", []string{"x", "--due-date", "2024-13-01"}, issuestorage.ErrInvalidDate},
		{"unknown assignee", []string{"x", "--assignee", "carol"}, config.ErrInvalidUser},
		{"unknown reporter", []string{"x", "--reporter", "carol"}, config.ErrInvalidUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, store, _ := setupTestApp(t)

			cmd := newNewCmd(NewTestProvider(app))
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			ok, err := store.Exists(context.Background(), 1)
			if err != nil {
				t.Fatalf("exists failed: %v", err)
			}
			if ok {
				t.Error("expected no issue to be created")
			}
		})
	}
}

func TestNewInvalidPriority(t *testing.T) {
	app, _, _ := setupTestApp(t)

	cmd := newNewCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"x", "--priority", "P7"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for priority P7")
	}
}
