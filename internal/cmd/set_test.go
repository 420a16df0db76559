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
	"git-issue/internal/kvstorage"

	"github.com/google/go-cmp/cmp"
)

func TestSetSingleIssue(t *testing.T) {
	app, store, committer := setupTestApp(t)
	out := app.Out.(*bytes.Buffer)
	createTestIssue(t, store, &issuestorage.Issue{Title: "Login fails", Labels: []string{"triage"}})

	cmd := newSetCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"1",
		"--state", "active",
		"--assignee", "me",
		"--priority", "P0",
		"--labels-add", "ui",
		"--labels_remove", "triage",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if got, want := strings.TrimSpace(out.String()), "✓ Updated issue #1"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	issue := loadTestIssue(t, store, 1)
	if issue.State != "active" {
		t.Errorf("state = %q, want %q", issue.State, "active")
	}
	if issue.Assignee != "alice" {
		t.Errorf("assignee = %q, want %q", issue.Assignee, "alice")
	}
	if issue.Priority != issuestorage.PriorityP0 {
		t.Errorf("priority = %q, want %q", issue.Priority, issuestorage.PriorityP0)
	}
	if diff := cmp.Diff([]string{"ui"}, issue.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if issue.Updated != "2024-03-05T10:30:00Z" {
		t.Errorf("updated = %q, want %q", issue.Updated, "2024-03-05T10:30:00Z")
	}
	want := []string{"[issue] set state,assignee,priority,labels #1 - Login fails"}
	if diff := cmp.Diff(want, committer.messages); diff != "" {
		t.Errorf("commit messages mismatch (-want +got):\n%s", diff)
	}
}

func TestSetClearsOptionalFields(t *testing.T) {
	app, store, _ := setupTestApp(t)
	createTestIssue(t, store, &issuestorage.Issue{
		Title:    "Login fails",
		Type:     "bug",
		Assignee: "bob",
		Priority: issuestorage.PriorityP2,
		DueDate:  "2024-06-30",
		Labels:   []string{"ui"},
	})

	cmd := newSetCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"1", "--type", "", "--assignee", "", "--priority", "", "--due-date", "", "--labels", ""})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	issue := loadTestIssue(t, store, 1)
	if issue.Type != "" || issue.Assignee != "" || issue.DueDate != "" {
		t.Errorf("expected cleared fields, got type=%q assignee=%q due_date=%q", issue.Type, issue.Assignee, issue.DueDate)
	}
	if issue.Priority != issuestorage.PriorityNone {
		t.Errorf("priority = %q, want empty", issue.Priority)
	}
	if len(issue.Labels) != 0 {
		t.Errorf("labels = %v, want none", issue.Labels)
	}
}

func TestSetMultipleIssues(t *testing.T) {
	app, store, committer := setupTestApp(t)
	out := app.Out.(*bytes.Buffer)
	for _, title := range []string{"one", "two", "three"} {
		createTestIssue(t, store, &issuestorage.Issue{Title: title})
	}

	cmd := newSetCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"1,3", "2", "3", "--state", "closed"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if got, want := strings.TrimSpace(out.String()), "✓ Updated 3 issues"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	for _, id := range []issuestorage.ID{1, 2, 3} {
		if got := loadTestIssue(t, store, id).State; got != "closed" {
			t.Errorf("issue %d state = %q, want %q", id, got, "closed")
		}
	}
	if len(committer.messages) != 3 {
		t.Errorf("expected 3 commits, got %v", committer.messages)
	}
}

func TestSetSkipsUnchangedIssues(t *testing.T) {
	app, store, committer := setupTestApp(t)
	out := app.Out.(*bytes.Buffer)
	createTestIssue(t, store, &issuestorage.Issue{Title: "one", State: "closed"})
	createTestIssue(t, store, &issuestorage.Issue{Title: "two"})

	cmd := newSetCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"1,2", "--state", "closed"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if got, want := strings.TrimSpace(out.String()), "✓ Updated issue #2"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if got := loadTestIssue(t, store, 1).Updated; got != "2024-01-01T09:00:00Z" {
		t.Errorf("unchanged issue updated = %q, want it untouched", got)
	}
	if len(committer.messages) != 1 {
		t.Errorf("expected 1 commit, got %v", committer.messages)
	}
}

func TestSetNoFieldsChanged(t *testing.T) {
	app, store, committer := setupTestApp(t)
	createTestIssue(t, store, &issuestorage.Issue{Title: "one", State: "active"})

	cmd := newSetCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"1", "--state", "active"})
	err := cmd.Execute()
	if !errors.Is(err, ErrNoFieldsChanged) {
		t.Errorf("error = %v, want %v", err, ErrNoFieldsChanged)
	}
	if len(committer.messages) != 0 {
		t.Errorf("expected no commits, got %v", committer.messages)
	}
}

func TestSetFromListCache(t *testing.T) {
	app, store, _ := setupTestApp(t)
	for _, title := range []string{"one", "two", "three"} {
		createTestIssue(t, store, &issuestorage.Issue{Title: title})
	}
	if err := app.Cache.Save(context.Background(), []issuestorage.ID{3, 1}); err != nil {
		t.Fatalf("failed to save cache: %v", err)
	}

	cmd := newSetCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"*", "--priority", "P3"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	for id, want := range map[issuestorage.ID]issuestorage.Priority{
		1: issuestorage.PriorityP3,
		2: issuestorage.PriorityNone,
		3: issuestorage.PriorityP3,
	} {
		if got := loadTestIssue(t, store, id).Priority; got != want {
			t.Errorf("issue %d priority = %q, want %q", id, got, want)
		}
	}

	// set keeps the cache for further bulk updates.
	if _, err := app.Cache.Load(context.Background()); err != nil {
		t.Errorf("expected cache to survive set, got %v", err)
	}
}

func TestSetFromEmptyListCache(t *testing.T) {
	app, store, _ := setupTestApp(t)
	createTestIssue(t, store, &issuestorage.Issue{Title: "one"})

	cmd := newSetCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"*", "--state", "closed"})
	err := cmd.Execute()
	if !errors.Is(err, kvstorage.ErrCacheEmpty) {
		t.Errorf("error = %v, want %v", err, kvstorage.ErrCacheEmpty)
	}
}

func TestSetInvalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"missing issue", []string{"1,9", "--state", "closed"}, issuestorage.ErrNotFound},
		{"bad id", []string{"x", "--state", "closed"}, issuestorage.ErrInvalidID},
		{"unknown state", []string{"1", "--state", "done"}, query.ErrInvalidValue},
		{"empty state", []string{"1", "--state", ""}, query.ErrInvalidValue},
		{"unknown type", []string{"1", "--type", "epic"}, query.ErrInvalidValue},
		{"empty title", []string{"1", "--title", " "}, query.ErrInvalidValue},
		{"unknown user", []string{"1", "--assignee", "carol"}, config.ErrInvalidUser},
		{"bad due date", []string{"1", "--due-date", "30.06.2024"}, issuestorage.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, store, _ := setupTestApp(t)
			createTestIssue(t, store, &issuestorage.Issue{Title: "one"})

			cmd := newSetCmd(NewTestProvider(app))
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if got := loadTestIssue(t, store, 1).State; got != "new" {
				t.Errorf("state = %q, want it unchanged", got)
			}
		})
	}
}

func TestSetMixedWildcard(t *testing.T) {
	app, store, _ := setupTestApp(t)
	createTestIssue(t, store, &issuestorage.Issue{Title: "one"})

	cmd := newSetCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"1,*", "--state", "closed"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when mixing '*' with IDs")
	}
}

func TestSetLabelsFlagsExclusive(t *testing.T) {
	app, store, _ := setupTestApp(t)
	createTestIssue(t, store, &issuestorage.Issue{Title: "one"})

	cmd := newSetCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"1", "--labels", "a", "--labels-add", "b"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for --labels with --labels-add")
	}
}

func TestFieldChangesApply(t *testing.T) {
	title := "renamed"
	issue := &issuestorage.Issue{Title: "one", Labels: []string{"a", "b"}}
	ch := fieldChanges{
		title:        &title,
		labelsAdd:    []string{"b", "c"},
		labelsRemove: []string{"a"},
	}

	fields := ch.apply(issue)
	if diff := cmp.Diff([]string{"title", "labels"}, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "c"}, issue.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	if fields := ch.apply(issue); len(fields) != 0 {
		t.Errorf("second apply changed %v, want nothing", fields)
	}
}
