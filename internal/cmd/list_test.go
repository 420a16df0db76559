package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git-issue/internal/export"
	"git-issue/internal/issuestorage"
	"git-issue/internal/issuestorage/filesystem"
	"git-issue/internal/kvstorage"

	"github.com/google/go-cmp/cmp"
)

func createListFixture(t *testing.T, store *filesystem.FilesystemStorage) {
	t.Helper()
	for _, issue := range []*issuestorage.Issue{
		{Title: "Login fails", State: "new", Priority: issuestorage.PriorityP1, Assignee: "alice"},
		{Title: "Add CSV export", State: "active", Type: "feature", Priority: issuestorage.PriorityP2},
		{Title: "Crash on start", State: "active", Type: "bug", Priority: issuestorage.PriorityP0, Assignee: "bob"},
	} {
		createTestIssue(t, store, issue)
	}
}

// tableRows splits table output into the fields of each line, skipping the
// header separator.
func tableRows(app *App) [][]string {
	var rows [][]string
	for _, line := range outputLines(app) {
		if strings.HasPrefix(line, "---") {
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	return rows
}

func TestListDefault(t *testing.T) {
	app, store, _ := setupTestApp(t)
	createListFixture(t, store)

	cmd := newListCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"--columns", "id,state,priority"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	want := [][]string{
		{"id", "state", "priority"},
		{"3", "active", "P0"},
		{"2", "active", "P2"},
		{"1", "new", "P1"},
	}
	if diff := cmp.Diff(want, tableRows(app)); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestListPadding(t *testing.T) {
	app, store, _ := setupTestApp(t)
	createListFixture(t, store)

	cmd := newListCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"--columns", "id,title", "--sort", "id=asc"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	lines := outputLines(app)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), lines)
	}
	// id column: "id" + 2 spaces; title column: "Crash on start" + 2 spaces.
	if got, want := lines[0], "id  title           "; got != want {
		t.Errorf("header = %q, want %q", got, want)
	}
	if got, want := lines[1], strings.Repeat("-", 4+16); got != want {
		t.Errorf("separator = %q, want %q", got, want)
	}
	if got, want := lines[2], "1   Login fails     "; got != want {
		t.Errorf("row = %q, want %q", got, want)
	}
}

func TestListNoHeaderSeparator(t *testing.T) {
	app, store, _ := setupTestApp(t)
	app.Settings.HeaderSeparator = false
	createListFixture(t, store)

	cmd := newListCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"--columns", "id"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, line := range outputLines(app) {
		if strings.HasPrefix(line, "-") {
			t.Errorf("unexpected separator line %q", line)
		}
	}
}

func TestListFilterAndSort(t *testing.T) {
	app, store, _ := setupTestApp(t)
	createListFixture(t, store)

	cmd := newListCmd(NewTestProvider(app))
	cmd.SetArgs([]string{
		"--columns", "id,assignee",
		"--filter", "state=ACTIVE,new",
		"--filter", "priority<P2",
		"--sort", "priority=asc",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	want := [][]string{
		{"id", "assignee"},
		{"3", "bob"},
		{"1", "alice"},
	}
	if diff := cmp.Diff(want, tableRows(app)); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestListFilterMe(t *testing.T) {
	app, store, _ := setupTestApp(t)
	createListFixture(t, store)

	cmd := newListCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"--columns", "id", "--filter", "assignee=me"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if diff := cmp.Diff([][]string{{"id"}, {"1"}}, tableRows(app)); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestListInvalidExpressions(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown column", []string{"--columns", "id,nope"}},
		{"unknown filter field", []string{"--filter", "nope=1"}},
		{"malformed filter", []string{"--filter", "state"}},
		{"unknown sort field", []string{"--sort", "nope=asc"}},
		{"bad sort direction", []string{"--sort", "id=up"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, store, _ := setupTestApp(t)
			createListFixture(t, store)

			cmd := newListCmd(NewTestProvider(app))
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestListCachesIDs(t *testing.T) {
	app, store, _ := setupTestApp(t)
	createListFixture(t, store)

	cmd := newListCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"--filter", "state=active"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	ids, err := app.Cache.Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load cache: %v", err)
	}
	if diff := cmp.Diff([]issuestorage.ID{3, 2}, ids); diff != "" {
		t.Errorf("cached IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestListEmptyResultCachesNothing(t *testing.T) {
	app, store, _ := setupTestApp(t)
	createListFixture(t, store)

	cmd := newListCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"--filter", "state=closed"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	_, err := app.Cache.Load(context.Background())
	if !errors.Is(err, kvstorage.ErrCacheEmpty) {
		t.Errorf("error = %v, want %v", err, kvstorage.ErrCacheEmpty)
	}
}

func TestListCSV(t *testing.T) {
	app, store, _ := setupTestApp(t)
	app.Settings.ExportCSVSeparator = ';'
	createListFixture(t, store)
	out := app.Out.(*bytes.Buffer)

	cmd := newListCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"--csv", "--columns", "id,title", "--sort", "id=asc"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	path := filepath.Join(app.Paths.ExportsDir, export.FileName(testNow))
	if got, want := strings.TrimSpace(out.String()), "Exported 3 issues to "+path; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	want := "id;title\n1;Login fails\n2;Add CSV export\n3;Crash on start\n"
	if string(data) != want {
		t.Errorf("export = %q, want %q", string(data), want)
	}
}

func TestColorValue(t *testing.T) {
	app, _, _ := setupTestApp(t)
	today := "2024-03-05"

	tests := []struct {
		column, value string
		colored       bool
	}{
		{"assignee", "alice", true},
		{"reporter", "alice", true},
		{"assignee", "bob", false},
		{"due_date", "2024-03-04", true},
		{"due_date", "2024-03-05", false},
		{"due_date", "-", false},
		{"title", "alice", false},
	}

	for _, tt := range tests {
		got := app.colorValue(tt.column, tt.value, today)
		if colored := got != tt.value; colored != tt.colored {
			t.Errorf("colorValue(%q, %q) = %q, colored = %v, want %v", tt.column, tt.value, got, colored, tt.colored)
		}
	}
}
