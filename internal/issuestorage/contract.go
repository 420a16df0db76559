package issuestorage

import (
	"context"
	"errors"
	"testing"
)

// RunContractTests runs the contract test suite against an IssueStore implementation.
// Each storage engine should call this with its own factory function to ensure
// consistent behavior across all implementations. The factory returns an
// initialized, empty store.
func RunContractTests(t *testing.T, factory func() IssueStore) {
	t.Run("CreateAssignsSequentialIDs", func(t *testing.T) { testCreateSequential(t, factory()) })
	t.Run("LoadRoundTrip", func(t *testing.T) { testLoadRoundTrip(t, factory()) })
	t.Run("LoadMissing", func(t *testing.T) { testLoadMissing(t, factory()) })
	t.Run("SaveOverwrites", func(t *testing.T) { testSaveOverwrites(t, factory()) })
	t.Run("SaveMissing", func(t *testing.T) { testSaveMissing(t, factory()) })
	t.Run("ListAscending", func(t *testing.T) { testListAscending(t, factory()) })
	t.Run("Exists", func(t *testing.T) { testExists(t, factory()) })
	t.Run("Description", func(t *testing.T) { testDescription(t, factory()) })
}

func newContractIssue(title string) *Issue {
	return &Issue{
		Title:   title,
		State:   "new",
		Created: "2026-01-02T03:04:05Z",
		Updated: "2026-01-02T03:04:05Z",
	}
}

func testCreateSequential(t *testing.T, s IssueStore) {
	ctx := context.Background()
	for want := ID(1); want <= 3; want++ {
		id, err := s.Create(ctx, newContractIssue("issue"), "")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if id != want {
			t.Errorf("Create returned ID %d, want %d", id, want)
		}
	}
}

func testLoadRoundTrip(t *testing.T, s IssueStore) {
	ctx := context.Background()
	issue := newContractIssue("Round trip")
	issue.Type = "bug"
	issue.Labels = []string{"cli", "ui"}
	issue.Reporter = "alice"
	issue.Assignee = "bob"
	issue.Priority = PriorityP1
	issue.DueDate = "2026-01-30"
	issue.Relationships.Set("related", []ID{3, 2})
	issue.Relationships.Set("child", []ID{7})

	id, err := s.Create(ctx, issue, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Title != issue.Title || got.Type != issue.Type || got.State != issue.State {
		t.Errorf("Load = %+v, want %+v", got, issue)
	}
	if got.Priority != PriorityP1 {
		t.Errorf("Priority = %v, want P1", got.Priority)
	}
	if got.DueDate != "2026-01-30" {
		t.Errorf("DueDate = %q, want %q", got.DueDate, "2026-01-30")
	}
	names := got.Relationships.Names()
	if len(names) != 2 || names[0] != "related" || names[1] != "child" {
		t.Errorf("relationship order = %v, want [related child]", names)
	}
	related, _ := got.Relationships.Get("related")
	if len(related) != 2 || related[0] != 3 || related[1] != 2 {
		t.Errorf("related = %v, want [3 2]", related)
	}
	if len(got.Labels) != 2 || got.Labels[0] != "cli" || got.Labels[1] != "ui" {
		t.Errorf("Labels = %v, want [cli ui]", got.Labels)
	}
}

func testLoadMissing(t *testing.T, s IssueStore) {
	_, err := s.Load(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(42) error = %v, want ErrNotFound", err)
	}
}

func testSaveOverwrites(t *testing.T, s IssueStore) {
	ctx := context.Background()
	id, err := s.Create(ctx, newContractIssue("before"), "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	issue, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	issue.Title = "after"
	issue.Relationships.Set("parent", []ID{9})
	if err := s.Save(ctx, issue); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Title != "after" {
		t.Errorf("Title = %q, want %q", got.Title, "after")
	}
	if !got.Relationships.Contains("parent", 9) {
		t.Errorf("Relationships = %v, want parent=[9]", got.Relationships)
	}
}

func testSaveMissing(t *testing.T, s IssueStore) {
	issue := newContractIssue("ghost")
	issue.ID = 99
	if err := s.Save(context.Background(), issue); !errors.Is(err, ErrNotFound) {
		t.Errorf("Save(99) error = %v, want ErrNotFound", err)
	}
}

func testListAscending(t *testing.T, s IssueStore) {
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		if _, err := s.Create(ctx, newContractIssue(title), ""); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	issues, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(issues) != 3 {
		t.Fatalf("List returned %d issues, want 3", len(issues))
	}
	for i, issue := range issues {
		if issue.ID != ID(i+1) {
			t.Errorf("issues[%d].ID = %d, want %d", i, issue.ID, i+1)
		}
	}
}

func testExists(t *testing.T, s IssueStore) {
	ctx := context.Background()
	id, err := s.Create(ctx, newContractIssue("here"), "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ok, err := s.Exists(ctx, id); err != nil || !ok {
		t.Errorf("Exists(%d) = %v, %v; want true, nil", id, ok, err)
	}
	if ok, err := s.Exists(ctx, id+1); err != nil || ok {
		t.Errorf("Exists(%d) = %v, %v; want false, nil", id+1, ok, err)
	}
}

func testDescription(t *testing.T, s IssueStore) {
	ctx := context.Background()
	id, err := s.Create(ctx, newContractIssue("described"), "# Description\n")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := s.LoadDescription(ctx, id)
	if err != nil {
		t.Fatalf("LoadDescription failed: %v", err)
	}
	if got != "# Description\n" {
		t.Errorf("LoadDescription = %q, want %q", got, "# Description\n")
	}
	if err := s.SaveDescription(ctx, id, "changed"); err != nil {
		t.Fatalf("SaveDescription failed: %v", err)
	}
	got, err = s.LoadDescription(ctx, id)
	if err != nil {
		t.Fatalf("LoadDescription failed: %v", err)
	}
	if got != "changed" {
		t.Errorf("LoadDescription = %q, want %q", got, "changed")
	}
}
