package issuestorage

import (
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"", PriorityNone, false},
		{"P0", PriorityP0, false},
		{"p3", PriorityP3, false},
		{" P4 ", PriorityP4, false},
		{"P5", PriorityNone, true},
		{"high", PriorityNone, true},
		{"2", PriorityNone, true},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePriority(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPriorityRankOrder(t *testing.T) {
	order := []Priority{PriorityNone, PriorityP0, PriorityP1, PriorityP2, PriorityP3, PriorityP4}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("Rank(%q) >= Rank(%q)", order[i-1], order[i])
		}
	}
}

func TestPriorityDisplay(t *testing.T) {
	if got := PriorityNone.Display(); got != "-" {
		t.Errorf("PriorityNone.Display() = %q, want %q", got, "-")
	}
	if got := PriorityP2.Display(); got != "P2" {
		t.Errorf("PriorityP2.Display() = %q, want %q", got, "P2")
	}
}

func TestValidDate(t *testing.T) {
	tests := map[string]bool{
		"2026-01-30": true,
		"2026-02-30": false,
		"2026-1-30":  false,
		"26-01-30":   false,
		"":           false,
		"2026-01-30T00:00:00Z": false,
	}
	for in, want := range tests {
		if got := ValidDate(in); got != want {
			t.Errorf("ValidDate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTimestampIsUTCSeconds(t *testing.T) {
	loc := time.FixedZone("X", 2*60*60)
	got := Timestamp(time.Date(2026, 3, 4, 10, 11, 12, 999, loc))
	if got != "2026-03-04T08:11:12Z" {
		t.Errorf("Timestamp = %q, want %q", got, "2026-03-04T08:11:12Z")
	}
	if !ValidTimestamp(got) {
		t.Errorf("ValidTimestamp(%q) = false", got)
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID(" 12 "); err != nil || id != 12 {
		t.Errorf("ParseID(\" 12 \") = %d, %v; want 12, nil", id, err)
	}
	for _, bad := range []string{"", "-1", "abc", "4294967296"} {
		if _, err := ParseID(bad); err == nil {
			t.Errorf("ParseID(%q) should fail", bad)
		}
	}
}

func TestRelationshipsKeepInsertionOrder(t *testing.T) {
	var r Relationships
	r.Set("parent", []ID{4})
	r.Set("related", []ID{2, 1})
	r.Set("child", []ID{9})

	data, err := yaml.Marshal(struct {
		Relationships Relationships `yaml:"relationships"`
	}{r})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text := string(data)
	p := strings.Index(text, "parent")
	rel := strings.Index(text, "related")
	c := strings.Index(text, "child")
	if !(p < rel && rel < c) {
		t.Errorf("marshalled order wrong:\n%s", text)
	}

	var back struct {
		Relationships Relationships `yaml:"relationships"`
	}
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	names := back.Relationships.Names()
	if strings.Join(names, ",") != "parent,related,child" {
		t.Errorf("Names = %v, want [parent related child]", names)
	}
	ids, _ := back.Relationships.Get("related")
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 1 {
		t.Errorf("related = %v, want [2 1]", ids)
	}
}

func TestRelationshipsNullList(t *testing.T) {
	var v struct {
		Relationships Relationships `yaml:"relationships"`
	}
	if err := yaml.Unmarshal([]byte("relationships:\n  related: ~\n"), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	ids, ok := v.Relationships.Get("related")
	if !ok || len(ids) != 0 {
		t.Errorf("Get(related) = %v, %v; want empty, true", ids, ok)
	}
}

func TestRelationshipsDeleteAndClone(t *testing.T) {
	var r Relationships
	r.Set("a", []ID{1})
	r.Set("b", []ID{2})
	c := r.Clone()
	r.Delete("a")
	if _, ok := r.Get("a"); ok {
		t.Error("Delete(a) left the entry in place")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("Clone shares state with the original")
	}
}

func TestIssueCloneIsDeep(t *testing.T) {
	issue := &Issue{ID: 1, Labels: []string{"x"}}
	issue.Relationships.Set("related", []ID{2})
	c := issue.Clone()
	c.Labels[0] = "y"
	c.Relationships[0].IDs[0] = 3
	if issue.Labels[0] != "x" || issue.Relationships[0].IDs[0] != 2 {
		t.Errorf("Clone mutated original: %+v", issue)
	}
}
