package issuestorage

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Priority represents the urgency of an issue. The zero value is the empty
// priority, which ranks below P0.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityP0
	PriorityP1
	PriorityP2
	PriorityP3
	PriorityP4
)

// Rank orders priorities: empty < P0 < P1 < P2 < P3 < P4.
func (p Priority) Rank() int {
	return int(p)
}

// String returns the stored form: "" for empty, "P0".."P4" otherwise.
func (p Priority) String() string {
	if p <= PriorityNone || p > PriorityP4 {
		return ""
	}
	return fmt.Sprintf("P%d", int(p)-1)
}

// Display returns the priority for tables, "-" when empty.
func (p Priority) Display() string {
	if s := p.String(); s != "" {
		return s
	}
	return "-"
}

// ParsePriority converts a string to a Priority value.
// Accepts "P0"-"P4" in any case; the empty string is PriorityNone.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityNone, nil
	case "p0":
		return PriorityP0, nil
	case "p1":
		return PriorityP1, nil
	case "p2":
		return PriorityP2, nil
	case "p3":
		return PriorityP3, nil
	case "p4":
		return PriorityP4, nil
	default:
		return PriorityNone, fmt.Errorf("unknown priority %q (allowed: P0, P1, P2, P3, P4 or empty)", s)
	}
}

// MarshalYAML writes priority as its string form.
func (p Priority) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML reads priority from its string form.
func (p *Priority) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("priority must be a string, line %d", value.Line)
	}
	if value.Tag == "!!null" {
		*p = PriorityNone
		return nil
	}
	parsed, err := ParsePriority(value.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
