// Package expr parses the small expression grammars used on the command line:
// filters (field=value, field>value, field<value), sortings (field=asc|desc)
// and relationship links (relationship=id,id,...).
//
// Parsing is purely syntactic. Whether a field exists or a value makes sense
// for it is decided by the query engine and the relationship subsystem.
package expr

import (
	"errors"
	"fmt"
	"strings"

	"git-issue/internal/issuestorage"
)

// ErrSyntax is returned for expressions that do not follow the grammar.
var ErrSyntax = errors.New("invalid expression")

// Operator is the comparison of a Filter.
type Operator int

const (
	Eq Operator = iota
	Gt
	Lt
)

func (o Operator) String() string {
	switch o {
	case Gt:
		return ">"
	case Lt:
		return "<"
	default:
		return "="
	}
}

// Filter is one parsed filter expression.
type Filter struct {
	Field    string
	Operator Operator
	Value    string
}

func (f Filter) String() string {
	return f.Field + f.Operator.String() + f.Value
}

// operators lists the operator characters in the order they are searched for.
var operators = []struct {
	char byte
	op   Operator
}{
	{'=', Eq},
	{'>', Gt},
	{'<', Lt},
}

// ParseFilter parses "<field><op><value>". The operators are tried in the
// order '=', '>', '<'; the first one present in s splits it at its first
// occurrence, so "title=a>b" is an equality filter on "a>b". The value may be
// empty, the field may not.
func ParseFilter(s string) (Filter, error) {
	for _, o := range operators {
		i := strings.IndexByte(s, o.char)
		if i < 0 {
			continue
		}
		field := strings.TrimSpace(s[:i])
		if field == "" {
			return Filter{}, fmt.Errorf("%w: filter %q: missing field name before %q", ErrSyntax, s, string(o.char))
		}
		return Filter{Field: field, Operator: o.op, Value: s[i+1:]}, nil
	}
	return Filter{}, fmt.Errorf("%w: filter %q: expected <field>=<value>, <field>><value> or <field><<value>", ErrSyntax, s)
}

// Direction is the order of a Sorting.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Sorting is one parsed sort key.
type Sorting struct {
	Field     string
	Direction Direction
}

func (s Sorting) String() string {
	return s.Field + "=" + s.Direction.String()
}

// ParseSorting parses "<field>=<asc|desc>". The direction is case-insensitive.
func ParseSorting(s string) (Sorting, error) {
	field, dir, ok := strings.Cut(s, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return Sorting{}, fmt.Errorf("%w: sorting %q: expected <field>=<asc|desc>", ErrSyntax, s)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		return Sorting{Field: field, Direction: Asc}, nil
	case "desc":
		return Sorting{Field: field, Direction: Desc}, nil
	default:
		return Sorting{}, fmt.Errorf("%w: sorting %q: direction must be asc or desc, got %q", ErrSyntax, s, dir)
	}
}

// RelationshipLink is one parsed relationship expression.
type RelationshipLink struct {
	Relationship string
	Targets      []issuestorage.ID
}

func (l RelationshipLink) String() string {
	ids := make([]string, len(l.Targets))
	for i, id := range l.Targets {
		ids[i] = id.String()
	}
	return l.Relationship + "=" + strings.Join(ids, ",")
}

// ParseRelationshipLink parses "<relationship>=<id>[,<id>...]".
// At least one target is required; repeated targets are dropped, keeping the
// first occurrence.
func ParseRelationshipLink(s string) (RelationshipLink, error) {
	name, list, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return RelationshipLink{}, fmt.Errorf("%w: relationship %q: expected <relationship>=<id>[,<id>...]", ErrSyntax, s)
	}
	if strings.TrimSpace(list) == "" {
		return RelationshipLink{}, fmt.Errorf("%w: relationship %q: at least one target id is required", ErrSyntax, s)
	}

	link := RelationshipLink{Relationship: name}
	seen := make(map[issuestorage.ID]bool)
	for _, token := range strings.Split(list, ",") {
		id, err := issuestorage.ParseID(token)
		if err != nil {
			return RelationshipLink{}, fmt.Errorf("%w: relationship %q: target %q is not a valid issue id", ErrSyntax, s, strings.TrimSpace(token))
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		link.Targets = append(link.Targets, id)
	}
	return link, nil
}
