package cmd

import (
	"fmt"
	"strings"

	"git-issue/internal/expr"
	"git-issue/internal/issuestorage"

	"github.com/spf13/pflag"
)

// filterList collects repeated --filter expressions.
type filterList []expr.Filter

var _ pflag.Value = (*filterList)(nil)

func (f *filterList) String() string {
	parts := make([]string, len(*f))
	for i, v := range *f {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}

func (f *filterList) Set(s string) error {
	v, err := expr.ParseFilter(s)
	if err != nil {
		return err
	}
	*f = append(*f, v)
	return nil
}

func (f *filterList) Type() string { return "field{=|>|<}value" }

// sortList collects repeated --sort expressions.
type sortList []expr.Sorting

var _ pflag.Value = (*sortList)(nil)

func (s *sortList) String() string {
	parts := make([]string, len(*s))
	for i, v := range *s {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}

func (s *sortList) Set(v string) error {
	sorting, err := expr.ParseSorting(v)
	if err != nil {
		return err
	}
	*s = append(*s, sorting)
	return nil
}

func (s *sortList) Type() string { return "field=asc|desc" }

// linkList collects repeated --add or --remove relationship links.
type linkList []expr.RelationshipLink

var _ pflag.Value = (*linkList)(nil)

func (l *linkList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}

func (l *linkList) Set(s string) error {
	v, err := expr.ParseRelationshipLink(s)
	if err != nil {
		return err
	}
	*l = append(*l, v)
	return nil
}

func (l *linkList) Type() string { return "relationship=id[,id...]" }

// priorityValue is an optional priority flag.
type priorityValue struct {
	p issuestorage.Priority
}

var _ pflag.Value = (*priorityValue)(nil)

func (v *priorityValue) String() string { return v.p.String() }

func (v *priorityValue) Set(s string) error {
	p, err := issuestorage.ParsePriority(s)
	if err != nil {
		return err
	}
	v.p = p
	return nil
}

func (v *priorityValue) Type() string { return "P0..P4" }

// parseIDArg parses a single issue ID argument.
func parseIDArg(arg string) (issuestorage.ID, error) {
	id, err := issuestorage.ParseID(arg)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: IDs start at 1", issuestorage.ErrInvalidID)
	}
	return id, nil
}
