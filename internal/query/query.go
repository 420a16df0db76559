// Package query filters, sorts and projects issue records.
//
// The set of valid field names depends on the configured relationship types,
// so it is rebuilt for every Query call. All field names and filter values
// are validated before any record is evaluated.
package query

import (
	"context"
	"errors"
	"fmt"

	"git-issue/internal/expr"
	"git-issue/internal/issuestorage"
)

// Sentinel errors returned by Query.
var (
	ErrInvalidField        = errors.New("invalid field")
	ErrInvalidValue        = errors.New("invalid value")
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// Contexts named in validation errors.
const (
	ContextColumns        = "--columns"
	ContextFilter         = "--filter"
	ContextSort           = "--sort"
	ContextDefaultColumns = "config.yaml:list_columns"
)

// AllColumns in a column list expands to every known column.
const AllColumns = "*"

// Identity resolves the "me" sentinel in reporter and assignee filters.
type Identity interface {
	ResolveMe() (string, error)
}

// DescriptionLoader loads description bodies for the description filter.
type DescriptionLoader interface {
	LoadDescription(ctx context.Context, id issuestorage.ID) (string, error)
}

// Engine runs queries over issue records.
type Engine struct {
	// Relationships are the configured relationship type names, in config order.
	Relationships []string
	// DefaultColumns are used when Options.Columns is empty.
	DefaultColumns []string
	// Identity resolves "me". Without one, filters using "me" fail.
	Identity Identity
	// Descriptions loads bodies for description filters. Without one,
	// description filters fail.
	Descriptions DescriptionLoader
}

// Options selects, orders and projects the records of a query.
type Options struct {
	Columns []string
	Filters []expr.Filter
	Sorts   []expr.Sorting
}

// Row is the rendered projection of one issue.
type Row struct {
	ID     issuestorage.ID
	Values []string
}

// Result is the ordered, projected output of a query.
type Result struct {
	Columns []string
	Issues  []*issuestorage.Issue
	Rows    []Row
}

// IDs returns the IDs of the resulting issues in result order.
func (r *Result) IDs() []issuestorage.ID {
	ids := make([]issuestorage.ID, len(r.Issues))
	for i, issue := range r.Issues {
		ids[i] = issue.ID
	}
	return ids
}

// Query filters issues, sorts the survivors and projects them onto the
// resolved columns. Without sortings issues are ordered by descending id.
// The input slice is not modified.
func (e *Engine) Query(ctx context.Context, issues []*issuestorage.Issue, opts Options) (*Result, error) {
	reg := newRegistry(e.Relationships)

	columns, err := e.resolveColumns(reg, opts.Columns)
	if err != nil {
		return nil, err
	}
	filters := make([]*compiledFilter, 0, len(opts.Filters))
	for _, f := range opts.Filters {
		cf, err := e.compileFilter(reg, f)
		if err != nil {
			return nil, err
		}
		filters = append(filters, cf)
	}
	order, err := compileSorts(reg, opts.Sorts)
	if err != nil {
		return nil, err
	}

	var matched []*issuestorage.Issue
	for _, issue := range issues {
		ok, err := e.matchAll(ctx, filters, issue)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, issue)
		}
	}
	sortIssues(matched, order)

	res := &Result{Issues: matched, Rows: make([]Row, len(matched))}
	for _, c := range columns {
		res.Columns = append(res.Columns, c.name)
	}
	for i, issue := range matched {
		res.Rows[i] = project(issue, columns)
	}
	return res, nil
}

// resolveColumns validates the requested columns, falling back to the
// default list. A list containing "*" selects every column.
func (e *Engine) resolveColumns(reg *registry, names []string) ([]field, error) {
	origin := ContextColumns
	if len(names) == 0 {
		names = e.DefaultColumns
		origin = ContextDefaultColumns
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s: no columns given", ErrInvalidField, origin)
	}
	for _, name := range names {
		if normalize(name) == AllColumns {
			return reg.columns, nil
		}
	}
	columns := make([]field, 0, len(names))
	for _, name := range names {
		f, err := reg.lookup(name, origin)
		if err != nil {
			return nil, err
		}
		columns = append(columns, f)
	}
	return columns, nil
}

// matchAll reports whether issue passes every filter. Description bodies are
// loaded at most once per issue.
func (e *Engine) matchAll(ctx context.Context, filters []*compiledFilter, issue *issuestorage.Issue) (bool, error) {
	desc := &descriptionCache{loader: e.Descriptions, id: issue.ID}
	for _, f := range filters {
		ok, err := f.match(ctx, issue, desc)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
