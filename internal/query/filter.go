package query

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"git-issue/internal/expr"
	"git-issue/internal/issuestorage"
)

// Me is the sentinel for the current user in reporter and assignee filters.
const Me = "me"

// compiledFilter is a validated filter ready for evaluation.
type compiledFilter struct {
	src   expr.Filter
	field field
	op    expr.Operator

	// Eq
	patterns []*regexp.Regexp
	ids      []issuestorage.ID
	ranks    []int

	// Gt, Lt
	boundID   issuestorage.ID
	boundRank int
	bound     string
}

func invalidValue(f expr.Filter, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %q: %s", ErrInvalidValue, ContextFilter, f.String(), fmt.Sprintf(format, args...))
}

// compileFilter validates f and precompiles its patterns.
func (e *Engine) compileFilter(reg *registry, f expr.Filter) (*compiledFilter, error) {
	fd, err := reg.lookup(f.Field, ContextFilter)
	if err != nil {
		return nil, err
	}
	cf := &compiledFilter{src: f, field: fd, op: f.Operator}

	if f.Operator != expr.Eq {
		if !fd.kind.orderable() {
			return nil, fmt.Errorf("%w: %s: %q: %q supports only '=' (ordering is defined for id, priority, due_date, created and updated)",
				ErrUnsupportedOperator, ContextFilter, f.String(), fd.name)
		}
		return cf, cf.compileBound()
	}

	elements := strings.Split(f.Value, ",")
	switch fd.kind {
	case kindID:
		for _, el := range elements {
			id, err := issuestorage.ParseID(el)
			if err != nil {
				return nil, invalidValue(f, "%q is not an issue id", strings.TrimSpace(el))
			}
			cf.ids = append(cf.ids, id)
		}
		return cf, nil
	case kindPriority:
		for _, el := range elements {
			p, err := issuestorage.ParsePriority(el)
			if err != nil {
				return nil, invalidValue(f, "%v", err)
			}
			cf.ranks = append(cf.ranks, p.Rank())
		}
		return cf, nil
	}

	for _, el := range elements {
		el = strings.TrimSpace(el)
		if fd.kind == kindUser && strings.EqualFold(el, Me) {
			if e.Identity == nil {
				return nil, invalidValue(f, "cannot resolve %q: no current user", Me)
			}
			resolved, err := e.Identity.ResolveMe()
			if err != nil {
				return nil, invalidValue(f, "%v", err)
			}
			el = resolved
		}
		cf.patterns = append(cf.patterns, compilePattern(el))
	}
	if fd.kind == kindDescription && e.Descriptions == nil {
		return nil, fmt.Errorf("%w: %s: %q: descriptions are not available", ErrInvalidField, ContextFilter, f.String())
	}
	return cf, nil
}

// compileBound validates the single value of a Gt or Lt filter.
func (cf *compiledFilter) compileBound() error {
	f := cf.src
	value := strings.TrimSpace(f.Value)
	if strings.Contains(value, ",") {
		return invalidValue(f, "'%s' takes a single value", f.Operator)
	}
	switch cf.field.kind {
	case kindID:
		id, err := issuestorage.ParseID(value)
		if err != nil {
			return invalidValue(f, "%q is not an issue id", value)
		}
		cf.boundID = id
	case kindPriority:
		p, err := issuestorage.ParsePriority(value)
		if err != nil {
			return invalidValue(f, "%v", err)
		}
		cf.boundRank = p.Rank()
	case kindDate:
		if !issuestorage.ValidDate(value) {
			return invalidValue(f, "%q is not a date (YYYY-MM-DD)", value)
		}
		cf.bound = value
	case kindTimestamp:
		if !issuestorage.ValidDate(value) && !issuestorage.ValidTimestamp(value) {
			return invalidValue(f, "%q is not a date (YYYY-MM-DD) or timestamp (YYYY-MM-DDTHH:MM:SSZ)", value)
		}
		cf.bound = value
	}
	return nil
}

// compilePattern turns a wildcard pattern into an anchored, case-insensitive
// regular expression. '*' matches any run of characters, newlines included.
func compilePattern(p string) *regexp.Regexp {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(p)), "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile(`(?s)^` + strings.Join(parts, ".*") + `$`)
}

// Match reports whether value matches the wildcard pattern, with the same
// rules as '=' filters: case-insensitive, trimmed, '*' wildcards and
// comma-separated alternatives.
func Match(value, pattern string) bool {
	for _, p := range strings.Split(pattern, ",") {
		if matchText(compilePattern(p), value) {
			return true
		}
	}
	return false
}

func matchText(re *regexp.Regexp, value string) bool {
	return re.MatchString(strings.ToLower(strings.TrimSpace(value)))
}

// matchAny reports whether any pattern matches value.
func (cf *compiledFilter) matchAny(value string) bool {
	for _, re := range cf.patterns {
		if matchText(re, value) {
			return true
		}
	}
	return false
}

// matchList reports whether any element matches any pattern. An empty list
// matches only an empty filter value.
func (cf *compiledFilter) matchList(values []string) bool {
	if len(values) == 0 {
		return strings.TrimSpace(cf.src.Value) == ""
	}
	for _, v := range values {
		if cf.matchAny(v) {
			return true
		}
	}
	return false
}

func (cf *compiledFilter) match(ctx context.Context, issue *issuestorage.Issue, desc *descriptionCache) (bool, error) {
	if cf.op != expr.Eq {
		return cf.matchOrdered(issue), nil
	}

	switch cf.field.kind {
	case kindID:
		for _, id := range cf.ids {
			if issue.ID == id {
				return true, nil
			}
		}
		return false, nil
	case kindPriority:
		for _, rank := range cf.ranks {
			if issue.Priority.Rank() == rank {
				return true, nil
			}
		}
		return false, nil
	case kindLabels:
		return cf.matchList(issue.Labels), nil
	case kindRelationship:
		ids, _ := issue.Relationships.Get(cf.field.name)
		return cf.matchList(idStrings(ids)), nil
	case kindDescription:
		body, err := desc.load(ctx)
		if err != nil {
			return false, err
		}
		return cf.matchAny(body), nil
	default:
		return cf.matchAny(scalar(issue, cf.field.name)), nil
	}
}

// matchOrdered evaluates Gt and Lt. Dates and timestamps compare as whole
// strings, so a timestamp on the day of a date bound is greater than it.
func (cf *compiledFilter) matchOrdered(issue *issuestorage.Issue) bool {
	var c int
	switch cf.field.kind {
	case kindID:
		c = cmp.Compare(issue.ID, cf.boundID)
	case kindPriority:
		c = cmp.Compare(issue.Priority.Rank(), cf.boundRank)
	default:
		c = strings.Compare(scalar(issue, cf.field.name), cf.bound)
	}
	if cf.op == expr.Gt {
		return c > 0
	}
	return c < 0
}

// descriptionCache loads the description of one issue on first use.
type descriptionCache struct {
	loader DescriptionLoader
	id     issuestorage.ID
	loaded bool
	body   string
}

// load returns the description body. A missing description reads as empty.
func (d *descriptionCache) load(ctx context.Context) (string, error) {
	if d.loaded {
		return d.body, nil
	}
	body, err := d.loader.LoadDescription(ctx, d.id)
	if err != nil && !errors.Is(err, issuestorage.ErrNotFound) {
		return "", fmt.Errorf("loading description of issue %d: %w", d.id, err)
	}
	d.body, d.loaded = body, true
	return body, nil
}
