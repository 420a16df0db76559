package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"git-issue/internal/expr"
	"git-issue/internal/issuestorage"
)

// comparator orders two issues; negative means a sorts first.
type comparator func(a, b *issuestorage.Issue) int

// defaultSort orders by descending id.
var defaultSort = []expr.Sorting{{Field: FieldID, Direction: expr.Desc}}

// compileSorts validates the sortings and chains them into one comparator,
// each key breaking the ties left by the previous one.
func compileSorts(reg *registry, sorts []expr.Sorting) (comparator, error) {
	if len(sorts) == 0 {
		sorts = defaultSort
	}
	keys := make([]comparator, 0, len(sorts))
	for _, s := range sorts {
		f, err := reg.lookup(s.Field, ContextSort)
		if err != nil {
			return nil, err
		}
		key := fieldComparator(f)
		if s.Direction == expr.Desc {
			asc := key
			key = func(a, b *issuestorage.Issue) int { return asc(b, a) }
		}
		keys = append(keys, key)
	}
	return func(a, b *issuestorage.Issue) int {
		for _, key := range keys {
			if c := key(a, b); c != 0 {
				return c
			}
		}
		return 0
	}, nil
}

// fieldComparator returns the ascending order of a field.
func fieldComparator(f field) comparator {
	switch f.kind {
	case kindID:
		return func(a, b *issuestorage.Issue) int { return cmp.Compare(a.ID, b.ID) }
	case kindPriority:
		return func(a, b *issuestorage.Issue) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) }
	case kindLabels:
		return func(a, b *issuestorage.Issue) int { return slices.Compare(a.Labels, b.Labels) }
	case kindRelationship:
		return func(a, b *issuestorage.Issue) int { return compareRelationship(f.name, a, b) }
	case kindDescription:
		panic(fmt.Sprintf("query: %s is not sortable", f.name))
	default:
		return func(a, b *issuestorage.Issue) int {
			return strings.Compare(scalar(a, f.name), scalar(b, f.name))
		}
	}
}

// compareRelationship compares id lists element-wise. An issue without the
// relationship ranks below every issue that has it, even with an empty list;
// descending sorts reverse this like any other key.
func compareRelationship(name string, a, b *issuestorage.Issue) int {
	aIDs, aOK := a.Relationships.Get(name)
	bIDs, bOK := b.Relationships.Get(name)
	switch {
	case !aOK && !bOK:
		return 0
	case !aOK:
		return -1
	case !bOK:
		return 1
	}
	return slices.Compare(aIDs, bIDs)
}

// sortIssues sorts issues in place, keeping the input order of equal keys.
func sortIssues(issues []*issuestorage.Issue, order comparator) {
	slices.SortStableFunc(issues, order)
}
