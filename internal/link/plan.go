package link

import (
	"slices"

	"git-issue/internal/config"
	"git-issue/internal/expr"
	"git-issue/internal/issuestorage"
)

// Action is the kind of a Mutation.
type Action int

const (
	Add Action = iota
	Remove
)

func (a Action) String() string {
	if a == Remove {
		return "remove"
	}
	return "add"
}

// Mutation is one change to one issue's relationship list.
type Mutation struct {
	Issue        issuestorage.ID
	Relationship string
	Target       issuestorage.ID
	Action       Action
}

// Plan expands link requests into mutations: additions first, then removals,
// each in request and target order. Every source mutation of a paired
// relationship is followed by its mirror on the target under the inverse
// name. Relationship names must already be validated.
func Plan(source issuestorage.ID, types config.RelationshipTypes, adds, removes []expr.RelationshipLink) []Mutation {
	var plan []Mutation
	expand := func(reqs []expr.RelationshipLink, action Action) {
		for _, req := range reqs {
			rel, _ := types.Lookup(req.Relationship)
			for _, target := range req.Targets {
				plan = append(plan, Mutation{Issue: source, Relationship: rel.Name, Target: target, Action: action})
				if rel.Paired() {
					plan = append(plan, Mutation{Issue: target, Relationship: rel.Link, Target: source, Action: action})
				}
			}
		}
	}
	expand(adds, Add)
	expand(removes, Remove)
	return plan
}

// Apply performs m on issue and reports whether the relationship list
// changed. Adding a present target or removing an absent one does nothing.
// A list emptied by a removal is dropped from the issue.
func Apply(issue *issuestorage.Issue, m Mutation) bool {
	ids, _ := issue.Relationships.Get(m.Relationship)
	present := slices.Contains(ids, m.Target)

	switch m.Action {
	case Add:
		if present {
			return false
		}
		issue.Relationships.Set(m.Relationship, append(slices.Clone(ids), m.Target))
	case Remove:
		if !present {
			return false
		}
		rest := slices.DeleteFunc(slices.Clone(ids), func(id issuestorage.ID) bool { return id == m.Target })
		if len(rest) == 0 {
			issue.Relationships.Delete(m.Relationship)
		} else {
			issue.Relationships.Set(m.Relationship, rest)
		}
	}
	return true
}

// sameRelationships reports whether a and b hold the same non-empty lists in
// the same order. Empty lists count as absent.
func sameRelationships(a, b issuestorage.Relationships) bool {
	return slices.EqualFunc(nonEmpty(a), nonEmpty(b), func(x, y issuestorage.Relationship) bool {
		return x.Name == y.Name && slices.Equal(x.IDs, y.IDs)
	})
}

func nonEmpty(r issuestorage.Relationships) issuestorage.Relationships {
	return slices.DeleteFunc(r.Clone(), func(rel issuestorage.Relationship) bool { return len(rel.IDs) == 0 })
}
