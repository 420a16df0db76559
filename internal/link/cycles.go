package link

import (
	"fmt"
	"slices"
	"strings"

	"git-issue/internal/config"
	"git-issue/internal/issuestorage"
)

// Cycles reports loops in directed paired relationships such as
// parent/child. Each pair is checked once, along the type that comes first
// in config order.
func Cycles(issues []*issuestorage.Issue, types config.RelationshipTypes) []string {
	var problems []string
	checked := make(map[string]bool)
	for _, rt := range types {
		if !rt.Paired() || rt.Symmetric() || checked[rt.Link] {
			continue
		}
		checked[rt.Name] = true
		if ids := cyclic(issues, rt.Name); len(ids) > 0 {
			parts := make([]string, len(ids))
			for i, id := range ids {
				parts[i] = id.String()
			}
			problems = append(problems, fmt.Sprintf("%s links form a cycle through issues %s", rt.Name, strings.Join(parts, ", ")))
		}
	}
	return problems
}

// cyclic peels issues without incoming or without outgoing name edges until
// none are left to remove. What remains lies on a cycle or between cycles.
// Self links and links to missing issues are ignored; Check reports them.
func cyclic(issues []*issuestorage.Issue, name string) []issuestorage.ID {
	known := make(map[issuestorage.ID]bool, len(issues))
	for _, issue := range issues {
		known[issue.ID] = true
	}

	inDegree := make(map[issuestorage.ID]int, len(issues))
	outDegree := make(map[issuestorage.ID]int, len(issues))
	succs := make(map[issuestorage.ID][]issuestorage.ID)
	preds := make(map[issuestorage.ID][]issuestorage.ID)
	for _, issue := range issues {
		ids, _ := issue.Relationships.Get(name)
		for _, target := range ids {
			if !known[target] || target == issue.ID {
				continue
			}
			succs[issue.ID] = append(succs[issue.ID], target)
			preds[target] = append(preds[target], issue.ID)
			outDegree[issue.ID]++
			inDegree[target]++
		}
	}

	var queue []issuestorage.ID
	for _, issue := range issues {
		if inDegree[issue.ID] == 0 || outDegree[issue.ID] == 0 {
			queue = append(queue, issue.ID)
		}
	}
	removed := make(map[issuestorage.ID]bool, len(issues))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if removed[id] {
			continue
		}
		removed[id] = true

		for _, next := range succs[id] {
			inDegree[next]--
			if inDegree[next] == 0 && !removed[next] {
				queue = append(queue, next)
			}
		}
		for _, prev := range preds[id] {
			outDegree[prev]--
			if outDegree[prev] == 0 && !removed[prev] {
				queue = append(queue, prev)
			}
		}
	}

	var stuck []issuestorage.ID
	for _, issue := range issues {
		if !removed[issue.ID] {
			stuck = append(stuck, issue.ID)
		}
	}
	slices.Sort(stuck)
	return stuck
}
