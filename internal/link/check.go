package link

import (
	"fmt"

	"git-issue/internal/config"
	"git-issue/internal/issuestorage"
)

// Check reports relationship inconsistencies across issues: unknown
// relationship names, self links, links to missing issues and paired links
// whose inverse is missing on the target.
func Check(issues []*issuestorage.Issue, types config.RelationshipTypes) []string {
	byID := make(map[issuestorage.ID]*issuestorage.Issue, len(issues))
	for _, issue := range issues {
		byID[issue.ID] = issue
	}

	var problems []string
	for _, issue := range issues {
		for _, rel := range issue.Relationships {
			relType, ok := types.Lookup(rel.Name)
			if !ok {
				problems = append(problems, fmt.Sprintf("issue %d: unknown relationship %q", issue.ID, rel.Name))
				continue
			}
			for _, target := range rel.IDs {
				switch other, exists := byID[target]; {
				case target == issue.ID:
					problems = append(problems, fmt.Sprintf("issue %d: %s links to itself", issue.ID, rel.Name))
				case !exists:
					problems = append(problems, fmt.Sprintf("issue %d: %s links to missing issue %d", issue.ID, rel.Name, target))
				case relType.Paired() && !other.Relationships.Contains(relType.Link, issue.ID):
					problems = append(problems, fmt.Sprintf("issue %d: %s=%d has no matching %s=%d on issue %d",
						issue.ID, rel.Name, target, relType.Link, issue.ID, target))
				}
			}
		}
	}
	return problems
}
