package query

import (
	"strings"

	"git-issue/internal/issuestorage"
)

// Placeholder is rendered for empty optional values.
const Placeholder = "-"

// scalar returns the raw value of a single-valued field.
func scalar(issue *issuestorage.Issue, name string) string {
	switch name {
	case FieldID:
		return issue.ID.String()
	case FieldTitle:
		return issue.Title
	case FieldState:
		return issue.State
	case FieldType:
		return issue.Type
	case FieldReporter:
		return issue.Reporter
	case FieldAssignee:
		return issue.Assignee
	case FieldPriority:
		return issue.Priority.String()
	case FieldDueDate:
		return issue.DueDate
	case FieldCreated:
		return issue.Created
	case FieldUpdated:
		return issue.Updated
	}
	return ""
}

func idStrings(ids []issuestorage.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// render returns the display value of one field.
func render(issue *issuestorage.Issue, f field) string {
	switch f.kind {
	case kindID, kindTimestamp:
		return scalar(issue, f.name)
	case kindText:
		if f.name == FieldType {
			return orPlaceholder(issue.Type)
		}
		return scalar(issue, f.name)
	case kindPriority:
		return issue.Priority.Display()
	case kindLabels:
		return orPlaceholder(strings.Join(issue.Labels, ","))
	case kindRelationship:
		ids, _ := issue.Relationships.Get(f.name)
		return orPlaceholder(strings.Join(idStrings(ids), ","))
	default:
		return orPlaceholder(scalar(issue, f.name))
	}
}

func project(issue *issuestorage.Issue, columns []field) Row {
	row := Row{ID: issue.ID, Values: make([]string, len(columns))}
	for i, f := range columns {
		row.Values[i] = render(issue, f)
	}
	return row
}
