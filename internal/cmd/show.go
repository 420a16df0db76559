package cmd

import (
	"errors"
	"fmt"
	"strings"

	"git-issue/internal/issuestorage"
	"git-issue/internal/query"

	"github.com/spf13/cobra"
)

// newShowCmd creates the show command.
func newShowCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show issue details",
		Long: `Show every field of an issue, its relationships and its description.

Examples:
  git issue show 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			issue, err := app.Storage.Load(ctx, id)
			if err != nil {
				return err
			}
			description, err := app.Storage.LoadDescription(ctx, id)
			if err != nil && !errors.Is(err, issuestorage.ErrNotFound) {
				return err
			}

			printIssue(app, issue, description)
			return nil
		},
	}

	return cmd
}

func printIssue(app *App, issue *issuestorage.Issue, description string) {
	dash := func(s string) string {
		if s == "" {
			return query.Placeholder
		}
		return s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n\n", issue.ID, issue.Title)
	fields := []struct{ name, value string }{
		{query.FieldState, issue.State},
		{query.FieldType, dash(issue.Type)},
		{query.FieldLabels, dash(strings.Join(issue.Labels, ","))},
		{query.FieldReporter, dash(issue.Reporter)},
		{query.FieldAssignee, dash(issue.Assignee)},
		{query.FieldPriority, issue.Priority.Display()},
		{query.FieldDueDate, dash(issue.DueDate)},
		{query.FieldCreated, issue.Created},
		{query.FieldUpdated, issue.Updated},
	}
	for _, f := range fields {
		fmt.Fprintf(&b, "%-10s %s\n", f.name+":", f.value)
	}

	if len(issue.Relationships) > 0 {
		b.WriteString("\nrelationships:\n")
		for _, rel := range issue.Relationships {
			ids := make([]string, len(rel.IDs))
			for i, id := range rel.IDs {
				ids[i] = "#" + id.String()
			}
			fmt.Fprintf(&b, "  %-10s %s\n", rel.Name+":", dash(strings.Join(ids, ", ")))
		}
	}

	if body := strings.TrimSpace(description); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	fmt.Fprint(app.Out, b.String())
}
