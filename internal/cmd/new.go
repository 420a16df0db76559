package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"git-issue/internal/config"
	"git-issue/internal/issuestorage"

	"github.com/spf13/cobra"
)

// newNewCmd creates the new command.
func newNewCmd(provider *AppProvider) *cobra.Command {
	var (
		issueType string
		reporter  string
		assignee  string
		priority  priorityValue
		dueDate   string
		labels    []string
	)

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new issue",
		Long: `Create a new issue with the next free ID.

The issue starts in the first state of config.yaml:states. Its description
is copied from .gitissues/description.md; edit it with "git issue edit".
Reporter and assignee take a users.yaml id, "me" or ''. The reporter
defaults to the current user.

Examples:
  git issue new "Login fails on Safari"
  git issue new "Add CSV export" --type feature --priority P2
  git issue new "Crash on start" --assignee me --due-date 2024-06-30
  git issue new "Tidy docs" --labels docs,good-first-issue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			title := strings.TrimSpace(args[0])
			if err := checkTitle(title); err != nil {
				return err
			}
			issue := &issuestorage.Issue{
				Title:    title,
				State:    app.Config.InitialState(),
				Type:     strings.TrimSpace(issueType),
				Priority: priority.p,
				DueDate:  strings.TrimSpace(dueDate),
				Labels:   cleanLabels(labels),
			}
			if err := app.checkType(issue.Type); err != nil {
				return err
			}
			if err := checkDueDate(issue.DueDate); err != nil {
				return err
			}
			if !cmd.Flags().Changed("reporter") && app.Identity.Valid(app.Identity.Current()) {
				reporter = app.Identity.Current()
			}
			if issue.Reporter, err = app.resolveUser("reporter", reporter); err != nil {
				return err
			}
			if issue.Assignee, err = app.resolveUser("assignee", assignee); err != nil {
				return err
			}

			now := issuestorage.Timestamp(app.now())
			issue.Created, issue.Updated = now, now

			id, err := createIssue(ctx, app, issue)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s Created issue #%d\n", app.SuccessColor("✓"), id)
			return nil
		},
	}

	cmd.Flags().SetNormalizeFunc(normalizeFlagName)
	cmd.Flags().StringVar(&issueType, "type", "", "Issue type (see config.yaml:types, or '')")
	cmd.Flags().StringVar(&reporter, "reporter", "", "Reporter (users.yaml id, 'me' or '')")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee (users.yaml id, 'me' or '')")
	cmd.Flags().Var(&priority, "priority", "Priority P0 (highest) to P4, or ''")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "Due date YYYY-MM-DD, or ''")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Comma-separated labels")

	return cmd
}

// createIssue stores issue with the description template and commits it.
func createIssue(ctx context.Context, app *App, issue *issuestorage.Issue) (issuestorage.ID, error) {
	description, err := descriptionTemplate(app.Paths)
	if err != nil {
		return 0, err
	}
	id, err := app.Storage.Create(ctx, issue, description)
	if err != nil {
		return 0, fmt.Errorf("creating issue: %w", err)
	}
	issue.ID = id
	app.logf("issue %d: created", id)
	if err := app.commit(ctx, "new", issue); err != nil {
		return id, err
	}
	return id, nil
}

// descriptionTemplate reads .gitissues/description.md, falling back to the
// built-in template when the file was removed.
func descriptionTemplate(p config.Paths) (string, error) {
	data, err := os.ReadFile(p.DescriptionTemplate)
	if errors.Is(err, fs.ErrNotExist) {
		return config.DefaultDescription(), nil
	}
	if err != nil {
		return "", fmt.Errorf("reading description template: %w", err)
	}
	return string(data), nil
}
