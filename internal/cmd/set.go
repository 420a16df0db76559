package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"git-issue/internal/issuestorage"

	"github.com/spf13/cobra"
)

// ErrNoFieldsChanged is returned by set when no issue needed an update.
var ErrNoFieldsChanged = errors.New("no fields changed")

// fieldChanges holds the validated values of the set flags. A nil pointer
// leaves the field alone.
type fieldChanges struct {
	title, state, issueType, reporter, assignee, dueDate *string
	priority                                            *issuestorage.Priority
	labels, labelsAdd, labelsRemove                     []string
	replaceLabels                                       bool
}

// newSetCmd creates the set command.
func newSetCmd(provider *AppProvider) *cobra.Command {
	var (
		title        string
		state        string
		issueType    string
		reporter     string
		assignee     string
		priority     priorityValue
		dueDate      string
		labels       []string
		labelsAdd    []string
		labelsRemove []string
	)

	cmd := &cobra.Command{
		Use:   "set <id>[,<id>...] | '*'",
		Short: "Change issue fields",
		Long: `Change fields of one or more issues.

IDs may be given as separate arguments or comma-separated. '*' selects the
issues of the latest "git issue list" (for five minutes after it ran).
Issues whose fields already have the given values are left untouched.

Examples:
  git issue set 12 --state active --assignee me
  git issue set 3,4,9 --priority P1
  git issue set 7 --labels-add ui --labels-remove triage
  git issue set 7 --due-date ''
  git issue set '*' --state closed`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			ids, err := setTargets(ctx, app, args)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var ch fieldChanges
			if flags.Changed("title") {
				if err := checkTitle(title); err != nil {
					return err
				}
				v := strings.TrimSpace(title)
				ch.title = &v
			}
			if flags.Changed("state") {
				v := strings.TrimSpace(state)
				if err := app.checkState(v); err != nil {
					return err
				}
				ch.state = &v
			}
			if flags.Changed("type") {
				v := strings.TrimSpace(issueType)
				if err := app.checkType(v); err != nil {
					return err
				}
				ch.issueType = &v
			}
			if flags.Changed("reporter") {
				v, err := app.resolveUser("reporter", reporter)
				if err != nil {
					return err
				}
				ch.reporter = &v
			}
			if flags.Changed("assignee") {
				v, err := app.resolveUser("assignee", assignee)
				if err != nil {
					return err
				}
				ch.assignee = &v
			}
			if flags.Changed("priority") {
				ch.priority = &priority.p
			}
			if flags.Changed("due-date") {
				v := strings.TrimSpace(dueDate)
				if err := checkDueDate(v); err != nil {
					return err
				}
				ch.dueDate = &v
			}
			if flags.Changed("labels") {
				ch.replaceLabels = true
				ch.labels = cleanLabels(labels)
			}
			ch.labelsAdd = cleanLabels(labelsAdd)
			ch.labelsRemove = cleanLabels(labelsRemove)

			updated, err := applySet(ctx, app, ids, ch)
			if err != nil {
				return err
			}
			switch len(updated) {
			case 0:
				return ErrNoFieldsChanged
			case 1:
				fmt.Fprintf(app.Out, "%s Updated issue #%d\n", app.SuccessColor("✓"), updated[0])
			default:
				fmt.Fprintf(app.Out, "%s Updated %d issues\n", app.SuccessColor("✓"), len(updated))
			}
			return nil
		},
	}

	cmd.Flags().SetNormalizeFunc(normalizeFlagName)
	cmd.Flags().StringVar(&title, "title", "", "Issue title")
	cmd.Flags().StringVar(&state, "state", "", "State (see config.yaml:states)")
	cmd.Flags().StringVar(&issueType, "type", "", "Issue type (see config.yaml:types, or '')")
	cmd.Flags().StringVar(&reporter, "reporter", "", "Reporter (users.yaml id, 'me' or '')")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee (users.yaml id, 'me' or '')")
	cmd.Flags().Var(&priority, "priority", "Priority P0 (highest) to P4, or ''")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "Due date YYYY-MM-DD, or ''")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Replace all labels")
	cmd.Flags().StringSliceVar(&labelsAdd, "labels-add", nil, "Add labels")
	cmd.Flags().StringSliceVar(&labelsRemove, "labels-remove", nil, "Remove labels")
	cmd.MarkFlagsMutuallyExclusive("labels", "labels-add")
	cmd.MarkFlagsMutuallyExclusive("labels", "labels-remove")

	return cmd
}

// setTargets resolves the ID arguments of set. A lone '*' selects the IDs
// cached by the latest list.
func setTargets(ctx context.Context, app *App, args []string) ([]issuestorage.ID, error) {
	var ids []issuestorage.ID
	if len(args) == 1 && strings.TrimSpace(args[0]) == "*" {
		if app.Cache == nil {
			return nil, fmt.Errorf("no list cache available")
		}
		cached, err := app.Cache.Load(ctx)
		if err != nil {
			return nil, err
		}
		ids = cached
	} else {
		for _, arg := range args {
			for _, part := range strings.Split(arg, ",") {
				if strings.TrimSpace(part) == "*" {
					return nil, fmt.Errorf("cannot mix '*' with explicit IDs")
				}
				id, err := parseIDArg(part)
				if err != nil {
					return nil, err
				}
				if !slices.Contains(ids, id) {
					ids = append(ids, id)
				}
			}
		}
	}

	for _, id := range ids {
		ok, err := app.Storage.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("issue %d: %w", id, issuestorage.ErrNotFound)
		}
	}
	return ids, nil
}

// applySet updates every issue in ids and returns the IDs that changed.
func applySet(ctx context.Context, app *App, ids []issuestorage.ID, ch fieldChanges) ([]issuestorage.ID, error) {
	var updated []issuestorage.ID
	for _, id := range ids {
		issue, err := app.Storage.Load(ctx, id)
		if err != nil {
			return updated, err
		}
		fields := ch.apply(issue)
		if len(fields) == 0 {
			continue
		}
		issue.Updated = issuestorage.Timestamp(app.now())
		if err := app.Storage.Save(ctx, issue); err != nil {
			return updated, fmt.Errorf("saving issue %d: %w", id, err)
		}
		app.logf("issue %d: set %s", id, strings.Join(fields, ","))
		updated = append(updated, id)
		if err := app.commit(ctx, "set "+strings.Join(fields, ","), issue); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// apply writes the changes into issue and returns the names of the fields
// whose value actually changed.
func (ch fieldChanges) apply(issue *issuestorage.Issue) []string {
	var fields []string
	setString := func(name string, dst *string, v *string) {
		if v != nil && *dst != *v {
			*dst = *v
			fields = append(fields, name)
		}
	}
	setString("title", &issue.Title, ch.title)
	setString("state", &issue.State, ch.state)
	setString("type", &issue.Type, ch.issueType)
	setString("reporter", &issue.Reporter, ch.reporter)
	setString("assignee", &issue.Assignee, ch.assignee)
	if ch.priority != nil && issue.Priority != *ch.priority {
		issue.Priority = *ch.priority
		fields = append(fields, "priority")
	}
	setString("due_date", &issue.DueDate, ch.dueDate)

	labels := slices.Clone(issue.Labels)
	if ch.replaceLabels {
		labels = slices.Clone(ch.labels)
	}
	for _, l := range ch.labelsAdd {
		if !slices.Contains(labels, l) {
			labels = append(labels, l)
		}
	}
	labels = slices.DeleteFunc(labels, func(l string) bool { return slices.Contains(ch.labelsRemove, l) })
	if !slices.Equal(labels, issue.Labels) {
		issue.Labels = labels
		fields = append(fields, "labels")
	}
	return fields
}
