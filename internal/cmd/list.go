package cmd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"git-issue/internal/export"
	"git-issue/internal/issuestorage"
	"git-issue/internal/query"

	"github.com/spf13/cobra"
)

// newListCmd creates the list command.
func newListCmd(provider *AppProvider) *cobra.Command {
	var (
		columns []string
		filters filterList
		sorts   sortList
		csv     bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issues",
		Long: `List issues as a table.

Filters are field{=|>|<}value and all must match. '=' compares
case-insensitively, '*' matches any text and ',' separates alternatives.
'>' and '<' work on id, priority, due_date, created and updated.
"me" in reporter or assignee filters is the user from settings.yaml.
"description" filters search the description text.

Sorting is field=asc|desc; later sorts break ties of earlier ones. The
default is id=desc. Columns default to config.yaml:list_columns; '*'
selects all.

The listed IDs are remembered for "git issue set '*'".

Examples:
  git issue list
  git issue list --filter state=new,active --filter assignee=me
  git issue list --filter 'priority<P2' --sort due_date=asc
  git issue list --filter 'title=*crash*' --columns id,title,labels
  git issue list --filter 'due_date<2024-07-01' --csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if noColor {
				app.NoColor = true
			}

			issues, err := app.Storage.List(ctx)
			if err != nil {
				return fmt.Errorf("listing issues: %w", err)
			}
			result, err := app.Engine().Query(ctx, issues, query.Options{
				Columns: columns,
				Filters: filters,
				Sorts:   sorts,
			})
			if err != nil {
				return err
			}

			if csv {
				path, err := export.ToFile(app.Paths.ExportsDir, app.Settings.ExportCSVSeparator, app.now(), result)
				if err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "Exported %d issues to %s\n", len(result.Rows), path)
			} else {
				printTable(app, result)
			}

			if app.Cache != nil {
				if err := app.Cache.Save(ctx, result.IDs()); err != nil {
					return fmt.Errorf("caching listed IDs: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().SetNormalizeFunc(normalizeFlagName)
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Comma-separated columns to show ('*' for all)")
	cmd.Flags().Var(&filters, "filter", "Filter field{=|>|<}value (repeatable)")
	cmd.Flags().Var(&sorts, "sort", "Sort field=asc|desc (repeatable)")
	cmd.Flags().BoolVar(&csv, "csv", false, "Write the list to .gitissues/exports/<timestamp>.csv")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Don't color the output")

	return cmd
}

// columnPadding separates table columns.
const columnPadding = 2

// printTable writes result as left-aligned columns.
func printTable(app *App, result *query.Result) {
	widths := make([]int, len(result.Columns))
	for i, col := range result.Columns {
		widths[i] = utf8.RuneCountInString(col)
	}
	for _, row := range result.Rows {
		for i, v := range row.Values {
			widths[i] = max(widths[i], utf8.RuneCountInString(v))
		}
	}
	for i := range widths {
		widths[i] += columnPadding
	}

	color := app.colorEnabled()
	var b strings.Builder
	for i, col := range result.Columns {
		styled := col
		if color {
			styled = app.paint(col, app.Settings.Colors.Header)
		}
		writePadded(&b, styled, col, widths[i])
	}
	b.WriteString("\n")

	if app.Settings.HeaderSeparator {
		for _, w := range widths {
			b.WriteString(strings.Repeat("-", w))
		}
		b.WriteString("\n")
	}

	today := app.now().UTC().Format(issuestorage.DateFormat)
	for _, row := range result.Rows {
		for i, v := range row.Values {
			styled := v
			if color {
				styled = app.colorValue(result.Columns[i], v, today)
			}
			writePadded(&b, styled, v, widths[i])
		}
		b.WriteString("\n")
	}
	fmt.Fprint(app.Out, b.String())
}

// writePadded writes styled followed by the padding plain needs to fill width.
func writePadded(b *strings.Builder, styled, plain string, width int) {
	b.WriteString(styled)
	b.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(plain)))
}

// colorValue highlights the current user and overdue due dates.
func (a *App) colorValue(column, value, today string) string {
	switch column {
	case query.FieldReporter, query.FieldAssignee:
		if me := a.Identity.Current(); me != "" && value == me {
			return a.paint(value, a.Settings.Colors.Me)
		}
	case query.FieldDueDate:
		if issuestorage.ValidDate(value) && value < today {
			return a.paint(value, a.Settings.Colors.DueDateOverdue)
		}
	}
	return value
}
