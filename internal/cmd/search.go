package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"git-issue/internal/issuestorage"

	"github.com/spf13/cobra"
)

// searchMatch is one description line containing the search text.
type searchMatch struct {
	id   issuestorage.ID
	line string
}

// newSearchCmd creates the search command.
func newSearchCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search issue descriptions",
		Long: `Print every description line that contains the given text.
Matching is case-sensitive.

Examples:
  git issue search "stack trace"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			text := args[0]
			if text == "" {
				return errors.New("search text cannot be empty")
			}

			issues, err := app.Storage.List(ctx)
			if err != nil {
				return err
			}
			var matches []searchMatch
			for _, issue := range issues {
				description, err := app.Storage.LoadDescription(ctx, issue.ID)
				if errors.Is(err, issuestorage.ErrNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				for _, line := range strings.Split(description, "\n") {
					if strings.Contains(line, text) {
						matches = append(matches, searchMatch{id: issue.ID, line: strings.TrimRight(line, "\r")})
					}
				}
			}
			app.logf("search %q: %d matching lines", text, len(matches))

			printSearchResults(app, text, matches)
			return nil
		},
	}

	return cmd
}

// printSearchResults writes matches as an id column and a result column.
func printSearchResults(app *App, text string, matches []searchMatch) {
	headers := []string{"id", "search result"}
	widths := []int{utf8.RuneCountInString(headers[0]), utf8.RuneCountInString(headers[1])}
	for _, m := range matches {
		widths[0] = max(widths[0], len(strconv.FormatUint(uint64(m.id), 10)))
		widths[1] = max(widths[1], utf8.RuneCountInString(m.line))
	}
	for i := range widths {
		widths[i] += columnPadding
	}

	format := app.Settings.Search
	color := app.colorEnabled()
	var b strings.Builder
	for i, h := range headers {
		styled := h
		if color {
			styled = app.paint(h, format.HeaderColor)
		}
		writePadded(&b, styled, h, widths[i])
	}
	b.WriteString("\n")

	if format.HeaderSeparator {
		b.WriteString(strings.Repeat("-", widths[0]+widths[1]))
		b.WriteString("\n")
	}

	for _, m := range matches {
		id := strconv.FormatUint(uint64(m.id), 10)
		writePadded(&b, id, id, widths[0])
		styled := m.line
		if color {
			styled = strings.ReplaceAll(m.line, text, app.paint(text, format.ResultsColor))
		}
		writePadded(&b, styled, m.line, widths[1])
		b.WriteString("\n")
	}
	fmt.Fprint(app.Out, b.String())
}
