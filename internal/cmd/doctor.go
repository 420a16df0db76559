package cmd

import (
	"context"
	"fmt"

	"git-issue/internal/link"

	"github.com/spf13/cobra"
)

// storageDoctor is implemented by stores that can check their own files.
type storageDoctor interface {
	Doctor(ctx context.Context) ([]string, error)
}

// newDoctorCmd creates the doctor command.
func newDoctorCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check issues for inconsistencies",
		Long: `Check .gitissues for inconsistencies.

Checks for:
- Stray entries and malformed meta.yaml files in .gitissues/issues
- Missing description.md files
- States, types and users that config.yaml or users.yaml don't know
- Unknown relationship types, links to missing issues and self links
- Paired relationships without their inverse on the linked issue
- Loops in directed relationships, e.g. an issue that is its own ancestor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var problems []string
			if d, ok := app.Storage.(storageDoctor); ok {
				found, err := d.Doctor(ctx)
				if err != nil {
					return fmt.Errorf("doctor failed: %w", err)
				}
				problems = append(problems, found...)
			}

			// Malformed issues make List fail; they are already reported.
			issues, err := app.Storage.List(ctx)
			if err != nil && len(problems) == 0 {
				return fmt.Errorf("doctor failed: %w", err)
			}
			if err == nil {
				for _, issue := range issues {
					if !app.Config.HasState(issue.State) {
						problems = append(problems, fmt.Sprintf("issue %d: unknown state %q", issue.ID, issue.State))
					}
					if !app.Config.HasType(issue.Type) {
						problems = append(problems, fmt.Sprintf("issue %d: unknown type %q", issue.ID, issue.Type))
					}
					if !app.Identity.Valid(issue.Reporter) {
						problems = append(problems, fmt.Sprintf("issue %d: unknown reporter %q", issue.ID, issue.Reporter))
					}
					if !app.Identity.Valid(issue.Assignee) {
						problems = append(problems, fmt.Sprintf("issue %d: unknown assignee %q", issue.ID, issue.Assignee))
					}
				}
				problems = append(problems, link.Check(issues, app.Config.Relationships)...)
				problems = append(problems, link.Cycles(issues, app.Config.Relationships)...)
			}

			if len(problems) == 0 {
				fmt.Fprintln(app.Out, "No problems found.")
				return nil
			}
			fmt.Fprintf(app.Out, "Found %d problems:\n", len(problems))
			for _, problem := range problems {
				fmt.Fprintf(app.Out, "  - %s\n", problem)
			}
			return nil
		},
	}

	return cmd
}
