package cmd

import (
	"errors"
	"fmt"

	"git-issue/internal/link"

	"github.com/spf13/cobra"
)

// newLinkCmd creates the link command.
func newLinkCmd(provider *AppProvider) *cobra.Command {
	var adds, removes linkList

	cmd := &cobra.Command{
		Use:   "link <id> [--add rel=id[,id...]]... [--remove rel=id[,id...]]...",
		Short: "Link an issue to other issues",
		Long: `Add or remove relationships of an issue.

Relationship types come from config.yaml:relationships. Types with a link
are kept in sync on the other issue: "parent" on one side is "child" on the
other and "related" is mirrored as "related". Additions are applied before
removals.

Examples:
  git issue link 3 --add related=4,5
  git issue link 3 --add parent=1 --remove parent=2
  git issue link 3 --remove related=5`,
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

			svc := link.New(app.Storage, app.Config.Relationships,
				link.WithClock(app.now), link.WithLogger(app.Logger))
			n, err := svc.Link(ctx, id, adds, removes)
			if err != nil {
				if errors.Is(err, link.ErrPartialPersistence) {
					fmt.Fprintln(app.Err, app.WarnColor("Warning: some linked issues were not updated; run 'git issue doctor'"))
				}
				return err
			}

			issue, err := app.Storage.Load(ctx, id)
			if err != nil {
				return err
			}
			if err := app.commit(ctx, "links updated", issue); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s Updated relationships of %d issue(s)\n", app.SuccessColor("✓"), n)
			return nil
		},
	}

	cmd.Flags().Var(&adds, "add", "Add relationship=ids (repeatable)")
	cmd.Flags().Var(&removes, "remove", "Remove relationship=ids (repeatable)")
	cmd.MarkFlagsOneRequired("add", "remove")

	return cmd
}
