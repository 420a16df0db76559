package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"git-issue/internal/issuestorage"
	"git-issue/internal/vcs"

	"github.com/spf13/cobra"
)

// newEditCmd creates the edit command.
func newEditCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an issue description in your editor",
		Long: `Open description.md of an issue in your editor.

The editor comes from settings.yaml:editor. The value "git" uses git's
core.editor, then $EDITOR, then $VISUAL, then vi.

If the description is unchanged after editing, no update is made.

Examples:
  git issue edit 12`,
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
			before, err := app.Storage.LoadDescription(ctx, id)
			if err != nil {
				if !errors.Is(err, issuestorage.ErrNotFound) {
					return err
				}
				if err := app.Storage.SaveDescription(ctx, id, ""); err != nil {
					return fmt.Errorf("creating description: %w", err)
				}
			}

			if app.Editor == nil {
				return fmt.Errorf("no editor configured")
			}
			if err := app.Editor(ctx, app.Settings.Editor, app.Storage.DescriptionPath(id)); err != nil {
				return err
			}

			after, err := app.Storage.LoadDescription(ctx, id)
			if err != nil {
				return fmt.Errorf("reading edited description: %w", err)
			}
			if after == before {
				fmt.Fprintf(app.Out, "No changes for #%d\n", id)
				return nil
			}

			issue.Updated = issuestorage.Timestamp(app.now())
			if err := app.Storage.Save(ctx, issue); err != nil {
				return fmt.Errorf("updating issue: %w", err)
			}
			app.logf("issue %d: description edited", id)
			if err := app.commit(ctx, "edit description", issue); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s Updated description of #%d\n", app.SuccessColor("✓"), id)
			return nil
		},
	}

	return cmd
}

// gitEditor returns an EditorFunc that resolves the "git" editor setting
// through git's core.editor.
func gitEditor(git *vcs.Git) EditorFunc {
	return func(ctx context.Context, editor, path string) error {
		if editor == "git" || editor == "" {
			editor = ""
			if git != nil {
				if e, err := git.CoreEditor(ctx); err == nil {
					editor = e
				}
			}
		}
		if editor == "" {
			editor = os.Getenv("EDITOR")
		}
		if editor == "" {
			editor = os.Getenv("VISUAL")
		}
		if editor == "" {
			editor = "vi"
		}
		return runEditor(ctx, editor, path)
	}
}

// runEditor runs an editor command line, which may carry arguments, on path.
func runEditor(ctx context.Context, editor, path string) error {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("no editor command specified")
	}
	editorCmd := exec.CommandContext(ctx, parts[0], append(parts[1:], path)...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}
	return nil
}
