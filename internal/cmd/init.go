package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git-issue/internal/config"
	"git-issue/internal/vcs"

	"github.com/spf13/cobra"
)

// newCommitter creates the committer used by init, which runs before an App exists.
var newCommitter = func(repoRoot string) vcs.Committer {
	return vcs.NewGit(repoRoot, nil)
}

// newInitCmd creates the init command.
// Note: init doesn't use the provider's App since it creates .gitissues.
func newInitCmd(provider *AppProvider) *cobra.Command {
	var noCommit bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize .gitissues in the current repository",
		Long: `Create .gitissues/ with the default config.yaml, users.yaml,
settings.yaml and description template, then commit it.

The directory is created in --path, $GIT_ISSUE_DIR or the current directory.
settings.yaml holds per-user settings and is git-ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), provider.out(), provider.searchPath(), noCommit)
		},
	}

	cmd.Flags().BoolVar(&noCommit, "no-commit", false, "Don't create an initial git commit")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, basePath string, noCommit bool) error {
	if basePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		basePath = cwd
	}
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	root := absPath
	if filepath.Base(root) != config.DirName {
		root = filepath.Join(absPath, config.DirName)
	}
	paths := config.NewPaths(root)

	if err := config.WriteDefaults(paths); err != nil {
		if errors.Is(err, config.ErrAlreadyInitialized) {
			return err
		}
		return fmt.Errorf("creating %s: %w", root, err)
	}

	if !noCommit {
		err := newCommitter(paths.RepoRoot()).Commit(ctx, paths.Root, "[issue] init")
		switch {
		case errors.Is(err, vcs.ErrNothingToCommit):
			fmt.Fprintln(out, "Info: Nothing to commit")
		case err != nil:
			return err
		}
	}

	fmt.Fprintf(out, "Initialized %s\n", root)
	return nil
}
