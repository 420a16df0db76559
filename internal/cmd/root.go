package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"git-issue/internal/config"
	"git-issue/internal/issuestorage/filesystem"
	"git-issue/internal/kvstorage"
	kvfs "git-issue/internal/kvstorage/filesystem"
	"git-issue/internal/logging"
	"git-issue/internal/vcs"

	"github.com/spf13/cobra"
)

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once    sync.Once
	app     *App
	err     error
	closeFn func() error

	// Config captured from flags before Execute()
	Path    string
	Verbose bool
	Out     io.Writer
	Err     io.Writer
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	return p.app, p.err
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a test App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{
		app: app,
		Out: app.Out,
		Err: app.Err,
	}
}

// Close releases resources held by the App, such as the log file.
func (p *AppProvider) Close() error {
	if p.closeFn == nil {
		return nil
	}
	return p.closeFn()
}

func (p *AppProvider) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p *AppProvider) errOut() io.Writer {
	if p.Err == nil {
		return os.Stderr
	}
	return p.Err
}

// searchPath returns the --path flag, falling back to GIT_ISSUE_DIR.
func (p *AppProvider) searchPath() string {
	if p.Path != "" {
		return p.Path
	}
	return os.Getenv(config.EnvDir)
}

func (p *AppProvider) init() (*App, error) {
	root, err := config.FindRoot(p.searchPath())
	if err != nil {
		return nil, fmt.Errorf("%w; run `git issue init` first", err)
	}
	paths := config.NewPaths(root)

	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, err
	}
	users, err := config.LoadUsers(paths.UsersFile)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	created, err := config.EnsureSettings(paths)
	if err != nil {
		return nil, fmt.Errorf("creating settings: %w", err)
	}
	if created {
		fmt.Fprintf(p.out(), "Info: created %s with default values\n", paths.SettingsFile)
	}
	settings, err := config.LoadSettings(paths.SettingsFile)
	if err != nil {
		return nil, err
	}

	logger, closeFn := logging.New(logging.Options{
		Dir:     paths.TmpDir,
		Verbose: p.Verbose,
		Stderr:  p.errOut(),
	})
	p.closeFn = closeFn

	identity := config.NewIdentity(users, settings.User)
	git := vcs.NewGit(paths.RepoRoot(), logger)

	return &App{
		Paths:     paths,
		Storage:   filesystem.New(paths.Root),
		Config:    cfg,
		Identity:  identity,
		Settings:  settings,
		Cache:     kvstorage.NewListCache(kvfs.New(paths.TmpDir), kvstorage.DefaultMaxAge),
		Committer: git,
		Editor:    gitEditor(git),
		Logger:    logger,
		Out:       p.out(),
		Err:       p.errOut(),
	}, nil
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		Out: os.Stdout,
		Err: os.Stderr,
	}
	defer provider.Close()

	rootCmd := newRootCmd(provider)
	return rootCmd.ExecuteContext(context.Background())
}

// keepsListCache names the commands that leave the cached list IDs alone.
var keepsListCache = map[string]bool{
	"list": true,
	"set":  true,
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "git-issue",
		Short: "A git-native issue tracker",
		Long: `git-issue keeps issues as plain files next to your code.
Every issue is a directory .gitissues/issues/<id>/ holding meta.yaml and
description.md, so issues are reviewed, diffed and merged with git like any
other file. Run it as "git issue <command>".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if keepsListCache[cmd.Name()] {
				return nil
			}
			return clearListCache(cmd.Context(), provider)
		},
	}

	// Global flags - these populate the provider config
	rootCmd.PersistentFlags().StringVar(&provider.Path, "path", "", "Path to repo or .gitissues directory (default: search from cwd)")
	rootCmd.PersistentFlags().BoolVarP(&provider.Verbose, "verbose", "v", false, "Also write log output to stderr")

	rootCmd.AddCommand(newInitCmd(provider))
	rootCmd.AddCommand(newNewCmd(provider))
	rootCmd.AddCommand(newListCmd(provider))
	rootCmd.AddCommand(newShowCmd(provider))
	rootCmd.AddCommand(newSetCmd(provider))
	rootCmd.AddCommand(newEditCmd(provider))
	rootCmd.AddCommand(newLinkCmd(provider))
	rootCmd.AddCommand(newSearchCmd(provider))
	rootCmd.AddCommand(newDoctorCmd(provider))

	return rootCmd
}

// clearListCache drops the IDs cached by list. Commands that ran without an
// initialized repository have nothing to clear.
func clearListCache(ctx context.Context, provider *AppProvider) error {
	app, err := provider.Get()
	if err != nil || app.Cache == nil {
		return nil
	}
	if err := app.Cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear list cache: %w", err)
	}
	return nil
}
