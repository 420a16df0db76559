package config

import (
	"fmt"
	"os"
	"path/filepath"

	"git-issue/internal/issuestorage"
)

// DirName is the name of the tracker directory at the repository root.
const DirName = ".gitissues"

// Paths captures resolved locations inside a .gitissues directory.
type Paths struct {
	Root                string // path to .gitissues directory
	Issues              string // .gitissues/issues
	ConfigFile          string // .gitissues/config.yaml
	UsersFile           string // .gitissues/users.yaml
	SettingsFile        string // .gitissues/settings.yaml
	DescriptionTemplate string // .gitissues/description.md
	TmpDir              string // .gitissues/.tmp (session cache, logs)
	ExportsDir          string // .gitissues/exports
	GitIgnore           string // .gitissues/.gitignore
}

// NewPaths returns the layout of the .gitissues directory at root.
func NewPaths(root string) Paths {
	return Paths{
		Root:                root,
		Issues:              filepath.Join(root, "issues"),
		ConfigFile:          filepath.Join(root, "config.yaml"),
		UsersFile:           filepath.Join(root, "users.yaml"),
		SettingsFile:        filepath.Join(root, "settings.yaml"),
		DescriptionTemplate: filepath.Join(root, "description.md"),
		TmpDir:              filepath.Join(root, ".tmp"),
		ExportsDir:          filepath.Join(root, "exports"),
		GitIgnore:           filepath.Join(root, ".gitignore"),
	}
}

// RepoRoot returns the directory containing .gitissues.
func (p Paths) RepoRoot() string {
	return filepath.Dir(p.Root)
}

// FindRoot locates the .gitissues directory.
// If path is provided it may name either the .gitissues directory itself or
// the directory containing it. Otherwise it walks up from the current
// directory looking for .gitissues.
func FindRoot(path string) (string, error) {
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("cannot access %s: %w", path, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("path is not a directory: %s", path)
		}
		if filepath.Base(path) == DirName {
			return path, nil
		}
		candidate := filepath.Join(path, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		return "", fmt.Errorf("%w (looked in %s)", issuestorage.ErrNotInitialized, path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot get current directory: %w", err)
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, DirName)
		info, err := os.Stat(candidate)
		if err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched from %s to /)", issuestorage.ErrNotInitialized, cwd)
		}
		dir = parent
	}
}
