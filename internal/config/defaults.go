package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

//go:embed defaults
var defaultFiles embed.FS

// ErrAlreadyInitialized is returned by WriteDefaults when .gitissues exists.
var ErrAlreadyInitialized = errors.New("already initialized: .gitissues already exists")

// DefaultDescription returns the description template written by init.
func DefaultDescription() string {
	data, err := defaultFiles.ReadFile("defaults/description.md")
	if err != nil {
		panic(fmt.Sprintf("embedded default description: %v", err))
	}
	return string(data)
}

// WriteDefaults creates the .gitissues directory at p.Root with the default
// config.yaml, users.yaml, description.md, .gitignore and settings.yaml.
func WriteDefaults(p Paths) error {
	if _, err := os.Stat(p.Root); err == nil {
		return ErrAlreadyInitialized
	}
	if err := os.MkdirAll(p.Issues, 0755); err != nil {
		return err
	}

	files := []struct{ src, dst string }{
		{"defaults/config.yaml", p.ConfigFile},
		{"defaults/users.yaml", p.UsersFile},
		{"defaults/description.md", p.DescriptionTemplate},
		{"defaults/gitignore", p.GitIgnore},
	}
	for _, f := range files {
		if err := copyDefault(f.src, f.dst); err != nil {
			return err
		}
	}
	_, err := EnsureSettings(p)
	return err
}

// EnsureSettings writes the default settings.yaml if it is missing and
// reports whether it did.
func EnsureSettings(p Paths) (bool, error) {
	_, err := os.Stat(p.SettingsFile)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := copyDefault("defaults/settings.yaml", p.SettingsFile); err != nil {
		return false, err
	}
	return true, nil
}

func copyDefault(src, dst string) error {
	data, err := defaultFiles.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
