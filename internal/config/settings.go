package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// Settings represents the per-user .gitissues/settings.yaml, with
// GIT_ISSUE_* environment variables taking precedence over the file.
type Settings struct {
	User               string
	Editor             string
	ExportCSVSeparator rune
	HeaderSeparator    bool
	Colors             Colors
	Search             SearchFormatting
}

// SearchFormatting controls the output of search.
type SearchFormatting struct {
	HeaderSeparator bool
	HeaderColor     string
	ResultsColor    string
}

// Colors holds the color names used by list output.
type Colors struct {
	Header         string
	Me             string
	DueDateOverdue string
}

// colorCodes maps color names to ANSI SGR parameters.
var colorCodes = map[string]string{
	"none":    "",
	"bold":    "1",
	"black":   "30",
	"red":     "31",
	"green":   "32",
	"yellow":  "33",
	"blue":    "34",
	"magenta": "35",
	"cyan":    "36",
	"white":   "37",
	"orange":  "38;5;214",
}

// ColorCode returns the ANSI SGR parameter for a color name.
func ColorCode(name string) (string, bool) {
	code, ok := colorCodes[strings.ToLower(name)]
	return code, ok
}

// newSettingsViper returns a viper instance with defaults and environment
// binding for settings.yaml.
// E.g., GIT_ISSUE_USER, GIT_ISSUE_LIST_FORMATTING_COLORS_ME.
func newSettingsViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("user", "")
	v.SetDefault("editor", "git")
	v.SetDefault("export_csv_separator", ",")
	v.SetDefault("list_formatting.header_separator", true)
	v.SetDefault("list_formatting.colors.header", "bold")
	v.SetDefault("list_formatting.colors.me", "green")
	v.SetDefault("list_formatting.colors.due_date_overdue", "red")
	v.SetDefault("search_formatting.header_separator", true)
	v.SetDefault("search_formatting.colors.header", "bold")
	v.SetDefault("search_formatting.colors.results", "yellow")
	return v
}

// LoadSettings reads settings.yaml from path. A missing file yields the
// defaults.
func LoadSettings(path string) (Settings, error) {
	v := newSettingsViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	s := Settings{
		User:            strings.TrimSpace(v.GetString("user")),
		Editor:          strings.TrimSpace(v.GetString("editor")),
		HeaderSeparator: v.GetBool("list_formatting.header_separator"),
		Colors: Colors{
			Header:         v.GetString("list_formatting.colors.header"),
			Me:             v.GetString("list_formatting.colors.me"),
			DueDateOverdue: v.GetString("list_formatting.colors.due_date_overdue"),
		},
		Search: SearchFormatting{
			HeaderSeparator: v.GetBool("search_formatting.header_separator"),
			HeaderColor:     v.GetString("search_formatting.colors.header"),
			ResultsColor:    v.GetString("search_formatting.colors.results"),
		},
	}

	var errs []string
	sep := v.GetString("export_csv_separator")
	if utf8.RuneCountInString(sep) != 1 {
		errs = append(errs, fmt.Sprintf("export_csv_separator: must be a single character, got %q", sep))
	} else {
		s.ExportCSVSeparator, _ = utf8.DecodeRuneInString(sep)
	}
	for key, name := range map[string]string{
		"list_formatting.colors.header":           s.Colors.Header,
		"list_formatting.colors.me":               s.Colors.Me,
		"list_formatting.colors.due_date_overdue": s.Colors.DueDateOverdue,
		"search_formatting.colors.header":         s.Search.HeaderColor,
		"search_formatting.colors.results":        s.Search.ResultsColor,
	} {
		if _, ok := ColorCode(name); !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown color %q", key, name))
		}
	}
	if len(errs) > 0 {
		return Settings{}, fmt.Errorf("settings validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return s, nil
}
