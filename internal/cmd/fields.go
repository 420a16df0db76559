package cmd

import (
	"fmt"
	"strings"

	"git-issue/internal/issuestorage"
	"git-issue/internal/query"

	"github.com/spf13/pflag"
)

// normalizeFlagName lets --due_date and --labels_add work like their
// dashed forms.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func (a *App) checkState(state string) error {
	if !a.Config.HasState(state) {
		return fmt.Errorf("%w: state %q (valid: %s; configurable in config.yaml:states)",
			query.ErrInvalidValue, state, strings.Join(a.Config.States, ", "))
	}
	return nil
}

func (a *App) checkType(typ string) error {
	if !a.Config.HasType(typ) {
		return fmt.Errorf("%w: type %q (valid: %s or ''; configurable in config.yaml:types)",
			query.ErrInvalidValue, typ, strings.Join(a.Config.Types, ", "))
	}
	return nil
}

// resolveUser resolves "me" and checks the user against users.yaml.
func (a *App) resolveUser(field, value string) (string, error) {
	user, err := a.Identity.Resolve(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	return user, nil
}

func checkDueDate(date string) error {
	if date != "" && !issuestorage.ValidDate(date) {
		return fmt.Errorf("%w: due_date %q: use YYYY-MM-DD or ''", issuestorage.ErrInvalidDate, date)
	}
	return nil
}

func checkTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title cannot be empty", query.ErrInvalidValue)
	}
	return nil
}

// cleanLabels trims labels and drops empty and repeated ones.
func cleanLabels(labels []string) []string {
	var out []string
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
