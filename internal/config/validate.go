package config

import (
	"fmt"
	"strings"
)

// reservedNames cannot be used as relationship names: they are issue fields,
// field aliases or query syntax.
var reservedNames = []string{
	"id", "title", "state", "type", "labels", "reporter", "assignee",
	"priority", "due_date", "due-date", "created", "updated", "description", "*",
}

// Validate checks cfg for consistency. It returns an error describing every
// problem found, or nil if the configuration is valid.
func Validate(cfg Config) error {
	var errs []string

	if len(cfg.States) == 0 {
		errs = append(errs, "states: at least one state is required")
	}
	errs = append(errs, checkNames("states", cfg.States)...)
	errs = append(errs, checkNames("types", cfg.Types)...)

	for _, rel := range cfg.Relationships {
		key := "relationships." + rel.Name
		switch {
		case rel.Name == "":
			errs = append(errs, "relationships: empty relationship name")
			continue
		case contains(reservedNames, rel.Name):
			errs = append(errs, fmt.Sprintf("%s: name is reserved", key))
		case strings.ContainsAny(rel.Name, "=, \t"):
			errs = append(errs, fmt.Sprintf("%s: name must not contain '=', ',' or whitespace", key))
		}
		if !rel.Paired() {
			continue
		}
		inverse, ok := cfg.Relationships.Lookup(rel.Link)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: link %q is not a configured relationship", key, rel.Link))
			continue
		}
		if inverse.Link != rel.Name {
			errs = append(errs, fmt.Sprintf(
				"%s: link %q must link back to %q (has %q)", key, rel.Link, rel.Name, inverse.Link))
		}
	}

	if len(cfg.ListColumns) == 0 {
		errs = append(errs, "list_columns: at least one column is required")
	}
	if cfg.CommitAuto && strings.TrimSpace(cfg.CommitMessage) == "" {
		errs = append(errs, "commit_message: required when commit_auto is enabled")
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

// checkNames reports empty and duplicate entries of a name list.
func checkNames(key string, names []string) []string {
	var errs []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			errs = append(errs, fmt.Sprintf("%s: empty name", key))
			continue
		}
		if seen[n] {
			errs = append(errs, fmt.Sprintf("%s: %q listed twice", key, n))
		}
		seen[n] = true
	}
	return errs
}
