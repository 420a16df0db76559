package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names for git-issue configuration.
// Settings keys are also read from the environment as GIT_ISSUE_<KEY>.
const (
	EnvPrefix     = "GIT_ISSUE"
	EnvDir        = "GIT_ISSUE_DIR"         // Path to .gitissues directory
	EnvCommitAuto = "GIT_ISSUE_COMMIT_AUTO" // Override config.yaml:commit_auto
)

// ApplyEnvOverrides applies environment overrides to cfg in memory.
// These overrides are not persisted to the config file.
func ApplyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvCommitAuto); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCommitAuto, err)
		}
		cfg.CommitAuto = b
	}
	return nil
}
