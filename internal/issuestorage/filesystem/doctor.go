package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"git-issue/internal/issuestorage"
)

// Doctor scans the issues directory and reports structural problems:
// stray entries, missing or malformed meta.yaml and missing description.md.
// It never modifies anything.
func (s *FilesystemStorage) Doctor(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.issuesDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, issuestorage.ErrNotInitialized
		}
		return nil, err
	}

	var problems []string
	for _, entry := range entries {
		name := entry.Name()
		id, ok := parseDirName(name)
		if !ok || !entry.IsDir() {
			problems = append(problems, fmt.Sprintf("stray entry %s in issues directory", name))
			continue
		}
		if _, err := s.Load(ctx, id); err != nil {
			problems = append(problems, fmt.Sprintf("issue %d: %v", id, err))
			continue
		}
		if _, err := os.Stat(filepath.Join(s.issueDir(id), DescriptionFile)); err != nil {
			problems = append(problems, fmt.Sprintf("issue %d: %s is missing", id, DescriptionFile))
		}
	}
	return problems, nil
}
