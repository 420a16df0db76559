// Package filesystem implements the IssueStore interface using the local filesystem.
// Each issue is a directory .gitissues/issues/<10-digit id>/ holding meta.yaml
// and description.md.
package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"git-issue/internal/issuestorage"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// MaxIDRetries is the number of times Create retries when another process
// claimed the same ID between the directory scan and the mkdir.
const MaxIDRetries = 20

// File and directory names inside the store.
const (
	IssuesDir       = "issues"
	MetaFile        = "meta.yaml"
	DescriptionFile = "description.md"
)

// idWidth is the zero-padded width of issue directory names.
const idWidth = 10

// FilesystemStorage implements issuestorage.IssueStore using per-issue directories.
type FilesystemStorage struct {
	root string // path to .gitissues directory
}

// New creates a new FilesystemStorage rooted at the given .gitissues directory.
func New(root string) *FilesystemStorage {
	return &FilesystemStorage{root: root}
}

// Init initializes the storage by creating the issues directory.
func (s *FilesystemStorage) Init(ctx context.Context) error {
	return os.MkdirAll(s.issuesDir(), 0755)
}

func (s *FilesystemStorage) issuesDir() string {
	return filepath.Join(s.root, IssuesDir)
}

func (s *FilesystemStorage) issueDir(id issuestorage.ID) string {
	return filepath.Join(s.issuesDir(), dirName(id))
}

func (s *FilesystemStorage) metaPath(id issuestorage.ID) string {
	return filepath.Join(s.issueDir(id), MetaFile)
}

// DescriptionPath returns the path of the issue's description.md.
func (s *FilesystemStorage) DescriptionPath(id issuestorage.ID) string {
	return filepath.Join(s.issueDir(id), DescriptionFile)
}

func dirName(id issuestorage.ID) string {
	return fmt.Sprintf("%0*d", idWidth, uint32(id))
}

// parseDirName returns the ID encoded in an issue directory name.
// Names that are not exactly idWidth digits are not issue directories.
func parseDirName(name string) (issuestorage.ID, bool) {
	if len(name) != idWidth {
		return 0, false
	}
	n, err := strconv.ParseUint(name, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return issuestorage.ID(n), true
}

// checkInitialized returns ErrNotInitialized if the issues directory is missing.
func (s *FilesystemStorage) checkInitialized() error {
	info, err := os.Stat(s.issuesDir())
	if err != nil || !info.IsDir() {
		return issuestorage.ErrNotInitialized
	}
	return nil
}

// writeYAML encodes v as YAML and writes it atomically to path.
func writeYAML(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return atomic.WriteFile(path, &buf)
}

// Load retrieves an issue by ID.
func (s *FilesystemStorage) Load(ctx context.Context, id issuestorage.ID) (*issuestorage.Issue, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}
	path := s.metaPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("issue %d: %w", id, issuestorage.ErrNotFound)
		}
		return nil, err
	}

	var issue issuestorage.Issue
	if err := yaml.Unmarshal(data, &issue); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", issuestorage.ErrMalformed, path, err)
	}
	if issue.ID != id {
		return nil, fmt.Errorf("%w: %s: id %d does not match directory", issuestorage.ErrMalformed, path, issue.ID)
	}
	return &issue, nil
}

// Exists reports whether an issue with the given ID is stored.
func (s *FilesystemStorage) Exists(ctx context.Context, id issuestorage.ID) (bool, error) {
	if err := s.checkInitialized(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.metaPath(id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Save overwrites the metadata of an existing issue.
func (s *FilesystemStorage) Save(ctx context.Context, issue *issuestorage.Issue) error {
	ok, err := s.Exists(ctx, issue.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("issue %d: %w", issue.ID, issuestorage.ErrNotFound)
	}
	return writeYAML(s.metaPath(issue.ID), issue)
}

// List returns all issues in ascending ID order.
// Entries of the issues directory that are not issue directories are skipped.
func (s *FilesystemStorage) List(ctx context.Context) ([]*issuestorage.Issue, error) {
	ids, err := s.ids()
	if err != nil {
		return nil, err
	}
	issues := make([]*issuestorage.Issue, 0, len(ids))
	for _, id := range ids {
		issue, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// ids returns the IDs of all issue directories, ascending.
func (s *FilesystemStorage) ids() ([]issuestorage.ID, error) {
	entries, err := os.ReadDir(s.issuesDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, issuestorage.ErrNotInitialized
		}
		return nil, err
	}
	var ids []issuestorage.ID
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if id, ok := parseDirName(entry.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Create assigns the next sequential ID (highest existing ID + 1) and writes
// the issue and its description.
func (s *FilesystemStorage) Create(ctx context.Context, issue *issuestorage.Issue, description string) (issuestorage.ID, error) {
	for attempt := 0; attempt < MaxIDRetries; attempt++ {
		ids, err := s.ids()
		if err != nil {
			return 0, err
		}
		next := issuestorage.ID(1)
		if len(ids) > 0 {
			next = ids[len(ids)-1] + 1
		}
		if next == 0 {
			return 0, fmt.Errorf("%w: id space exhausted", issuestorage.ErrInvalidID)
		}

		// Mkdir fails if a concurrent create claimed the same ID.
		if err := os.Mkdir(s.issueDir(next), 0755); err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return 0, err
		}

		issue.ID = next
		if err := writeYAML(s.metaPath(next), issue); err != nil {
			os.RemoveAll(s.issueDir(next))
			return 0, err
		}
		if err := atomic.WriteFile(s.DescriptionPath(next), strings.NewReader(description)); err != nil {
			os.RemoveAll(s.issueDir(next))
			return 0, err
		}
		return next, nil
	}
	return 0, fmt.Errorf("failed to allocate issue ID after %d attempts", MaxIDRetries)
}

// LoadDescription returns the raw description body of an issue.
func (s *FilesystemStorage) LoadDescription(ctx context.Context, id issuestorage.ID) (string, error) {
	data, err := os.ReadFile(s.DescriptionPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("description of issue %d: %w", id, issuestorage.ErrNotFound)
		}
		return "", err
	}
	return string(data), nil
}

// SaveDescription overwrites the description body of an existing issue.
func (s *FilesystemStorage) SaveDescription(ctx context.Context, id issuestorage.ID, description string) error {
	ok, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("issue %d: %w", id, issuestorage.ErrNotFound)
	}
	return atomic.WriteFile(s.DescriptionPath(id), strings.NewReader(description))
}
