// Package issuestorage defines the issue record model and the interface for
// issue persistence in git-issue.
package issuestorage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors returned by Store implementations.
var (
	ErrNotFound       = errors.New("issue not found")
	ErrMalformed      = errors.New("issue file is malformed")
	ErrNotInitialized = errors.New("not initialized: .gitissues does not exist")
	ErrInvalidID      = errors.New("invalid issue ID")
	ErrInvalidDate    = errors.New("invalid date")
)

// Timestamp and date layouts used in meta.yaml.
const (
	TimestampFormat = "2006-01-02T15:04:05Z"
	DateFormat      = "2006-01-02"
)

// Timestamp formats t as a UTC, second precision timestamp.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	if len(s) != len(DateFormat) {
		return false
	}
	_, err := time.Parse(DateFormat, s)
	return err == nil
}

// ValidTimestamp reports whether s is a timestamp in TimestampFormat.
func ValidTimestamp(s string) bool {
	if len(s) != len(TimestampFormat) {
		return false
	}
	_, err := time.Parse(TimestampFormat, s)
	return err == nil
}

// ID is the numeric identifier of an issue. IDs start at 1.
type ID uint32

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses a decimal issue ID. Surrounding whitespace is ignored.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID(n), nil
}

// Issue is the metadata of a single issue, persisted as meta.yaml.
// The description body lives next to it and is loaded separately.
type Issue struct {
	ID            ID            `yaml:"id"`
	Title         string        `yaml:"title"`
	State         string        `yaml:"state"`
	Type          string        `yaml:"type"`
	Labels        []string      `yaml:"labels"`
	Reporter      string        `yaml:"reporter"`
	Assignee      string        `yaml:"assignee"`
	Priority      Priority      `yaml:"priority"`
	DueDate       string        `yaml:"due_date"`
	Relationships Relationships `yaml:"relationships"`
	Created       string        `yaml:"created"`
	Updated       string        `yaml:"updated"`
}

// Clone returns a deep copy of the issue.
func (issue *Issue) Clone() *Issue {
	c := *issue
	if issue.Labels != nil {
		c.Labels = append([]string(nil), issue.Labels...)
	}
	c.Relationships = issue.Relationships.Clone()
	return &c
}

// Store is the read/write access the query engine and the relationship
// subsystem need.
type Store interface {
	// Load returns the issue with the given id.
	// Returns ErrNotFound if it doesn't exist and ErrMalformed if meta.yaml
	// cannot be decoded.
	Load(ctx context.Context, id ID) (*Issue, error)

	// Save overwrites the stored metadata of an existing issue.
	// Returns ErrNotFound if the issue doesn't exist.
	Save(ctx context.Context, issue *Issue) error

	// List returns every issue, in ascending ID order.
	List(ctx context.Context) ([]*Issue, error)

	// Exists reports whether an issue with the given id is stored.
	Exists(ctx context.Context, id ID) (bool, error)

	// LoadDescription returns the raw description body of an issue.
	// Returns ErrNotFound if the issue or its description is missing.
	LoadDescription(ctx context.Context, id ID) (string, error)
}

// IssueStore is the full persistence interface used by the CLI.
type IssueStore interface {
	Store

	// Init creates the issues directory.
	Init(ctx context.Context) error

	// Create assigns the next sequential ID to issue, writes it together with
	// the given description and returns the new ID.
	Create(ctx context.Context, issue *Issue, description string) (ID, error)

	// SaveDescription overwrites the description body of an issue.
	SaveDescription(ctx context.Context, id ID, description string) error

	// DescriptionPath returns the path of the description file, for editors.
	DescriptionPath(id ID) string
}
