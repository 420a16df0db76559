// Package link maintains relationships between issues. Links of paired
// relationship types are mirrored onto the linked issue under the inverse
// type so both sides stay consistent.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"git-issue/internal/config"
	"git-issue/internal/expr"
	"git-issue/internal/issuestorage"
)

// Sentinel errors returned by Link.
var (
	ErrNoRequest           = errors.New("nothing to link: give at least one relationship to add or remove")
	ErrUnknownRelationship = errors.New("unknown relationship")
	ErrSelfLink            = errors.New("an issue cannot be linked to itself")
	ErrNoChange            = errors.New("no changes made to relationships")
	ErrPartialPersistence  = errors.New("relationships were only partially saved")
)

// Service applies link requests to stored issues.
type Service struct {
	store  issuestorage.Store
	types  config.RelationshipTypes
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger that records persisted changes. A nil logger
// is ignored.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Service over store using the configured relationship types.
func New(store issuestorage.Store, types config.RelationshipTypes, opts ...Option) *Service {
	s := &Service{
		store:  store,
		types:  types,
		now:    time.Now,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Link adds and removes relationships of issue id and returns the number of
// issues written.
//
// Every request is validated before anything is written: the source and all
// targets must exist, every relationship must be configured and no target
// may be the source itself. Additions are applied before removals. The call
// fails with ErrNoChange if the source would end up unchanged.
//
// The source is saved first, then every changed target in the order it was
// first touched. Writes are not transactional: if a target cannot be saved
// the error wraps ErrPartialPersistence and earlier writes stay in place.
func (s *Service) Link(ctx context.Context, id issuestorage.ID, adds, removes []expr.RelationshipLink) (int, error) {
	if len(adds) == 0 && len(removes) == 0 {
		return 0, ErrNoRequest
	}
	if err := s.validate(id, adds, removes); err != nil {
		return 0, err
	}

	source, err := s.store.Load(ctx, id)
	if err != nil {
		return 0, err
	}

	plan := Plan(id, s.types, adds, removes)

	// Load every touched issue once; check that unpaired targets exist.
	originals := map[issuestorage.ID]*issuestorage.Issue{id: source}
	working := map[issuestorage.ID]*issuestorage.Issue{id: source.Clone()}
	order := []issuestorage.ID{id}
	for _, m := range plan {
		if err := s.touch(ctx, m, originals, working, &order); err != nil {
			return 0, err
		}
	}

	for _, m := range plan {
		Apply(working[m.Issue], m)
	}

	var changed []*issuestorage.Issue
	for _, touched := range order {
		if sameRelationships(originals[touched].Relationships, working[touched].Relationships) {
			if touched == id {
				return 0, fmt.Errorf("issue %d: %w", id, ErrNoChange)
			}
			continue
		}
		changed = append(changed, working[touched])
	}

	now := issuestorage.Timestamp(s.now())
	for i, issue := range changed {
		issue.Updated = now
		if err := s.store.Save(ctx, issue); err != nil {
			if i == 0 {
				return 0, fmt.Errorf("saving issue %d: %w", issue.ID, err)
			}
			return i, fmt.Errorf("%w: saved %d of %d issues, issue %d: %w",
				ErrPartialPersistence, i, len(changed), issue.ID, err)
		}
		s.logger.Printf("issue %d: relationships saved", issue.ID)
	}
	return len(changed), nil
}

// validate checks the requests that need no storage access.
func (s *Service) validate(id issuestorage.ID, adds, removes []expr.RelationshipLink) error {
	for _, reqs := range [][]expr.RelationshipLink{adds, removes} {
		for _, req := range reqs {
			if _, ok := s.types.Lookup(req.Relationship); !ok {
				return fmt.Errorf("%w %q (configured: %v)", ErrUnknownRelationship, req.Relationship, s.types.Names())
			}
			if len(req.Targets) == 0 {
				return fmt.Errorf("%w: %s has no targets", expr.ErrSyntax, req.Relationship)
			}
			for _, target := range req.Targets {
				if target == id {
					return fmt.Errorf("%w: %s=%d on issue %d", ErrSelfLink, req.Relationship, target, id)
				}
			}
		}
	}
	return nil
}

// touch makes sure the issues m refers to are loaded, recording first-touch
// order. Targets of unpaired relationships are only checked for existence.
func (s *Service) touch(ctx context.Context, m Mutation,
	originals, working map[issuestorage.ID]*issuestorage.Issue, order *[]issuestorage.ID) error {

	if _, loaded := working[m.Issue]; !loaded {
		issue, err := s.store.Load(ctx, m.Issue)
		if err != nil {
			return err
		}
		originals[m.Issue] = issue
		working[m.Issue] = issue.Clone()
		*order = append(*order, m.Issue)
	}
	if _, loaded := working[m.Target]; loaded {
		return nil
	}
	ok, err := s.store.Exists(ctx, m.Target)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("target issue %d: %w", m.Target, issuestorage.ErrNotFound)
	}
	return nil
}
