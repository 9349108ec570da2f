package retention

import (
	"context"
	"fmt"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
)

// PreviewResult describes what a cleanup with the same arguments would
// delete.
type PreviewResult struct {
	Count  int       `json:"count"`
	IDs    []string  `json:"ids"`
	Cutoff time.Time `json:"cutoff"`
}

// CleanupResult summarizes a cleanup run.
type CleanupResult struct {
	DeletedCount   int64     `json:"deletedCount"`
	AttemptedCount int64     `json:"attemptedCount"`
	Failed         bool      `json:"failed"`
	Cutoff         time.Time `json:"-"`
}

// Archiver stores eligible records somewhere durable before they are deleted.
type Archiver interface {
	Archive(ctx context.Context, records []*assessment.Assessment, now time.Time) error
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithArchiver archives eligible records between the select and delete
// phases of Cleanup.
func WithArchiver(a Archiver) ServiceOption {
	return func(s *Service) {
		s.archiver = a
	}
}

// Service computes and removes expired assessments.
type Service struct {
	repo     assessment.Repository
	archiver Archiver
}

// NewService creates a retention service over repo.
func NewService(repo assessment.Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preview returns the ids a Cleanup with the same arguments would target,
// oldest first. Nothing is deleted. Store failures are returned unchanged.
func (s *Service) Preview(ctx context.Context, now time.Time, window time.Duration) (*PreviewResult, error) {
	policy, err := policyFor(window)
	if err != nil {
		return nil, err
	}
	cutoff := policy.Cutoff(now)

	records, err := s.repo.FindOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	ids := idsOf(records)
	return &PreviewResult{
		Count:  len(ids),
		IDs:    ids,
		Cutoff: cutoff,
	}, nil
}

// Cleanup selects every assessment older than the window and deletes it.
//
// On failure the returned error is a *CleanupFailedError and the result is
// non-nil with Failed set. A select or archive failure deletes nothing. A
// delete failure reports the rows removed before it.
func (s *Service) Cleanup(ctx context.Context, now time.Time, window time.Duration) (*CleanupResult, error) {
	policy, err := policyFor(window)
	if err != nil {
		return nil, err
	}
	cutoff := policy.Cutoff(now)
	result := &CleanupResult{Cutoff: cutoff}

	records, err := s.repo.FindOlderThan(ctx, cutoff)
	if err != nil {
		result.Failed = true
		return result, NewCleanupFailedError(PhaseSelect, 0, 0, err)
	}

	ids := idsOf(records)
	result.AttemptedCount = int64(len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, records, now); err != nil {
			result.Failed = true
			return result, NewCleanupFailedError(PhaseArchive, 0, result.AttemptedCount, err)
		}
	}

	deleted, err := s.repo.DeleteByIDs(ctx, ids)
	result.DeletedCount = deleted
	if err != nil {
		result.Failed = true
		return result, NewCleanupFailedError(PhaseDelete, deleted, result.AttemptedCount, err)
	}

	return result, nil
}

func policyFor(window time.Duration) (Policy, error) {
	policy, err := NewPolicy(window)
	if err != nil {
		return Policy{}, fmt.Errorf("%w: %s", ErrInvalidWindow, window)
	}
	return policy, nil
}

func idsOf(records []*assessment.Assessment) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}
