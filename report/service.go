package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ScoreInvalidator recomputes the stored trust score for a business after a
// scoring-relevant fact changed. Satisfied by the trust engine.
type ScoreInvalidator interface {
	Recompute(ctx context.Context, businessID string) (int, error)
}

// Service exposes report submission and moderation.
type Service struct {
	repo        Repository
	scores      ScoreInvalidator
	log         zerolog.Logger
	idGenerator func() string
}

// NewService creates a new report service.
func NewService(repo Repository, scores ScoreInvalidator, log zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		scores:      scores,
		log:         log,
		idGenerator: func() string { return uuid.NewString() },
	}
}

// WithIDGenerator overrides id generation, for tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

// Create files an open report and refreshes the business's trust score. The
// report is committed before the recompute so the new open report is counted.
// If the recompute fails the report still stands: the caller sees success and
// the stale score is logged for repair.
func (s *Service) Create(ctx context.Context, params CreateParams) (Report, error) {
	if params.BusinessID == "" {
		return Report{}, fmt.Errorf("report: missing business id")
	}
	if strings.TrimSpace(params.Reason) == "" {
		return Report{}, fmt.Errorf("report: reason required")
	}
	if strings.TrimSpace(params.Description) == "" {
		return Report{}, fmt.Errorf("report: description required")
	}

	created, err := s.repo.Create(ctx, Report{
		ID:          s.idGenerator(),
		BusinessID:  params.BusinessID,
		Reason:      strings.TrimSpace(params.Reason),
		Description: strings.TrimSpace(params.Description),
	})
	if err != nil {
		return Report{}, err
	}

	if _, err := s.scores.Recompute(ctx, created.BusinessID); err != nil {
		s.log.Warn().Err(err).Str("business_id", created.BusinessID).Str("report_id", created.ID).
			Msg("trust score stale after report")
	}

	return created, nil
}

// Close resolves an open report and refreshes the business's trust score,
// lifting the report's penalty. The transition is committed first; if the
// recompute then fails the report stays closed, the stale score is logged,
// and the error is returned for the administrator to retry.
func (s *Service) Close(ctx context.Context, reportID string) (Report, error) {
	closed, err := s.repo.Close(ctx, reportID)
	if err != nil {
		return Report{}, err
	}

	if _, err := s.scores.Recompute(ctx, closed.BusinessID); err != nil {
		s.log.Warn().Err(err).Str("business_id", closed.BusinessID).Str("report_id", closed.ID).
			Msg("trust score stale after report close")
		return Report{}, fmt.Errorf("report: refresh trust score: %w", err)
	}

	return closed, nil
}

// ListOpenByBusiness returns a business's open reports for its public
// profile, newest first, capped at limit.
func (s *Service) ListOpenByBusiness(ctx context.Context, businessID string, limit int) ([]Report, error) {
	return s.repo.ListOpenByBusiness(ctx, businessID, limit)
}

// List returns reports for moderation, optionally filtered by status.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Report, int, error) {
	return s.repo.List(ctx, filters)
}
