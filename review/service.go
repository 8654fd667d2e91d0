package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidRating signals a rating outside [1,5].
	ErrInvalidRating = errors.New("review: rating must be between 1 and 5")
)

// ScoreInvalidator recomputes the stored trust score for a business after a
// scoring-relevant fact changed. Satisfied by the trust engine.
type ScoreInvalidator interface {
	Recompute(ctx context.Context, businessID string) (int, error)
}

// Service exposes review submission and listing.
type Service struct {
	repo        Repository
	scores      ScoreInvalidator
	log         zerolog.Logger
	idGenerator func() string
}

// NewService creates a new review service.
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

// Create stores a review and refreshes the business's trust score. The review
// is committed before the recompute so the new rating is part of the facts
// being aggregated. If the recompute fails the review still stands: the
// caller sees success and the stale score is logged for repair.
func (s *Service) Create(ctx context.Context, params CreateParams) (Review, error) {
	if params.BusinessID == "" {
		return Review{}, fmt.Errorf("review: missing business id")
	}
	if strings.TrimSpace(params.ReviewerName) == "" {
		return Review{}, fmt.Errorf("review: reviewer name required")
	}
	if strings.TrimSpace(params.Comment) == "" {
		return Review{}, fmt.Errorf("review: comment required")
	}
	if params.Rating < 1 || params.Rating > 5 {
		return Review{}, ErrInvalidRating
	}

	created, err := s.repo.Create(ctx, Review{
		ID:           s.idGenerator(),
		BusinessID:   params.BusinessID,
		ReviewerName: strings.TrimSpace(params.ReviewerName),
		Rating:       params.Rating,
		Comment:      strings.TrimSpace(params.Comment),
	})
	if err != nil {
		return Review{}, err
	}

	if _, err := s.scores.Recompute(ctx, created.BusinessID); err != nil {
		s.log.Warn().Err(err).Str("business_id", created.BusinessID).Str("review_id", created.ID).
			Msg("trust score stale after review")
	}

	return created, nil
}

// ListByBusiness returns a business's reviews, newest first.
func (s *Service) ListByBusiness(ctx context.Context, businessID string) ([]Review, error) {
	return s.repo.ListByBusiness(ctx, businessID)
}
