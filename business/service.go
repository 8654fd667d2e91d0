package business

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidNumber signals the WhatsApp number does not canonicalize to 10 digits.
	ErrInvalidNumber = errors.New("business: whatsapp number must be 10 digits")
)

// ScoreInvalidator recomputes the stored trust score for a business after a
// scoring-relevant fact changed. Satisfied by the trust engine; this package
// knows nothing about the formula.
type ScoreInvalidator interface {
	Recompute(ctx context.Context, businessID string) (int, error)
}

// Service exposes directory and moderation operations on businesses.
type Service struct {
	repo        Repository
	scores      ScoreInvalidator
	log         zerolog.Logger
	idGenerator func() string
}

// NewService creates a new business service.
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

// Create registers the owner's business. The number is canonicalized to its
// 10-digit form and must be unique; each owner registers at most one
// business. Creation is not a scoring trigger: the schema defaults a fresh
// business to the base score.
func (s *Service) Create(ctx context.Context, params CreateParams) (Business, error) {
	if params.OwnerID == "" {
		return Business{}, fmt.Errorf("business: missing owner id")
	}
	if strings.TrimSpace(params.Name) == "" {
		return Business{}, fmt.Errorf("business: name required")
	}

	number, err := CanonicalNumber(params.WhatsappNumber)
	if err != nil {
		return Business{}, err
	}

	return s.repo.Create(ctx, Business{
		ID:             s.idGenerator(),
		OwnerID:        params.OwnerID,
		Name:           strings.TrimSpace(params.Name),
		WhatsappNumber: number,
		Category:       strings.TrimSpace(params.Category),
		City:           strings.TrimSpace(params.City),
		Address:        strings.TrimSpace(params.Address),
	})
}

// UpdateProfile applies the owner's profile edits. Profile fields never feed
// the score, so no recompute happens here.
func (s *Service) UpdateProfile(ctx context.Context, ownerID string, params UpdateParams) (Business, error) {
	biz, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return Business{}, err
	}
	return s.repo.UpdateProfile(ctx, biz.ID, params)
}

// GetByNumber is the public directory lookup. Each lookup counts as a profile
// view; view counts never feed the score.
func (s *Service) GetByNumber(ctx context.Context, rawNumber string) (Business, error) {
	number, err := CanonicalNumber(rawNumber)
	if err != nil {
		return Business{}, err
	}

	biz, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return Business{}, err
	}

	if err := s.repo.IncrementViews(ctx, biz.ID); err != nil {
		// The lookup itself succeeded; a lost view increment is not worth failing it.
		s.log.Warn().Err(err).Str("business_id", biz.ID).Msg("profile view increment failed")
	} else {
		biz.ProfileViews++
	}

	return biz, nil
}

// GetByOwner returns the caller's own business.
func (s *Service) GetByOwner(ctx context.Context, ownerID string) (Business, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

// List returns the administrative directory listing.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Business, int, error) {
	return s.repo.List(ctx, filters)
}

// SetVerified toggles the verification flag and synchronously refreshes the
// trust score. The flag is committed first so the recompute observes it; if
// the recompute then fails the flag stays committed, the stale score is
// logged, and the error is returned for the administrator to retry.
func (s *Service) SetVerified(ctx context.Context, businessID string, verified bool) (Business, error) {
	biz, err := s.repo.SetVerified(ctx, businessID, verified)
	if err != nil {
		return Business{}, err
	}

	score, err := s.scores.Recompute(ctx, businessID)
	if err != nil {
		s.log.Warn().Err(err).Str("business_id", businessID).Bool("verified", verified).
			Msg("trust score stale after verification change")
		return Business{}, fmt.Errorf("business: refresh trust score: %w", err)
	}

	biz.TrustScore = score
	return biz, nil
}

// SetBanned toggles the ban flag and synchronously refreshes the trust score.
// Same ordering and failure semantics as SetVerified; banning drives the
// recomputed score to 0.
func (s *Service) SetBanned(ctx context.Context, businessID string, banned bool) (Business, error) {
	biz, err := s.repo.SetBanned(ctx, businessID, banned)
	if err != nil {
		return Business{}, err
	}

	score, err := s.scores.Recompute(ctx, businessID)
	if err != nil {
		s.log.Warn().Err(err).Str("business_id", businessID).Bool("banned", banned).
			Msg("trust score stale after ban change")
		return Business{}, fmt.Errorf("business: refresh trust score: %w", err)
	}

	biz.TrustScore = score
	return biz, nil
}

// CanonicalNumber reduces a WhatsApp number to its 10-digit canonical form,
// rejecting anything that doesn't strip down to exactly 10 digits.
func CanonicalNumber(raw string) (string, error) {
	var b strings.Builder
	for _, ch := range raw {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	number := b.String()
	if len(number) != 10 {
		return "", ErrInvalidNumber
	}
	return number, nil
}
