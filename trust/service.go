package trust

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Service recomputes and persists trust scores from current facts. Mutation
// services invoke it through their own one-method invalidator interfaces, so
// none of them depend on scoring internals.
type Service struct {
	repo      Repository
	log       zerolog.Logger
	bulkLimit int
}

// NewService creates the trust score engine.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		log:       log,
		bulkLimit: 8,
	}
}

// Recompute re-derives the score for one business from its current facts and
// stores it, returning the new value. There is no incremental path: every
// invocation reads the full aggregate state, which keeps the stored score
// drift-free. Recomputing with unchanged facts stores the same value again.
func (s *Service) Recompute(ctx context.Context, businessID string) (int, error) {
	facts, err := s.repo.Facts(ctx, businessID)
	if err != nil {
		return 0, err
	}

	score := Score(facts)
	if err := s.repo.UpdateScore(ctx, businessID, score); err != nil {
		return 0, err
	}

	return score, nil
}

// Result is the per-business outcome of a bulk recompute.
type Result struct {
	BusinessID string
	Score      int
	Err        error
}

// RecomputeAll recomputes every business independently, for administrative
// repair after a formula change. A failure on one business does not stop the
// others; each outcome lands in the returned slice in listing order.
// Businesses share no scoring state, so the work runs in parallel.
func (s *Service) RecomputeAll(ctx context.Context) ([]Result, error) {
	ids, err := s.repo.BusinessIDs(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(ids))

	var g errgroup.Group
	g.SetLimit(s.bulkLimit)
	for i, id := range ids {
		g.Go(func() error {
			score, err := s.Recompute(ctx, id)
			results[i] = Result{BusinessID: id, Score: score, Err: err}
			if err != nil {
				s.log.Warn().Err(err).Str("business_id", id).Msg("bulk recompute: business skipped")
			}
			return nil
		})
	}
	// Workers never return errors; failures are reported per business.
	_ = g.Wait()

	return results, nil
}
