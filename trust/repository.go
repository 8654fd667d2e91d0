package trust

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals that the business does not exist.
var ErrNotFound = errors.New("trust: business not found")

// Repository provides the fact reads and the single score write the engine
// performs. Nothing else touches the trust_score column.
type Repository interface {
	Facts(ctx context.Context, businessID string) (Facts, error)
	UpdateScore(ctx context.Context, businessID string, score int) error
	BusinessIDs(ctx context.Context) ([]string, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed trust repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Facts loads the current scoring inputs for one business: the verification
// and ban flags, every review rating, and the count of open reports.
func (r *PGRepository) Facts(ctx context.Context, businessID string) (Facts, error) {
	var facts Facts

	err := r.pool.QueryRow(ctx, `SELECT is_verified, is_banned FROM businesses WHERE id = $1`, businessID).
		Scan(&facts.Verified, &facts.Banned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Facts{}, ErrNotFound
		}
		return Facts{}, fmt.Errorf("trust: read business flags: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT rating FROM reviews WHERE business_id = $1`, businessID)
	if err != nil {
		return Facts{}, fmt.Errorf("trust: read ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return Facts{}, fmt.Errorf("trust: scan rating: %w", err)
		}
		facts.Ratings = append(facts.Ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return Facts{}, fmt.Errorf("trust: iterate ratings: %w", err)
	}

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE business_id = $1 AND status = 'open'`, businessID).
		Scan(&facts.OpenReports)
	if err != nil {
		return Facts{}, fmt.Errorf("trust: count open reports: %w", err)
	}

	return facts, nil
}

// UpdateScore persists a freshly computed score. It is the only write the
// trust engine performs.
func (r *PGRepository) UpdateScore(ctx context.Context, businessID string, score int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE businesses SET trust_score = $2, updated_at = now() WHERE id = $1`, businessID, score)
	if err != nil {
		return fmt.Errorf("trust: update score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// BusinessIDs lists every business id for a bulk recompute.
func (r *PGRepository) BusinessIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM businesses ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("trust: list business ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("trust: scan business id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trust: iterate business ids: %w", err)
	}

	return ids, nil
}
