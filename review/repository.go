package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrBusinessNotFound signals the reviewed business does not exist.
var ErrBusinessNotFound = errors.New("review: business not found")

// Repository handles data access for reviews.
type Repository interface {
	Create(ctx context.Context, rev Review) (Review, error)
	ListByBusiness(ctx context.Context, businessID string) ([]Review, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed review repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, rev Review) (Review, error) {
	const query = `
		INSERT INTO reviews (id, business_id, reviewer_name, rating, comment)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5)
		RETURNING id, business_id, reviewer_name, rating, comment, created_at
	`

	created, err := scanReview(r.pool.QueryRow(ctx, query,
		rev.ID,
		rev.BusinessID,
		rev.ReviewerName,
		rev.Rating,
		rev.Comment,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Review{}, ErrBusinessNotFound
		}
		return Review{}, fmt.Errorf("review: create: %w", err)
	}

	return created, nil
}

// ListByBusiness returns a business's reviews, newest first.
func (r *PGRepository) ListByBusiness(ctx context.Context, businessID string) ([]Review, error) {
	const query = `
		SELECT id, business_id, reviewer_name, rating, comment, created_at
		FROM reviews
		WHERE business_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("review: list: %w", err)
	}
	defer rows.Close()

	list := []Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("review: scan: %w", err)
		}
		list = append(list, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("review: iterate: %w", err)
	}

	return list, nil
}

func scanReview(row pgx.Row) (Review, error) {
	var rev Review
	return rev, row.Scan(
		&rev.ID,
		&rev.BusinessID,
		&rev.ReviewerName,
		&rev.Rating,
		&rev.Comment,
		&rev.CreatedAt,
	)
}
