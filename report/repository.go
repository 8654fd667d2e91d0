package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the report does not exist.
	ErrNotFound = errors.New("report: not found")
	// ErrBusinessNotFound signals the reported business does not exist.
	ErrBusinessNotFound = errors.New("report: business not found")
	// ErrAlreadyClosed signals an attempt to close a report twice.
	ErrAlreadyClosed = errors.New("report: already closed")
)

const reportColumns = `id, business_id, reason, description, status, created_at, updated_at`

// Repository handles data access for reports.
type Repository interface {
	Create(ctx context.Context, rep Report) (Report, error)
	ListOpenByBusiness(ctx context.Context, businessID string, limit int) ([]Report, error)
	List(ctx context.Context, filters ListFilters) ([]Report, int, error)
	Close(ctx context.Context, reportID string) (Report, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed report repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, rep Report) (Report, error) {
	query := fmt.Sprintf(`
		INSERT INTO reports (id, business_id, reason, description, status)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, 'open')
		RETURNING %s
	`, reportColumns)

	created, err := scanReport(r.pool.QueryRow(ctx, query,
		rep.ID,
		rep.BusinessID,
		rep.Reason,
		rep.Description,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Report{}, ErrBusinessNotFound
		}
		return Report{}, fmt.Errorf("report: create: %w", err)
	}

	return created, nil
}

// ListOpenByBusiness returns a business's open reports, newest first, capped
// at limit. Used by the public profile page.
func (r *PGRepository) ListOpenByBusiness(ctx context.Context, businessID string, limit int) ([]Report, error) {
	if limit <= 0 || limit > 50 {
		limit = 3
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM reports
		WHERE business_id = $1 AND status = 'open'
		ORDER BY created_at DESC
		LIMIT $2
	`, reportColumns)

	rows, err := r.pool.Query(ctx, query, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("report: list open: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// List returns reports across all businesses for moderation, optionally
// filtered by status.
func (r *PGRepository) List(ctx context.Context, filters ListFilters) ([]Report, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	where := ""
	args := []any{}
	if filters.Status != "" {
		where = ` WHERE status = $1`
		args = append(args, filters.Status)
	}

	query := fmt.Sprintf(`SELECT %s FROM reports%s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		reportColumns, where, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("report: list: %w", err)
	}
	defer rows.Close()

	list, err := collectReports(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM reports%s", where)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("report: count: %w", err)
	}

	return list, total, nil
}

// Close transitions an open report to closed. Closing a closed report is
// rejected, distinguishing that case from a missing report.
func (r *PGRepository) Close(ctx context.Context, reportID string) (Report, error) {
	query := fmt.Sprintf(`
		UPDATE reports
		SET status = 'closed', updated_at = now()
		WHERE id = $1 AND status = 'open'
		RETURNING %s
	`, reportColumns)

	rep, err := scanReport(r.pool.QueryRow(ctx, query, reportID))
	if err == nil {
		return rep, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Report{}, fmt.Errorf("report: close: %w", err)
	}

	var status Status
	if err := r.pool.QueryRow(ctx, `SELECT status FROM reports WHERE id = $1`, reportID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, fmt.Errorf("report: close fetch: %w", err)
	}
	if status == StatusClosed {
		return Report{}, ErrAlreadyClosed
	}
	return Report{}, ErrNotFound
}

func collectReports(rows pgx.Rows) ([]Report, error) {
	list := []Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("report: scan: %w", err)
		}
		list = append(list, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report: iterate: %w", err)
	}
	return list, nil
}

func scanReport(row pgx.Row) (Report, error) {
	var rep Report
	return rep, row.Scan(
		&rep.ID,
		&rep.BusinessID,
		&rep.Reason,
		&rep.Description,
		&rep.Status,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	)
}
