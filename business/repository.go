package business

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the business does not exist.
	ErrNotFound = errors.New("business: not found")
	// ErrDuplicateNumber signals the WhatsApp number is already registered.
	ErrDuplicateNumber = errors.New("business: whatsapp number already registered")
	// ErrOwnerHasBusiness signals the owner already registered a business.
	ErrOwnerHasBusiness = errors.New("business: owner already has a business")
)

const businessColumns = `id, user_id, name, whatsapp_number, category, city, address,
	is_verified, is_banned, trust_score, profile_views, created_at, updated_at`

// Repository handles data access for businesses.
type Repository interface {
	Create(ctx context.Context, biz Business) (Business, error)
	GetByID(ctx context.Context, id string) (Business, error)
	GetByNumber(ctx context.Context, number string) (Business, error)
	GetByOwner(ctx context.Context, ownerID string) (Business, error)
	UpdateProfile(ctx context.Context, id string, params UpdateParams) (Business, error)
	IncrementViews(ctx context.Context, id string) error
	SetVerified(ctx context.Context, id string, verified bool) (Business, error)
	SetBanned(ctx context.Context, id string, banned bool) (Business, error)
	List(ctx context.Context, filters ListFilters) ([]Business, int, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed business repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, biz Business) (Business, error) {
	query := fmt.Sprintf(`
		INSERT INTO businesses (id, user_id, name, whatsapp_number, category, city, address)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`, businessColumns)

	created, err := scanBusiness(r.pool.QueryRow(ctx, query,
		biz.ID,
		biz.OwnerID,
		biz.Name,
		biz.WhatsappNumber,
		biz.Category,
		biz.City,
		biz.Address,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "user_id") {
				return Business{}, ErrOwnerHasBusiness
			}
			return Business{}, ErrDuplicateNumber
		}
		return Business{}, fmt.Errorf("business: create: %w", err)
	}

	return created, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Business, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *PGRepository) GetByNumber(ctx context.Context, number string) (Business, error) {
	return r.getOne(ctx, `WHERE whatsapp_number = $1`, number)
}

func (r *PGRepository) GetByOwner(ctx context.Context, ownerID string) (Business, error) {
	return r.getOne(ctx, `WHERE user_id = $1`, ownerID)
}

func (r *PGRepository) getOne(ctx context.Context, where string, arg any) (Business, error) {
	query := fmt.Sprintf(`SELECT %s FROM businesses %s`, businessColumns, where)

	biz, err := scanBusiness(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Business{}, ErrNotFound
		}
		return Business{}, fmt.Errorf("business: get: %w", err)
	}
	return biz, nil
}

// UpdateProfile applies the owner's edits, keeping current values for empty
// fields. Scoring inputs are untouched here.
func (r *PGRepository) UpdateProfile(ctx context.Context, id string, params UpdateParams) (Business, error) {
	query := fmt.Sprintf(`
		UPDATE businesses
		SET name     = COALESCE(NULLIF($2, ''), name),
		    category = COALESCE(NULLIF($3, ''), category),
		    city     = COALESCE(NULLIF($4, ''), city),
		    address  = COALESCE(NULLIF($5, ''), address),
		    updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, businessColumns)

	biz, err := scanBusiness(r.pool.QueryRow(ctx, query, id, params.Name, params.Category, params.City, params.Address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Business{}, ErrNotFound
		}
		return Business{}, fmt.Errorf("business: update profile: %w", err)
	}
	return biz, nil
}

func (r *PGRepository) IncrementViews(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE businesses SET profile_views = profile_views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("business: increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) SetVerified(ctx context.Context, id string, verified bool) (Business, error) {
	return r.setFlag(ctx, `is_verified`, id, verified)
}

func (r *PGRepository) SetBanned(ctx context.Context, id string, banned bool) (Business, error) {
	return r.setFlag(ctx, `is_banned`, id, banned)
}

func (r *PGRepository) setFlag(ctx context.Context, column, id string, value bool) (Business, error) {
	query := fmt.Sprintf(`
		UPDATE businesses
		SET %s = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, column, businessColumns)

	biz, err := scanBusiness(r.pool.QueryRow(ctx, query, id, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Business{}, ErrNotFound
		}
		return Business{}, fmt.Errorf("business: set %s: %w", column, err)
	}
	return biz, nil
}

func (r *PGRepository) List(ctx context.Context, filters ListFilters) ([]Business, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	where := ""
	args := []any{}
	if filters.Search != "" {
		where = ` WHERE name ILIKE $1 OR whatsapp_number LIKE $1`
		args = append(args, "%"+filters.Search+"%")
	}

	query := fmt.Sprintf(`SELECT %s FROM businesses%s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		businessColumns, where, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("business: list: %w", err)
	}
	defer rows.Close()

	list := []Business{}
	for rows.Next() {
		biz, err := scanBusiness(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("business: scan list: %w", err)
		}
		list = append(list, biz)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("business: iterate list: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM businesses%s", where)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("business: count list: %w", err)
	}

	return list, total, nil
}

func scanBusiness(row pgx.Row) (Business, error) {
	var biz Business
	return biz, row.Scan(
		&biz.ID,
		&biz.OwnerID,
		&biz.Name,
		&biz.WhatsappNumber,
		&biz.Category,
		&biz.City,
		&biz.Address,
		&biz.Verified,
		&biz.Banned,
		&biz.TrustScore,
		&biz.ProfileViews,
		&biz.CreatedAt,
		&biz.UpdatedAt,
	)
}
