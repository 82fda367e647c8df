package companies

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/medbill/medbill/internal/masterdata/shared"
	"github.com/medbill/medbill/internal/platform/db"
	"github.com/medbill/medbill/internal/rbac"
	common "github.com/medbill/medbill/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters, scope rbac.Predicate) ([]Company, int, error)
	Get(ctx context.Context, id int64) (Company, error)
	Create(ctx context.Context, company Company) (Company, error)
	Update(ctx context.Context, company Company) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

var errCompanyNotFound = common.NewError(common.ErrNotFound, "Company not found!")

var sortColumns = map[string]string{
	"name":      "name",
	"state":     "state",
	"createdAt": "created_at",
}

const companyColumns = `id, user_id, name, gst_number, address, phone, email, state, logo, is_active, is_deleted, created_at, updated_at`

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.GSTNumber, &c.Address, &c.Phone, &c.Email, &c.State,
		&c.Logo, &c.IsActive, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, errCompanyNotFound
	}
	return c, err
}

func (r *pgRepository) List(ctx context.Context, filters shared.ListFilters, scope rbac.Predicate) ([]Company, int, error) {
	var where db.Where
	where.AddRaw("is_deleted = FALSE")
	if !scope.Unrestricted() {
		where.Add(scope.Expr, scope.OwnerID)
	}
	if filters.Search != "" {
		where.Add("(name ILIKE $? OR gst_number ILIKE $? OR phone ILIKE $? OR email ILIKE $? OR state ILIKE $?)", db.Like(filters.Search))
	}
	if filters.IsActive != nil {
		where.Add("is_active = $?", *filters.IsActive)
	}

	var (
		items []Company
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := `SELECT ` + companyColumns + ` FROM companies` + where.SQL() + filters.OrderBy(sortColumns) +
			` LIMIT ` + where.Next(1) + ` OFFSET ` + where.Next(2)
		rows, err := r.pool.Query(gctx, query, append(where.Args(), filters.Limit, filters.Offset())...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			c, err := scanCompany(rows)
			if err != nil {
				return err
			}
			items = append(items, c)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.pool.QueryRow(gctx, `SELECT COUNT(*) FROM companies`+where.SQL(), where.Args()...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("companies: list: %w", err)
	}
	return items, total, nil
}

func (r *pgRepository) Get(ctx context.Context, id int64) (Company, error) {
	return scanCompany(r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1 AND is_deleted = FALSE`, id))
}

func (r *pgRepository) Create(ctx context.Context, c Company) (Company, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO companies (user_id, name, gst_number, address, phone, email, state, logo, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at, updated_at`,
		c.UserID, c.Name, c.GSTNumber, c.Address, c.Phone, c.Email, c.State, c.Logo, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return Company{}, common.NewError(common.ErrDuplicate, "Company already exists!")
	}
	if err != nil {
		return Company{}, fmt.Errorf("companies: create: %w", err)
	}
	return c, nil
}

func (r *pgRepository) Update(ctx context.Context, c Company) error {
	tag, err := r.pool.Exec(ctx, `UPDATE companies SET name = $2, gst_number = $3, address = $4, phone = $5, email = $6,
state = $7, logo = $8, is_active = $9, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`,
		c.ID, c.Name, c.GSTNumber, c.Address, c.Phone, c.Email, c.State, c.Logo, c.IsActive)
	if db.IsUniqueViolation(err) {
		return common.NewError(common.ErrDuplicate, "Company already exists!")
	}
	if err != nil {
		return fmt.Errorf("companies: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errCompanyNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE companies SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("companies: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errCompanyNotFound
	}
	return nil
}
