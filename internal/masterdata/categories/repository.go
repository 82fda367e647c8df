package categories

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
	List(ctx context.Context, filters shared.ListFilters, scope rbac.Predicate) ([]Category, int, error)
	Options(ctx context.Context, scope rbac.Predicate) ([]Option, error)
	Get(ctx context.Context, id int64) (Category, error)
	// NameTaken reports whether owner already has a live category called name, ignoring excludeID.
	NameTaken(ctx context.Context, owner int64, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, category Category) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

var (
	errCategoryNotFound = common.NewError(common.ErrNotFound, "Category not found!")
	errCategoryExists   = common.NewError(common.ErrDuplicate, "Category already exists!")
)

var sortColumns = map[string]string{"name": "name", "createdAt": "created_at"}

const categoryColumns = `id, created_by, name, description, is_active, is_deleted, created_at, updated_at`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.CreatedBy, &c.Name, &c.Description, &c.IsActive, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, errCategoryNotFound
	}
	return c, err
}

func (r *pgRepository) List(ctx context.Context, filters shared.ListFilters, scope rbac.Predicate) ([]Category, int, error) {
	var where db.Where
	where.AddRaw("is_deleted = FALSE")
	if !scope.Unrestricted() {
		where.Add(scope.Expr, scope.OwnerID)
	}
	if filters.Search != "" {
		where.Add("(name ILIKE $? OR description ILIKE $?)", db.Like(filters.Search))
	}
	if filters.IsActive != nil {
		where.Add("is_active = $?", *filters.IsActive)
	}

	var (
		items []Category
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := `SELECT ` + categoryColumns + ` FROM categories` + where.SQL() + filters.OrderBy(sortColumns) +
			` LIMIT ` + where.Next(1) + ` OFFSET ` + where.Next(2)
		rows, err := r.pool.Query(gctx, query, append(where.Args(), filters.Limit, filters.Offset())...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			c, err := scanCategory(rows)
			if err != nil {
				return err
			}
			items = append(items, c)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.pool.QueryRow(gctx, `SELECT COUNT(*) FROM categories`+where.SQL(), where.Args()...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("categories: list: %w", err)
	}
	return items, total, nil
}

func (r *pgRepository) Options(ctx context.Context, scope rbac.Predicate) ([]Option, error) {
	var where db.Where
	where.AddRaw("is_deleted = FALSE")
	where.AddRaw("is_active = TRUE")
	if !scope.Unrestricted() {
		where.Add(scope.Expr, scope.OwnerID)
	}
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories`+where.SQL()+` ORDER BY name`, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("categories: options: %w", err)
	}
	defer rows.Close()
	var out []Option
	for rows.Next() {
		var o Option
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND is_deleted = FALSE`, id))
}

func (r *pgRepository) NameTaken(ctx context.Context, owner int64, name string, excludeID int64) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE created_by = $1 AND name = $2 AND id <> $3 AND is_deleted = FALSE)`,
		owner, name, excludeID).Scan(&taken)
	return taken, err
}

func (r *pgRepository) Create(ctx context.Context, c Category) (Category, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (created_by, name, description, is_active)
VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		c.CreatedBy, c.Name, c.Description, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return Category{}, errCategoryExists
	}
	if err != nil {
		return Category{}, fmt.Errorf("categories: create: %w", err)
	}
	return c, nil
}

func (r *pgRepository) Update(ctx context.Context, c Category) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET name = $2, description = $3, is_active = $4, updated_at = NOW()
WHERE id = $1 AND is_deleted = FALSE`, c.ID, c.Name, c.Description, c.IsActive)
	if db.IsUniqueViolation(err) {
		return errCategoryExists
	}
	if err != nil {
		return fmt.Errorf("categories: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errCategoryNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("categories: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errCategoryNotFound
	}
	return nil
}
