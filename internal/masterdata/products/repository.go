package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/medbill/medbill/internal/masterdata/shared"
	"github.com/medbill/medbill/internal/platform/db"
	"github.com/medbill/medbill/internal/rbac"
	common "github.com/medbill/medbill/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters, scope rbac.Predicate) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

var errProductNotFound = common.NewError(common.ErrProductNotFound, "Product not found!")

var sortColumns = map[string]string{
	"name":      "name",
	"mrp":       "mrp",
	"price":     "price",
	"stock":     "stock",
	"createdAt": "created_at",
}

const productColumns = `id, name, category, product_type, company_id, created_by, mrp, price, stock, is_active, is_deleted, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p          Product
		mrp, price decimal.Decimal
	)
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.ProductType, &p.CompanyID, &p.CreatedBy, &mrp, &price,
		&p.Stock, &p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, errProductNotFound
	}
	if err != nil {
		return Product{}, err
	}
	p.MRP = mrp.InexactFloat64()
	p.Price = price.InexactFloat64()
	return p, nil
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters, scope rbac.Predicate) ([]Product, int, error) {
	var where db.Where
	where.AddRaw("is_deleted = FALSE")
	if !scope.Unrestricted() {
		where.Add(scope.Expr, scope.OwnerID)
	}
	if filters.Category != "" {
		where.Add("category = $?", filters.Category)
	}
	if filters.ProductType != "" {
		where.Add("product_type = $?", filters.ProductType)
	}
	if filters.CompanyID != nil {
		where.Add("company_id = $?", *filters.CompanyID)
	}
	if filters.IsActive != nil {
		where.Add("is_active = $?", *filters.IsActive)
	}
	if filters.Search != "" {
		where.Add("(name ILIKE $? OR category ILIKE $? OR product_type ILIKE $?)", db.Like(filters.Search))
	}

	var (
		items []Product
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := `SELECT ` + productColumns + ` FROM products` + where.SQL() + filters.OrderBy(sortColumns) +
			` LIMIT ` + where.Next(1) + ` OFFSET ` + where.Next(2)
		rows, err := r.db.Query(gctx, query, append(where.Args(), filters.Limit, filters.Offset())...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			items = append(items, p)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.db.QueryRow(gctx, `SELECT COUNT(*) FROM products`+where.SQL(), where.Args()...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("products: list: %w", err)
	}
	return items, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 AND is_deleted = FALSE`, id))
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO products (name, category, product_type, company_id, created_by, mrp, price, stock, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at, updated_at`,
		p.Name, p.Category, p.ProductType, p.CompanyID, p.CreatedBy,
		decimal.NewFromFloat(p.MRP), decimal.NewFromFloat(p.Price), p.Stock, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("products: create: %w", err)
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, p Product) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET name = $2, category = $3, product_type = $4, company_id = $5,
mrp = $6, price = $7, stock = $8, is_active = $9, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`,
		p.ID, p.Name, p.Category, p.ProductType, p.CompanyID,
		decimal.NewFromFloat(p.MRP), decimal.NewFromFloat(p.Price), p.Stock, p.IsActive)
	if err != nil {
		return fmt.Errorf("products: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errProductNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errProductNotFound
	}
	return nil
}
