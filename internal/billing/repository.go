package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/medbill/medbill/internal/inventory"
	"github.com/medbill/medbill/internal/masterdata/products"
	"github.com/medbill/medbill/internal/platform/db"
	"github.com/medbill/medbill/internal/rbac"
	"github.com/medbill/medbill/internal/shared"
)

// PGRepository persists bills in PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// WithTx runs fn inside one read-committed transaction. Product rows are locked with
// FOR UPDATE by the stock ledger, so concurrent bills touching the same products
// serialise on those rows.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

const billSelect = `SELECT b.id, b.bill_no, b.company_id, COALESCE(c.name, ''), b.user_id, COALESCE(u.name, ''),
b.sub_total, b.total_tax, b.discount, b.grand_total, b.is_deleted, b.created_at, b.updated_at
FROM bills b
LEFT JOIN companies c ON c.id = b.company_id
LEFT JOIN users u ON u.id = b.user_id`

// Money columns are DOUBLE PRECISION so stored totals are the exact values the
// discount rule was checked against.
func scanBill(row pgx.Row) (Bill, error) {
	var b Bill
	err := row.Scan(&b.ID, &b.BillNo, &b.CompanyID, &b.CompanyName, &b.UserID, &b.UserName,
		&b.SubTotal, &b.TotalTax, &b.Discount, &b.GrandTotal, &b.IsDeleted, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Bill{}, errBillNotFound
	}
	if err != nil {
		return Bill{}, err
	}
	return b, nil
}

// Get returns a non-deleted bill.
func (r *PGRepository) Get(ctx context.Context, id int64) (Bill, error) {
	return scanBill(r.pool.QueryRow(ctx, billSelect+` WHERE b.id = $1 AND b.is_deleted = FALSE`, id))
}

// Items returns the lines of a bill ordered by serial number.
func (r *PGRepository) Items(ctx context.Context, billID int64) ([]LineItem, error) {
	return loadItems(ctx, r.pool, billID)
}

// listWhere filters non-deleted bills by owner scope and bill number.
func listWhere(filters shared.ListFilters, scope rbac.Predicate) db.Where {
	var where db.Where
	where.AddRaw("b.is_deleted = FALSE")
	if !scope.Unrestricted() {
		where.Add(scope.Expr, scope.OwnerID)
	}
	if filters.Search != "" {
		where.Add("b.bill_no ILIKE $?", db.Like(filters.Search))
	}
	return where
}

// List returns a page of non-deleted bills visible under scope, newest first.
func (r *PGRepository) List(ctx context.Context, filters shared.ListFilters, scope rbac.Predicate) ([]Bill, int, error) {
	where := listWhere(filters, scope)

	var (
		bills []Bill
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := billSelect + where.SQL() + ` ORDER BY b.created_at DESC, b.id DESC LIMIT ` + where.Next(1) + ` OFFSET ` + where.Next(2)
		rows, err := r.pool.Query(gctx, query, append(where.Args(), filters.Limit, filters.Offset())...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			b, err := scanBill(rows)
			if err != nil {
				return err
			}
			bills = append(bills, b)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.pool.QueryRow(gctx, `SELECT COUNT(*) FROM bills b`+where.SQL(), where.Args()...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("billing: list: %w", err)
	}
	return bills, total, nil
}

// SoftDelete flags a bill as deleted.
func (r *PGRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE bills SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("billing: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errBillNotFound
	}
	return nil
}

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) GetForUpdate(ctx context.Context, id int64) (Bill, error) {
	return scanBill(t.tx.QueryRow(ctx, billSelect+` WHERE b.id = $1 AND b.is_deleted = FALSE FOR UPDATE OF b`, id))
}

func (t *txRepository) Items(ctx context.Context, billID int64) ([]LineItem, error) {
	return loadItems(ctx, t.tx, billID)
}

func (t *txRepository) Catalog(ctx context.Context, ids []int64) (map[int64]ProductSnapshot, error) {
	snaps, err := products.NewCatalog(t.tx).Snapshots(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]ProductSnapshot, len(snaps))
	for id, s := range snaps {
		out[id] = ProductSnapshot{ProductID: s.ID, ProductName: s.Name, Category: s.Category, MRP: s.MRP}
	}
	return out, nil
}

func (t *txRepository) Insert(ctx context.Context, b Bill) (Bill, error) {
	err := t.tx.QueryRow(ctx, `INSERT INTO bills (bill_no, company_id, user_id, sub_total, total_tax, discount, grand_total)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`,
		b.BillNo, b.CompanyID, b.UserID, b.SubTotal, b.TotalTax, b.Discount, b.GrandTotal,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Bill{}, fmt.Errorf("billing: insert bill: %w", err)
	}
	return b, nil
}

func (t *txRepository) InsertItems(ctx context.Context, billID int64, items []LineItem) error {
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`INSERT INTO bill_items (bill_id, sr_no, product_id, product_name, category, mrp, qty, free_qty, rate,
tax_percent, discount, taxable_amount, cgst, sgst, igst, total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			billID, it.SrNo, it.ProductID, it.ProductName, it.Category, it.MRP, it.Qty, it.FreeQty, it.Rate,
			it.TaxPercent, it.Discount, it.TaxableAmount, it.CGST, it.SGST, it.IGST, it.Total)
	}
	br := t.tx.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("billing: insert item: %w", err)
		}
	}
	return br.Close()
}

func (t *txRepository) DeleteItems(ctx context.Context, billID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM bill_items WHERE bill_id = $1`, billID)
	if err != nil {
		return fmt.Errorf("billing: delete items: %w", err)
	}
	return nil
}

func (t *txRepository) Update(ctx context.Context, b Bill) (Bill, error) {
	err := t.tx.QueryRow(ctx, `UPDATE bills SET company_id = $2, user_id = $3, sub_total = $4, total_tax = $5, discount = $6,
grand_total = $7, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		b.ID, b.CompanyID, b.UserID, b.SubTotal, b.TotalTax, b.Discount, b.GrandTotal,
	).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Bill{}, errBillNotFound
	}
	if err != nil {
		return Bill{}, fmt.Errorf("billing: update bill: %w", err)
	}
	return b, nil
}

func (t *txRepository) Stock() inventory.Store {
	return inventory.NewTxStore(t.tx)
}

func loadItems(ctx context.Context, q db.DBTX, billID int64) ([]LineItem, error) {
	rows, err := q.Query(ctx, `SELECT id, bill_id, sr_no, product_id, product_name, category, mrp, qty, free_qty, rate,
tax_percent, discount, taxable_amount, cgst, sgst, igst, total
FROM bill_items WHERE bill_id = $1 ORDER BY sr_no`, billID)
	if err != nil {
		return nil, fmt.Errorf("billing: items: %w", err)
	}
	defer rows.Close()
	items := []LineItem{}
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.SrNo, &it.ProductID, &it.ProductName, &it.Category, &it.MRP,
			&it.Qty, &it.FreeQty, &it.Rate, &it.TaxPercent, &it.Discount, &it.TaxableAmount, &it.CGST, &it.SGST,
			&it.IGST, &it.Total); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
