package products

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/medbill/medbill/internal/platform/db"
)

// Catalog resolves product snapshots for pricing. Bind it to a transaction to read
// consistently with stock locks taken in the same unit of work.
type Catalog struct {
	db db.DBTX
}

// NewCatalog returns a Catalog reading through q.
func NewCatalog(q db.DBTX) *Catalog {
	return &Catalog{db: q}
}

// Snapshots returns the live, non-deleted products among ids keyed by id.
func (c *Catalog) Snapshots(ctx context.Context, ids []int64) (map[int64]Snapshot, error) {
	out := make(map[int64]Snapshot, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := c.db.Query(ctx, `SELECT id, name, category, mrp, stock FROM products WHERE id = ANY($1) AND is_deleted = FALSE`, ids)
	if err != nil {
		return nil, fmt.Errorf("products: snapshots: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			s   Snapshot
			mrp decimal.Decimal
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &mrp, &s.Stock); err != nil {
			return nil, err
		}
		s.MRP = mrp.InexactFloat64()
		out[s.ID] = s
	}
	return out, rows.Err()
}
