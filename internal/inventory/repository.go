package inventory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbill/medbill/internal/platform/db"
)

// Repository persists stock data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx runs fn with a Store bound to a read-committed transaction so row locks
// observe the latest committed stock.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, Store) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewTxStore(tx))
	})
}

// ListMovements returns the most recent movements of a product.
func (r *Repository) ListMovements(ctx context.Context, productID int64, limit int) ([]Movement, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, product_id, delta, stock_before, stock_after, reason,
COALESCE(ref_id, 0), COALESCE(actor_id, 0), created_at
FROM stock_movements WHERE product_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("inventory: list movements: %w", err)
	}
	defer rows.Close()
	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Delta, &m.StockBefore, &m.StockAfter, &m.Reason, &m.RefID, &m.ActorID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// TxStore implements Store over any pgx querier, usually a transaction owned by the caller.
type TxStore struct {
	db db.DBTX
}

// NewTxStore binds a Store to q.
func NewTxStore(q db.DBTX) *TxStore {
	return &TxStore{db: q}
}

// LockStock selects stock FOR UPDATE in id order to keep lock acquisition deterministic.
func (s *TxStore) LockStock(ctx context.Context, ids []int64) (map[int64]int, error) {
	rows, err := s.db.Query(ctx, `SELECT id, stock FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stock := make(map[int64]int, len(ids))
	for rows.Next() {
		var id int64
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		stock[id] = qty
	}
	return stock, rows.Err()
}

// SetStock writes the new stock level of a locked product.
func (s *TxStore) SetStock(ctx context.Context, productID int64, stock int) error {
	tag, err := s.db.Exec(ctx, `UPDATE products SET stock = $2, updated_at = NOW() WHERE id = $1`, productID, stock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("inventory: product %d vanished", productID)
	}
	return nil
}

// InsertMovement records m.
func (s *TxStore) InsertMovement(ctx context.Context, m Movement) error {
	var refID, actorID any
	if m.RefID != 0 {
		refID = m.RefID
	}
	if m.ActorID != 0 {
		actorID = m.ActorID
	}
	_, err := s.db.Exec(ctx, `INSERT INTO stock_movements (product_id, delta, stock_before, stock_after, reason, ref_id, actor_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, m.ProductID, m.Delta, m.StockBefore, m.StockAfter, string(m.Reason), refID, actorID, m.CreatedAt)
	return err
}
