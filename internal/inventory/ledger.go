package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/medbill/medbill/internal/shared"
)

// Store is the transactional persistence the ledger writes through. Implementations
// bound to a database transaction keep stock changes atomic with the caller's writes.
type Store interface {
	// LockStock returns current stock for ids, locking the rows until the transaction
	// ends. Unknown ids are absent from the result.
	LockStock(ctx context.Context, ids []int64) (map[int64]int, error)
	SetStock(ctx context.Context, productID int64, stock int) error
	InsertMovement(ctx context.Context, m Movement) error
}

// Ledger applies stock deltas with all-or-nothing validation.
type Ledger struct {
	store   Store
	actorID int64
	now     func() time.Time
}

// NewLedger builds a Ledger writing through store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// WithActor stamps recorded movements with actorID.
func (l *Ledger) WithActor(actorID int64) *Ledger {
	cp := *l
	cp.actorID = actorID
	return &cp
}

// Check locks every product in deltas and verifies stock+delta >= 0 for all of them.
// It returns the locked stock levels.
func (l *Ledger) Check(ctx context.Context, deltas map[int64]int) (map[int64]int, error) {
	ids := sortedIDs(deltas)
	if len(ids) == 0 {
		return map[int64]int{}, nil
	}
	stock, err := l.store.LockStock(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("inventory: lock stock: %w", err)
	}
	for _, id := range ids {
		current, ok := stock[id]
		if !ok {
			return nil, shared.NewError(shared.ErrProductNotFound, "Product not found!")
		}
		if current+deltas[id] < 0 {
			return nil, shared.NewError(shared.ErrInsufficientStock, "Insufficient stock available!")
		}
	}
	return stock, nil
}

// Apply validates then writes every non-zero delta, recording one movement per product.
// Nothing is written when any product would go negative.
func (l *Ledger) Apply(ctx context.Context, deltas map[int64]int, reason Reason, refID int64) ([]Movement, error) {
	stock, err := l.Check(ctx, deltas)
	if err != nil {
		return nil, err
	}
	now := l.now()
	movements := make([]Movement, 0, len(deltas))
	for _, id := range sortedIDs(deltas) {
		delta := deltas[id]
		if delta == 0 {
			continue
		}
		m := Movement{
			ProductID:   id,
			Delta:       delta,
			StockBefore: stock[id],
			StockAfter:  stock[id] + delta,
			Reason:      reason,
			RefID:       refID,
			ActorID:     l.actorID,
			CreatedAt:   now,
		}
		if err := l.store.SetStock(ctx, id, m.StockAfter); err != nil {
			return nil, fmt.Errorf("inventory: set stock: %w", err)
		}
		if err := l.store.InsertMovement(ctx, m); err != nil {
			return nil, fmt.Errorf("inventory: insert movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, nil
}

// Reserve decrements a product's stock by amount.
func (l *Ledger) Reserve(ctx context.Context, productID int64, amount int) (Movement, error) {
	if amount <= 0 {
		return Movement{}, ErrInvalidQuantity
	}
	return l.single(ctx, productID, -amount, ReasonReserve)
}

// Release increments a product's stock by amount.
func (l *Ledger) Release(ctx context.Context, productID int64, amount int) (Movement, error) {
	if amount <= 0 {
		return Movement{}, ErrInvalidQuantity
	}
	return l.single(ctx, productID, amount, ReasonRelease)
}

func (l *Ledger) single(ctx context.Context, productID int64, delta int, reason Reason) (Movement, error) {
	moves, err := l.Apply(ctx, map[int64]int{productID: delta}, reason, 0)
	if err != nil {
		return Movement{}, err
	}
	return moves[0], nil
}
