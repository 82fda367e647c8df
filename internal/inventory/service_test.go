package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medbill/medbill/internal/shared"
)

type memoryStore struct {
	stock     map[int64]int
	movements []Movement
	locked    [][]int64
	failSet   error
}

func newMemoryStore(stock map[int64]int) *memoryStore {
	return &memoryStore{stock: stock}
}

func (s *memoryStore) LockStock(_ context.Context, ids []int64) (map[int64]int, error) {
	s.locked = append(s.locked, append([]int64(nil), ids...))
	out := make(map[int64]int, len(ids))
	for _, id := range ids {
		if qty, ok := s.stock[id]; ok {
			out[id] = qty
		}
	}
	return out, nil
}

func (s *memoryStore) SetStock(_ context.Context, productID int64, stock int) error {
	if s.failSet != nil {
		return s.failSet
	}
	s.stock[productID] = stock
	return nil
}

func (s *memoryStore) InsertMovement(_ context.Context, m Movement) error {
	s.movements = append(s.movements, m)
	return nil
}

type memoryRepo struct {
	store *memoryStore
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Store) error) error {
	snapshot := make(map[int64]int, len(r.store.stock))
	for k, v := range r.store.stock {
		snapshot[k] = v
	}
	if err := fn(ctx, r.store); err != nil {
		r.store.stock = snapshot
		return err
	}
	return nil
}

func (r *memoryRepo) ListMovements(_ context.Context, productID int64, limit int) ([]Movement, error) {
	var out []Movement
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestRequiredMapSumsPaidAndFree(t *testing.T) {
	req := RequiredMap([]Line{
		{ProductID: 1, Qty: 10, FreeQty: 2},
		{ProductID: 2, Qty: 3},
		{ProductID: 1, Qty: 1, FreeQty: 1},
	})
	require.Equal(t, map[int64]int{1: 14, 2: 3}, req)
	require.Equal(t, 12, RequiredQuantity(10, 2))
}

func TestDeltasOmitUnchangedProducts(t *testing.T) {
	old := map[int64]int{1: 12, 2: 5, 3: 4}
	next := map[int64]int{1: 6, 2: 5, 4: 2}
	require.Equal(t, map[int64]int{1: 6, 3: 4, 4: -2}, Deltas(old, next))
	require.Empty(t, Deltas(old, old))
	require.Equal(t, map[int64]int{1: -12}, Negate(map[int64]int{1: 12, 2: 0}))
}

func TestApplyDeductsAndRecordsMovements(t *testing.T) {
	store := newMemoryStore(map[int64]int{1: 100, 2: 5})
	ledger := NewLedger(store).WithActor(9)

	moves, err := ledger.Apply(context.Background(), map[int64]int{2: -5, 1: -12}, ReasonBillCreate, 44)
	require.NoError(t, err)
	require.Equal(t, 88, store.stock[1])
	require.Equal(t, 0, store.stock[2])
	require.Len(t, moves, 2)
	require.Equal(t, int64(1), moves[0].ProductID)
	require.Equal(t, 100, moves[0].StockBefore)
	require.Equal(t, 88, moves[0].StockAfter)
	require.Equal(t, int64(44), moves[0].RefID)
	require.Equal(t, int64(9), moves[0].ActorID)
	require.Equal(t, []int64{1, 2}, store.locked[0])
}

func TestApplyIsAllOrNothing(t *testing.T) {
	store := newMemoryStore(map[int64]int{1: 100, 2: 3})
	ledger := NewLedger(store)

	_, err := ledger.Apply(context.Background(), map[int64]int{1: -10, 2: -4}, ReasonBillCreate, 1)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	msg, _ := shared.PublicMessage(err)
	require.Equal(t, "Insufficient stock available!", msg)
	require.Equal(t, 100, store.stock[1])
	require.Equal(t, 3, store.stock[2])
	require.Empty(t, store.movements)
}

func TestApplyExactStockSucceeds(t *testing.T) {
	store := newMemoryStore(map[int64]int{1: 12})
	_, err := NewLedger(store).Apply(context.Background(), map[int64]int{1: -12}, ReasonBillCreate, 1)
	require.NoError(t, err)
	require.Equal(t, 0, store.stock[1])
}

func TestApplyUnknownProduct(t *testing.T) {
	store := newMemoryStore(map[int64]int{1: 12})
	_, err := NewLedger(store).Apply(context.Background(), map[int64]int{2: -1}, ReasonBillCreate, 1)
	require.ErrorIs(t, err, shared.ErrProductNotFound)
}

func TestApplySkipsEmptyDeltas(t *testing.T) {
	store := newMemoryStore(map[int64]int{1: 12})
	moves, err := NewLedger(store).Apply(context.Background(), map[int64]int{}, ReasonBillUpdate, 1)
	require.NoError(t, err)
	require.Empty(t, moves)
	require.Empty(t, store.locked)
}

func TestReserveAndRelease(t *testing.T) {
	store := newMemoryStore(map[int64]int{1: 5})
	ledger := NewLedger(store)
	ctx := context.Background()

	_, err := ledger.Reserve(ctx, 1, 6)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	m, err := ledger.Reserve(ctx, 1, 5)
	require.NoError(t, err)
	require.Equal(t, ReasonReserve, m.Reason)
	require.Equal(t, 0, store.stock[1])

	m, err = ledger.Release(ctx, 1, 7)
	require.NoError(t, err)
	require.Equal(t, 7, m.StockAfter)

	_, err = ledger.Release(ctx, 1, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestApplyPropagatesStoreFailure(t *testing.T) {
	store := newMemoryStore(map[int64]int{1: 5})
	store.failSet = errors.New("boom")
	_, err := NewLedger(store).Apply(context.Background(), map[int64]int{1: -1}, ReasonBillCreate, 1)
	require.Error(t, err)
	require.Empty(t, store.movements)
}

func TestServiceAdjust(t *testing.T) {
	repo := &memoryRepo{store: newMemoryStore(map[int64]int{1: 5})}
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	admin := shared.Actor{ID: 1, Role: shared.RoleAdmin}

	m, err := svc.Adjust(ctx, admin, AdjustInput{ProductID: 1, Delta: 10})
	require.NoError(t, err)
	require.Equal(t, 15, m.StockAfter)

	_, err = svc.Adjust(ctx, admin, AdjustInput{ProductID: 1, Delta: -20})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.Equal(t, 15, repo.store.stock[1])

	_, err = svc.Adjust(ctx, admin, AdjustInput{ProductID: 1})
	require.ErrorIs(t, err, shared.ErrValidation)

	moves, err := svc.Movements(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, moves, 1)
}
