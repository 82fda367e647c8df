package inventory

import (
	"errors"
	"sort"
	"time"
)

// Reason labels why stock moved.
type Reason string

const (
	// ReasonBillCreate is recorded when a new bill deducts stock.
	ReasonBillCreate Reason = "BILL_CREATE"
	// ReasonBillUpdate is recorded when a bill's items are replaced.
	ReasonBillUpdate Reason = "BILL_UPDATE"
	// ReasonReserve is recorded for manual outbound adjustments.
	ReasonReserve Reason = "RESERVE"
	// ReasonRelease is recorded for manual inbound adjustments.
	ReasonRelease Reason = "RELEASE"
)

// Line is the stock-relevant part of a bill line.
type Line struct {
	ProductID int64
	Qty       int
	FreeQty   int
}

// Movement is one applied stock change.
type Movement struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"productId"`
	Delta       int       `json:"delta"`
	StockBefore int       `json:"stockBefore"`
	StockAfter  int       `json:"stockAfter"`
	Reason      Reason    `json:"reason"`
	RefID       int64     `json:"refId,omitempty"`
	ActorID     int64     `json:"actorId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ErrInvalidQuantity indicates invalid qty.
var ErrInvalidQuantity = errors.New("inventory: quantity must be positive")

// RequiredQuantity is the stock a line consumes: paid plus free units.
func RequiredQuantity(qty, freeQty int) int {
	return qty + freeQty
}

// RequiredMap sums the required quantity per product.
func RequiredMap(lines []Line) map[int64]int {
	required := make(map[int64]int, len(lines))
	for _, l := range lines {
		required[l.ProductID] += RequiredQuantity(l.Qty, l.FreeQty)
	}
	return required
}

// Deltas returns old-new per product, omitting products whose requirement did not
// change. A positive delta returns stock, a negative one consumes it.
func Deltas(oldRequired, newRequired map[int64]int) map[int64]int {
	deltas := make(map[int64]int)
	for id, qty := range oldRequired {
		deltas[id] += qty
	}
	for id, qty := range newRequired {
		deltas[id] -= qty
	}
	for id, d := range deltas {
		if d == 0 {
			delete(deltas, id)
		}
	}
	return deltas
}

// Negate turns a requirement map into consuming deltas.
func Negate(required map[int64]int) map[int64]int {
	deltas := make(map[int64]int, len(required))
	for id, qty := range required {
		if qty != 0 {
			deltas[id] = -qty
		}
	}
	return deltas
}

func sortedIDs(deltas map[int64]int) []int64 {
	ids := make([]int64, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
