// Package billing prices bills, keeps product stock in step with bill lines and
// enforces who may see or change which bill.
package billing

import (
	"time"

	"github.com/medbill/medbill/internal/inventory"
)

// ItemInput is one requested bill line.
type ItemInput struct {
	ProductID  int64   `json:"productId" label:"product" validate:"required,gt=0"`
	Qty        int     `json:"qty" validate:"required,gt=0"`
	FreeQty    int     `json:"freeQty" label:"free qty" validate:"gte=0"`
	Rate       float64 `json:"rate" validate:"required,gt=0"`
	TaxPercent float64 `json:"taxPercent" label:"tax percent" validate:"gte=0,lte=100"`
	Discount   float64 `json:"discount" validate:"gte=0,lte=100"`
}

// ProductSnapshot freezes the descriptive product fields onto a bill line so later
// product edits do not rewrite history.
type ProductSnapshot struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Category    string  `json:"category"`
	MRP         float64 `json:"mrp"`
}

// LineItem is a priced, persisted bill line.
type LineItem struct {
	ID     int64 `json:"id,omitempty"`
	BillID int64 `json:"billId,omitempty"`
	SrNo   int   `json:"srNo"`
	ProductSnapshot
	Qty           int     `json:"qty"`
	FreeQty       int     `json:"freeQty"`
	Rate          float64 `json:"rate"`
	TaxPercent    float64 `json:"taxPercent"`
	Discount      float64 `json:"discount"`
	TaxableAmount float64 `json:"taxableAmount"`
	CGST          float64 `json:"cgst"`
	SGST          float64 `json:"sgst"`
	IGST          float64 `json:"igst"`
	Total         float64 `json:"total"`
}

// Bill is the invoice header.
type Bill struct {
	ID          int64     `json:"id"`
	BillNo      string    `json:"billNo"`
	CompanyID   int64     `json:"companyId"`
	CompanyName string    `json:"companyName,omitempty"`
	UserID      int64     `json:"userId"`
	UserName    string    `json:"userName,omitempty"`
	SubTotal    float64   `json:"subTotal"`
	TotalTax    float64   `json:"totalTax"`
	Discount    float64   `json:"discount"`
	GrandTotal  float64   `json:"grandTotal"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Detail is a bill with its lines.
type Detail struct {
	Bill  Bill       `json:"bill"`
	Items []LineItem `json:"items"`
}

// CreateBillRequest is the payload of POST /bills. UserID is required from admins and
// ignored for everyone else.
type CreateBillRequest struct {
	CompanyID int64       `json:"companyId" label:"company" validate:"required,gt=0"`
	Items     []ItemInput `json:"items" validate:"required,min=1,dive"`
	Discount  float64     `json:"discount"`
	UserID    int64       `json:"userId"`
}

// UpdateBillRequest is the payload of PUT /bills/{id}. Absent fields are left as is
// and an empty items list keeps the current lines.
type UpdateBillRequest struct {
	CompanyID *int64      `json:"companyId" label:"company" validate:"omitempty,gt=0"`
	Items     []ItemInput `json:"items" validate:"omitempty,dive"`
	Discount  *float64    `json:"discount"`
	UserID    *int64      `json:"userId" label:"user" validate:"omitempty,gt=0"`
}

func stockLines(items []ItemInput) []inventory.Line {
	lines := make([]inventory.Line, len(items))
	for i, it := range items {
		lines[i] = inventory.Line{ProductID: it.ProductID, Qty: it.Qty, FreeQty: it.FreeQty}
	}
	return lines
}

func persistedStockLines(items []LineItem) []inventory.Line {
	lines := make([]inventory.Line, len(items))
	for i, it := range items {
		lines[i] = inventory.Line{ProductID: it.ProductID, Qty: it.Qty, FreeQty: it.FreeQty}
	}
	return lines
}

func productIDs(items []ItemInput) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

func unitsOf(required map[int64]int) int {
	total := 0
	for _, qty := range required {
		total += qty
	}
	return total
}
