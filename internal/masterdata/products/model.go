package products

import (
	"time"
)

// Product represents a sellable medicine
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	ProductType string    `json:"productType"`
	CompanyID   int64     `json:"companyId"`
	CreatedBy   int64     `json:"createdBy"`
	MRP         float64   `json:"mrp"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"isActive"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Snapshot is the catalog view of a product used when pricing bill lines.
type Snapshot struct {
	ID       int64
	Name     string
	Category string
	MRP      float64
	Stock    int
}
