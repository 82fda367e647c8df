package categories

import "time"

// Category is a product grouping label owned by its creator
type Category struct {
	ID          int64     `json:"id"`
	CreatedBy   int64     `json:"createdBy"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Option is a dropdown entry
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CategoryForm struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateForm struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}
