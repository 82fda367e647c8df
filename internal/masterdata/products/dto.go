package products

type ProductForm struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Category    string  `json:"category" validate:"required,min=2,max=120"`
	ProductType string  `json:"productType" label:"product type" validate:"required,min=2,max=120"`
	CompanyID   int64   `json:"companyId" label:"company" validate:"required,gt=0"`
	MRP         float64 `json:"mrp" label:"MRP" validate:"required,gt=0"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

type UpdateForm struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=120"`
	Category    *string  `json:"category" validate:"omitempty,min=2,max=120"`
	ProductType *string  `json:"productType" label:"product type" validate:"omitempty,min=2,max=120"`
	CompanyID   *int64   `json:"companyId" label:"company" validate:"omitempty,gt=0"`
	MRP         *float64 `json:"mrp" label:"MRP" validate:"omitempty,gt=0"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"isActive"`
}
