package companies

// CompanyForm is the create payload. UserID is honoured for admins only.
type CompanyForm struct {
	UserID    int64  `json:"userId"`
	Name      string `json:"name" validate:"required,min=2,max=120"`
	GSTNumber string `json:"gstNumber" label:"GST number" validate:"required,len=15,alphanum"`
	Address   string `json:"address" validate:"max=500"`
	Phone     string `json:"phone" validate:"omitempty,numeric,len=10"`
	Email     string `json:"email" validate:"omitempty,email"`
	State     string `json:"state" validate:"max=80"`
	Logo      string `json:"logo"`
}

// UpdateForm carries optional company fields.
type UpdateForm struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=120"`
	GSTNumber *string `json:"gstNumber" label:"GST number" validate:"omitempty,len=15,alphanum"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
	Phone     *string `json:"phone" validate:"omitempty,numeric,len=10"`
	Email     *string `json:"email" validate:"omitempty,email"`
	State     *string `json:"state" validate:"omitempty,max=80"`
	Logo      *string `json:"logo"`
	IsActive  *bool   `json:"isActive"`
}
