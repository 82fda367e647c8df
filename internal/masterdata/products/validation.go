package products

import (
	"strings"

	common "github.com/medbill/medbill/internal/shared"
)

func normalizeForm(f *ProductForm) {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.ProductType = strings.TrimSpace(f.ProductType)
}

func (s *Service) validate(f ProductForm) error {
	if f.CompanyID == 0 {
		return common.Required("Company")
	}
	return common.ValidateStruct(f)
}

// apply copies supplied fields. Only admins may move a product to another company.
func (u UpdateForm) apply(p *Product, actor common.Actor) error {
	if err := common.ValidateStruct(u); err != nil {
		return err
	}
	if u.CompanyID != nil && *u.CompanyID != p.CompanyID {
		if !actor.IsAdmin() {
			return common.NewError(common.ErrForbidden, "You are not allowed to change company!")
		}
		p.CompanyID = *u.CompanyID
	}
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Category != nil {
		p.Category = strings.TrimSpace(*u.Category)
	}
	if u.ProductType != nil {
		p.ProductType = strings.TrimSpace(*u.ProductType)
	}
	if u.MRP != nil {
		p.MRP = *u.MRP
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
	return nil
}
