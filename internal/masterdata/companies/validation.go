package companies

import (
	"strings"

	"github.com/medbill/medbill/internal/shared"
)

func normalizeForm(f *CompanyForm) {
	f.Name = strings.TrimSpace(f.Name)
	f.GSTNumber = strings.ToUpper(strings.TrimSpace(f.GSTNumber))
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.State = strings.TrimSpace(f.State)
}

func (s *Service) validate(f CompanyForm) error {
	return shared.ValidateStruct(f)
}

func (u UpdateForm) apply(c *Company) error {
	if err := shared.ValidateStruct(u); err != nil {
		return err
	}
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.GSTNumber != nil {
		c.GSTNumber = strings.ToUpper(strings.TrimSpace(*u.GSTNumber))
	}
	if u.Address != nil {
		c.Address = *u.Address
	}
	if u.Phone != nil {
		c.Phone = strings.TrimSpace(*u.Phone)
	}
	if u.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*u.Email))
	}
	if u.State != nil {
		c.State = strings.TrimSpace(*u.State)
	}
	if u.Logo != nil {
		c.Logo = *u.Logo
	}
	if u.IsActive != nil {
		c.IsActive = *u.IsActive
	}
	return nil
}
