package companies

import (
	"context"

	"github.com/medbill/medbill/internal/masterdata/shared"
	"github.com/medbill/medbill/internal/rbac"
	common "github.com/medbill/medbill/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, actor common.Actor, filters shared.ListFilters) ([]Company, common.Pagination, error) {
	filters.ListFilters = filters.ListFilters.Normalize()
	items, total, err := s.repo.List(ctx, filters, rbac.Scope(actor, "user_id"))
	if err != nil {
		return nil, common.Pagination{}, err
	}
	return items, common.NewPagination(filters.Page, filters.Limit, total), nil
}

// Get returns a company visible to actor. Companies owned by others read as missing.
func (s *Service) Get(ctx context.Context, actor common.Actor, id int64) (Company, error) {
	c, err := s.Lookup(ctx, id)
	if err != nil {
		return Company{}, err
	}
	if !rbac.CanAccess(actor, c.UserID) {
		return Company{}, errCompanyNotFound
	}
	return c, nil
}

// Lookup returns a non-deleted company regardless of owner.
func (s *Service) Lookup(ctx context.Context, id int64) (Company, error) {
	if id <= 0 {
		return Company{}, errCompanyNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor common.Actor, form CompanyForm) (Company, error) {
	normalizeForm(&form)
	if err := s.validate(form); err != nil {
		return Company{}, err
	}
	owner := actor.ID
	if actor.IsAdmin() && form.UserID != 0 {
		owner = form.UserID
	}
	return s.repo.Create(ctx, Company{
		UserID:    owner,
		Name:      form.Name,
		GSTNumber: form.GSTNumber,
		Address:   form.Address,
		Phone:     form.Phone,
		Email:     form.Email,
		State:     form.State,
		Logo:      form.Logo,
		IsActive:  true,
	})
}

func (s *Service) Update(ctx context.Context, actor common.Actor, id int64, form UpdateForm) (Company, error) {
	c, err := s.Lookup(ctx, id)
	if err != nil {
		return Company{}, err
	}
	if err := rbac.Authorize(actor, c.UserID); err != nil {
		return Company{}, err
	}
	if err := form.apply(&c); err != nil {
		return Company{}, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return Company{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, actor common.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
