package products

import (
	"context"
	"errors"

	"github.com/medbill/medbill/internal/masterdata/companies"
	"github.com/medbill/medbill/internal/masterdata/shared"
	"github.com/medbill/medbill/internal/rbac"
	common "github.com/medbill/medbill/internal/shared"
)

// CompanyLookup resolves the company a product is filed under.
type CompanyLookup interface {
	Lookup(ctx context.Context, id int64) (companies.Company, error)
}

type Service struct {
	repo      Repository
	companies CompanyLookup
}

func NewService(repo Repository, companies CompanyLookup) *Service {
	return &Service{repo: repo, companies: companies}
}

func (s *Service) List(ctx context.Context, actor common.Actor, filters shared.ListFilters) ([]Product, common.Pagination, error) {
	filters.ListFilters = filters.ListFilters.Normalize()
	items, total, err := s.repo.List(ctx, filters, rbac.Scope(actor, "created_by"))
	if err != nil {
		return nil, common.Pagination{}, err
	}
	return items, common.NewPagination(filters.Page, filters.Limit, total), nil
}

func (s *Service) Get(ctx context.Context, actor common.Actor, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, errProductNotFound
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if !rbac.CanAccess(actor, p.CreatedBy) {
		return Product{}, errProductNotFound
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, actor common.Actor, form ProductForm) (Product, error) {
	normalizeForm(&form)
	if err := s.validate(form); err != nil {
		return Product{}, err
	}
	if err := s.ensureCompany(ctx, form.CompanyID); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, Product{
		Name:        form.Name,
		Category:    form.Category,
		ProductType: form.ProductType,
		CompanyID:   form.CompanyID,
		CreatedBy:   actor.ID,
		MRP:         form.MRP,
		Price:       form.Price,
		Stock:       form.Stock,
		IsActive:    true,
	})
}

func (s *Service) Update(ctx context.Context, actor common.Actor, id int64, form UpdateForm) (Product, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return Product{}, err
	}
	previousCompany := p.CompanyID
	if err := form.apply(&p, actor); err != nil {
		return Product{}, err
	}
	if p.CompanyID != previousCompany {
		if err := s.ensureCompany(ctx, p.CompanyID); err != nil {
			return Product{}, err
		}
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, actor common.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ensureCompany(ctx context.Context, companyID int64) error {
	if s.companies == nil {
		return nil
	}
	_, err := s.companies.Lookup(ctx, companyID)
	if errors.Is(err, common.ErrNotFound) {
		return common.NewError(common.ErrValidation, "Selected company does not exist!")
	}
	return err
}
