package categories

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

func (s *Service) List(ctx context.Context, actor common.Actor, filters shared.ListFilters) ([]Category, common.Pagination, error) {
	filters.ListFilters = filters.ListFilters.Normalize()
	items, total, err := s.repo.List(ctx, filters, rbac.Scope(actor, "created_by"))
	if err != nil {
		return nil, common.Pagination{}, err
	}
	return items, common.NewPagination(filters.Page, filters.Limit, total), nil
}

// Dropdown lists active categories visible to actor.
func (s *Service) Dropdown(ctx context.Context, actor common.Actor) ([]Option, error) {
	return s.repo.Options(ctx, rbac.Scope(actor, "created_by"))
}

func (s *Service) Get(ctx context.Context, actor common.Actor, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, errCategoryNotFound
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if !rbac.CanAccess(actor, c.CreatedBy) {
		return Category{}, errCategoryNotFound
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, actor common.Actor, form CategoryForm) (Category, error) {
	form.Name = NormalizeName(form.Name)
	if err := common.ValidateStruct(form); err != nil {
		return Category{}, err
	}
	if err := s.ensureUnique(ctx, actor.ID, form.Name, 0); err != nil {
		return Category{}, err
	}
	return s.repo.Create(ctx, Category{
		CreatedBy:   actor.ID,
		Name:        form.Name,
		Description: form.Description,
		IsActive:    true,
	})
}

func (s *Service) Update(ctx context.Context, actor common.Actor, id int64, form UpdateForm) (Category, error) {
	if err := common.ValidateStruct(form); err != nil {
		return Category{}, err
	}
	c, err := s.Get(ctx, actor, id)
	if err != nil {
		return Category{}, err
	}
	if form.Name != nil {
		name := NormalizeName(*form.Name)
		if name == "" {
			return Category{}, common.Required("Name")
		}
		if err := s.ensureUnique(ctx, c.CreatedBy, name, c.ID); err != nil {
			return Category{}, err
		}
		c.Name = name
	}
	if form.Description != nil {
		c.Description = *form.Description
	}
	if form.IsActive != nil {
		c.IsActive = *form.IsActive
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, actor common.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ensureUnique(ctx context.Context, owner int64, name string, excludeID int64) error {
	taken, err := s.repo.NameTaken(ctx, owner, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return errCategoryExists
	}
	return nil
}
