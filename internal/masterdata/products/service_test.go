package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medbill/medbill/internal/masterdata/companies"
	"github.com/medbill/medbill/internal/masterdata/shared"
	"github.com/medbill/medbill/internal/rbac"
	common "github.com/medbill/medbill/internal/shared"
)

type memoryRepo struct {
	items  map[int64]Product
	nextID int64
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{items: map[int64]Product{}} }

func (r *memoryRepo) List(_ context.Context, f shared.ListFilters, scope rbac.Predicate) ([]Product, int, error) {
	var out []Product
	for _, p := range r.items {
		if p.IsDeleted || !scope.Matches(p.CreatedBy) {
			continue
		}
		if f.CompanyID != nil && p.CompanyID != *f.CompanyID {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(_ context.Context, id int64) (Product, error) {
	p, ok := r.items[id]
	if !ok || p.IsDeleted {
		return Product{}, errProductNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(_ context.Context, p Product) (Product, error) {
	r.nextID++
	p.ID = r.nextID
	r.items[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Update(_ context.Context, p Product) error {
	r.items[p.ID] = p
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	p := r.items[id]
	p.IsDeleted = true
	r.items[id] = p
	return nil
}

type companyStub map[int64]companies.Company

func (c companyStub) Lookup(_ context.Context, id int64) (companies.Company, error) {
	if co, ok := c[id]; ok {
		return co, nil
	}
	return companies.Company{}, common.NewError(common.ErrNotFound, "Company not found!")
}

var (
	user  = common.Actor{ID: 10, Role: common.RoleUser}
	admin = common.Actor{ID: 1, Role: common.RoleAdmin}
)

func newService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, companyStub{1: {ID: 1, UserID: 10}, 2: {ID: 2, UserID: 11}}), repo
}

func form() ProductForm {
	return ProductForm{Name: "Paracetamol 500", Category: "tablet", ProductType: "strip", CompanyID: 1, MRP: 40, Price: 30, Stock: 100}
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	p, err := svc.Create(ctx, user, form())
	require.NoError(t, err)
	require.Equal(t, user.ID, p.CreatedBy)
	require.Equal(t, 100, p.Stock)

	f := form()
	f.CompanyID = 0
	_, err = svc.Create(ctx, user, f)
	msg, _ := common.PublicMessage(err)
	require.Equal(t, "Company is required!", msg)

	f = form()
	f.CompanyID = 99
	_, err = svc.Create(ctx, user, f)
	require.ErrorIs(t, err, common.ErrValidation)

	f = form()
	f.Stock = -1
	_, err = svc.Create(ctx, user, f)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestOnlyAdminMovesCompany(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	p, err := svc.Create(ctx, user, form())
	require.NoError(t, err)

	to := int64(2)
	_, err = svc.Update(ctx, user, p.ID, UpdateForm{CompanyID: &to})
	require.ErrorIs(t, err, common.ErrForbidden)

	moved, err := svc.Update(ctx, admin, p.ID, UpdateForm{CompanyID: &to})
	require.NoError(t, err)
	require.Equal(t, int64(2), moved.CompanyID)

	stock := 5
	updated, err := svc.Update(ctx, user, p.ID, UpdateForm{Stock: &stock})
	require.NoError(t, err)
	require.Equal(t, 5, updated.Stock)
}

func TestProductsAreScopedToCreator(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	p, err := svc.Create(ctx, user, form())
	require.NoError(t, err)

	stranger := common.Actor{ID: 77, Role: common.RoleUser}
	_, err = svc.Get(ctx, stranger, p.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, stranger, p.ID), common.ErrNotFound)

	list, page, err := svc.List(ctx, stranger, shared.ListFilters{})
	require.NoError(t, err)
	require.Empty(t, list)
	require.Equal(t, 0, page.Total)

	list, _, err = svc.List(ctx, admin, shared.ListFilters{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, user, p.ID))
	_, err = svc.Get(ctx, user, p.ID)
	require.ErrorIs(t, err, common.ErrProductNotFound)
}
