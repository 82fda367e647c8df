package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medbill/medbill/internal/masterdata/shared"
	"github.com/medbill/medbill/internal/rbac"
	common "github.com/medbill/medbill/internal/shared"
)

type memoryRepo struct {
	items  map[int64]Category
	nextID int64
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{items: map[int64]Category{}} }

func (r *memoryRepo) List(_ context.Context, _ shared.ListFilters, scope rbac.Predicate) ([]Category, int, error) {
	var out []Category
	for _, c := range r.items {
		if !c.IsDeleted && scope.Matches(c.CreatedBy) {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (r *memoryRepo) Options(_ context.Context, scope rbac.Predicate) ([]Option, error) {
	var out []Option
	for _, c := range r.items {
		if !c.IsDeleted && c.IsActive && scope.Matches(c.CreatedBy) {
			out = append(out, Option{ID: c.ID, Name: c.Name})
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, id int64) (Category, error) {
	c, ok := r.items[id]
	if !ok || c.IsDeleted {
		return Category{}, errCategoryNotFound
	}
	return c, nil
}

func (r *memoryRepo) NameTaken(_ context.Context, owner int64, name string, excludeID int64) (bool, error) {
	for _, c := range r.items {
		if !c.IsDeleted && c.CreatedBy == owner && c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Create(_ context.Context, c Category) (Category, error) {
	r.nextID++
	c.ID = r.nextID
	r.items[c.ID] = c
	return c, nil
}

func (r *memoryRepo) Update(_ context.Context, c Category) error {
	r.items[c.ID] = c
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	c := r.items[id]
	c.IsDeleted = true
	r.items[id] = c
	return nil
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "tablet", NormalizeName("  TaBLet "))
	require.Equal(t, "", NormalizeName("   "))
}

func TestCreateRejectsDuplicatePerOwner(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	alice := common.Actor{ID: 1, Role: common.RoleUser}
	bob := common.Actor{ID: 2, Role: common.RoleUser}

	c, err := svc.Create(ctx, alice, CategoryForm{Name: " Syrup "})
	require.NoError(t, err)
	require.Equal(t, "syrup", c.Name)

	_, err = svc.Create(ctx, alice, CategoryForm{Name: "SYRUP"})
	require.ErrorIs(t, err, common.ErrDuplicate)

	_, err = svc.Create(ctx, bob, CategoryForm{Name: "syrup"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice, c.ID))
	_, err = svc.Create(ctx, alice, CategoryForm{Name: "syrup"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, alice, CategoryForm{Name: "   "})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdateAndDropdown(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	alice := common.Actor{ID: 1, Role: common.RoleUser}

	tab, err := svc.Create(ctx, alice, CategoryForm{Name: "tablet"})
	require.NoError(t, err)
	capsule, err := svc.Create(ctx, alice, CategoryForm{Name: "capsule"})
	require.NoError(t, err)

	name := "Tablet"
	_, err = svc.Update(ctx, alice, capsule.ID, UpdateForm{Name: &name})
	require.ErrorIs(t, err, common.ErrDuplicate)

	inactive := false
	_, err = svc.Update(ctx, alice, tab.ID, UpdateForm{IsActive: &inactive})
	require.NoError(t, err)

	opts, err := svc.Dropdown(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, []Option{{ID: capsule.ID, Name: "capsule"}}, opts)

	_, err = svc.Get(ctx, common.Actor{ID: 9, Role: common.RoleUser}, tab.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}
