package users

import (
	"context"
	"errors"
	"strings"

	"github.com/medbill/medbill/internal/shared"
)

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Get returns an active-or-inactive, non-deleted user.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, shared.NewError(shared.ErrNotFound, "User not found!")
	}
	return s.repo.Get(ctx, id)
}

// Exists reports whether a non-deleted user with id exists.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Profile returns the actor's own user record.
func (s *Service) Profile(ctx context.Context, actor shared.Actor) (User, error) {
	return s.Get(ctx, actor.ID)
}

// UpdateProfile applies the supplied fields to the actor's record.
func (s *Service) UpdateProfile(ctx context.Context, actor shared.Actor, req UpdateProfileRequest) (User, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return User{}, err
	}
	user, err := s.Get(ctx, actor.ID)
	if err != nil {
		return User{}, err
	}
	req.apply(&user)
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Create registers a user on behalf of an admin.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := shared.ValidateStruct(req); err != nil {
		return User{}, err
	}
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return User{}, shared.NewError(shared.ErrDuplicate, "User already exists!")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return User{}, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return User{}, err
	}
	role := req.Role
	if role == "" {
		role = shared.RoleUser
	}
	return s.repo.Create(ctx, User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		Phone:         req.Phone,
		Address:       req.Address,
		MedicalName:   req.MedicalName,
		State:         req.State,
		City:          req.City,
		Pincode:       req.Pincode,
		GSTNumber:     strings.ToUpper(req.GSTNumber),
		PANCardNumber: strings.ToUpper(req.PANCardNumber),
		Role:          role,
		IsActive:      true,
	})
}

// List returns users other than the requesting admin.
func (s *Service) List(ctx context.Context, actor shared.Actor, filters shared.ListFilters) ([]User, shared.Pagination, error) {
	filters = filters.Normalize()
	list, total, err := s.repo.List(ctx, filters, actor.ID)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// Delete soft deletes a user. Admins cannot delete themselves.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id int64) error {
	if id == actor.ID {
		return shared.NewError(shared.ErrValidation, "You cannot delete your own account!")
	}
	return s.repo.SoftDelete(ctx, id)
}
