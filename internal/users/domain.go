package users

import (
	"time"

	"github.com/medbill/medbill/internal/shared"
)

// User represents a user account.
type User struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	PasswordHash  string      `json:"-"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	MedicalName   string      `json:"medicalName"`
	State         string      `json:"state"`
	City          string      `json:"city"`
	Pincode       string      `json:"pincode"`
	GSTNumber     string      `json:"gstNumber"`
	PANCardNumber string      `json:"panCardNumber"`
	Role          shared.Role `json:"role"`
	IsActive      bool        `json:"isActive"`
	IsDeleted     bool        `json:"-"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Actor returns the identity used for authorization decisions.
func (u User) Actor() shared.Actor {
	return shared.Actor{ID: u.ID, Role: u.Role}
}

// CreateUserRequest is the admin payload for registering a user.
type CreateUserRequest struct {
	Name          string      `json:"name" validate:"required,max=120"`
	Email         string      `json:"email" validate:"required,email"`
	Password      string      `json:"password" validate:"required,min=6"`
	Phone         string      `json:"phone" validate:"omitempty,max=20"`
	Address       string      `json:"address"`
	MedicalName   string      `json:"medicalName" label:"medical name"`
	State         string      `json:"state"`
	City          string      `json:"city"`
	Pincode       string      `json:"pincode" validate:"omitempty,numeric,len=6"`
	GSTNumber     string      `json:"gstNumber" label:"GST number"`
	PANCardNumber string      `json:"panCardNumber" label:"PAN card number"`
	Role          shared.Role `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

// UpdateProfileRequest carries the optional profile fields a user may edit.
type UpdateProfileRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=120"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	Address       *string `json:"address"`
	MedicalName   *string `json:"medicalName"`
	State         *string `json:"state"`
	City          *string `json:"city"`
	Pincode       *string `json:"pincode" validate:"omitempty,numeric,len=6"`
	GSTNumber     *string `json:"gstNumber"`
	PANCardNumber *string `json:"panCardNumber"`
}

func (r UpdateProfileRequest) apply(u *User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, r.Name)
	set(&u.Phone, r.Phone)
	set(&u.Address, r.Address)
	set(&u.MedicalName, r.MedicalName)
	set(&u.State, r.State)
	set(&u.City, r.City)
	set(&u.Pincode, r.Pincode)
	set(&u.GSTNumber, r.GSTNumber)
	set(&u.PANCardNumber, r.PANCardNumber)
}
