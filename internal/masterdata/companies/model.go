package companies

import (
	"time"
)

// Company represents a medical firm a user bills under
type Company struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	GSTNumber string    `json:"gstNumber"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	State     string    `json:"state"`
	Logo      string    `json:"logo"`
	IsActive  bool      `json:"isActive"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
