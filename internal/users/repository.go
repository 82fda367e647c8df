package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/medbill/medbill/internal/platform/db"
	"github.com/medbill/medbill/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	List(ctx context.Context, filters shared.ListFilters, excludeID int64) ([]User, int, error)
	SoftDelete(ctx context.Context, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, name, email, password_hash, phone, address, medical_name, state, city, pincode,
gst_number, pan_card_number, role, is_active, is_deleted, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Address, &u.MedicalName,
		&u.State, &u.City, &u.Pincode, &u.GSTNumber, &u.PANCardNumber, &u.Role, &u.IsActive, &u.IsDeleted,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, shared.NewError(shared.ErrNotFound, "User not found!")
	}
	return u, err
}

// Get returns a non-deleted user.
func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND is_deleted = FALSE`, id))
}

// FindByEmail returns a non-deleted user by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND is_deleted = FALSE`, email))
}

// Create inserts a user.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO users (name, email, password_hash, phone, address, medical_name, state, city,
pincode, gst_number, pan_card_number, role, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.Phone, u.Address, u.MedicalName, u.State, u.City,
		u.Pincode, u.GSTNumber, u.PANCardNumber, u.Role, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return User{}, shared.NewError(shared.ErrDuplicate, "User already exists!")
	}
	if err != nil {
		return User{}, fmt.Errorf("users: create: %w", err)
	}
	return u, nil
}

// Update writes profile fields.
func (r *Repository) Update(ctx context.Context, u User) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET name = $2, phone = $3, address = $4, medical_name = $5, state = $6,
city = $7, pincode = $8, gst_number = $9, pan_card_number = $10, updated_at = NOW()
WHERE id = $1 AND is_deleted = FALSE`,
		u.ID, u.Name, u.Phone, u.Address, u.MedicalName, u.State, u.City, u.Pincode, u.GSTNumber, u.PANCardNumber)
	if err != nil {
		return fmt.Errorf("users: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewError(shared.ErrNotFound, "User not found!")
	}
	return nil
}

// UpdatePassword replaces the password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id, hash)
	if err != nil {
		return fmt.Errorf("users: update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewError(shared.ErrNotFound, "User not found!")
	}
	return nil
}

// List returns a page of non-deleted users, excluding excludeID.
func (r *Repository) List(ctx context.Context, filters shared.ListFilters, excludeID int64) ([]User, int, error) {
	filters = filters.Normalize()
	var where db.Where
	where.AddRaw("is_deleted = FALSE")
	if excludeID != 0 {
		where.Add("id <> $?", excludeID)
	}
	if filters.Search != "" {
		where.Add("(name ILIKE $? OR email ILIKE $? OR medical_name ILIKE $? OR phone ILIKE $?)", db.Like(filters.Search))
	}

	var (
		users []User
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := `SELECT ` + userColumns + ` FROM users` + where.SQL() +
			` ORDER BY created_at DESC, id DESC LIMIT ` + where.Next(1) + ` OFFSET ` + where.Next(2)
		rows, err := r.pool.Query(gctx, query, append(where.Args(), filters.Limit, filters.Offset())...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.pool.QueryRow(gctx, `SELECT COUNT(*) FROM users`+where.SQL(), where.Args()...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("users: list: %w", err)
	}
	return users, total, nil
}

// SoftDelete flags a user as deleted and inactive.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_deleted = TRUE, is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewError(shared.ErrNotFound, "User not found!")
	}
	return nil
}
