package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"storefront/models"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return models.DB.QueryRow(ctx, `
		INSERT INTO users (email, password, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		user.Email, user.Password, user.FullName, user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := models.DB.QueryRow(ctx, `
		SELECT id, email, password, full_name, role, created_at, updated_at
		FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := models.DB.QueryRow(ctx, `
		SELECT id, email, password, full_name, role, created_at, updated_at
		FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID, fullName string) error {
	_, err := models.DB.Exec(ctx,
		`UPDATE users SET full_name = $1, updated_at = now() WHERE id = $2`,
		fullName, userID)
	return err
}

// DeleteExpiredGuests prunes guest sessions past their expiry, cascading to
// their carts.
func (r *UserRepository) DeleteExpiredGuests(ctx context.Context) (int64, error) {
	tag, err := models.DB.Exec(ctx,
		`DELETE FROM guests WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
