package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"blog-api/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user; the email is stored normalized.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if _, err := r.FindByEmail(ctx, user.Email); err == nil {
		return ErrDuplicate
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// AdminID returns the lowest user id, which designates the administrator.
// ErrNotFound means nobody has registered yet.
func (r *UserRepository) AdminID(ctx context.Context) (uint, error) {
	var id sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("MIN(id)").
		Row().
		Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("find admin id: %w", err)
	}
	if !id.Valid {
		return 0, ErrNotFound
	}
	return uint(id.Int64), nil
}
