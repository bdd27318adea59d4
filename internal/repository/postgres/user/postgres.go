package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"village-admin-go/internal/db"
	domain "village-admin-go/internal/domain/user"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateAdmin(ctx context.Context, user *domain.AdminUser) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if _, ok := db.UniqueViolation(err); ok {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetAdminByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	var user domain.AdminUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
