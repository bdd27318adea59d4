package user

import (
	"context"
	"time"
)

type Repository interface {
	CreateAdmin(ctx context.Context, user *AdminUser) error
	GetAdminByEmail(ctx context.Context, email string) (*AdminUser, error)
}

type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}
