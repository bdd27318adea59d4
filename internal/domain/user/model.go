package user

import "time"

// AdminUser is a back-office operator allowed to sign in.
type AdminUser struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	Name         string    `gorm:"column:name"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      AdminUser
}
