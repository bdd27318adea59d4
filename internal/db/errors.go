package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// UniqueViolation reports whether err is a unique constraint violation and,
// when the driver exposes it, the constraint or column that was violated.
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		return pgErr.ConstraintName, true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}

	// sqlite: "UNIQUE constraint failed: household_heads.nik"
	const sqlitePrefix = "UNIQUE constraint failed:"
	if message := err.Error(); strings.Contains(message, sqlitePrefix) {
		return strings.TrimSpace(message[strings.Index(message, sqlitePrefix)+len(sqlitePrefix):]), true
	}
	return "", false
}
