// Package testdb opens an in-memory sqlite database with the production schema
// for repository tests.
package testdb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const schema = `
CREATE TABLE family_cards (
    id TEXT PRIMARY KEY,
    no_kk TEXT NOT NULL,
    province TEXT NOT NULL DEFAULT '',
    regency TEXT NOT NULL DEFAULT '',
    district TEXT NOT NULL DEFAULT '',
    village TEXT NOT NULL DEFAULT '',
    hamlet TEXT NOT NULL DEFAULT '',
    rw TEXT NOT NULL DEFAULT '',
    rt TEXT NOT NULL DEFAULT '',
    postal_code TEXT NOT NULL DEFAULT '',
    household_head_id TEXT REFERENCES household_heads(id) ON DELETE SET NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT family_cards_no_kk_key UNIQUE (no_kk)
);
CREATE UNIQUE INDEX family_cards_household_head_id_key
    ON family_cards (household_head_id) WHERE household_head_id IS NOT NULL;

CREATE TABLE household_heads (
    id TEXT PRIMARY KEY,
    nik TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    birth_certificate_no TEXT,
    gender TEXT,
    birth_place TEXT,
    birth_date DATE,
    blood_type TEXT,
    religion TEXT,
    marital_status TEXT,
    education TEXT,
    occupation TEXT,
    father_name TEXT,
    mother_name TEXT,
    scan_ktp TEXT,
    scan_kk TEXT,
    scan_akta_lahir TEXT,
    scan_buku_nikah TEXT,
    family_card_id TEXT NOT NULL UNIQUE REFERENCES family_cards(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE family_members (
    id TEXT PRIMARY KEY,
    nik TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    birth_certificate_no TEXT,
    gender TEXT,
    birth_place TEXT,
    birth_date DATE,
    blood_type TEXT,
    religion TEXT,
    marital_status TEXT,
    education TEXT,
    occupation TEXT,
    father_name TEXT,
    mother_name TEXT,
    scan_ktp TEXT,
    scan_kk TEXT,
    scan_akta_lahir TEXT,
    scan_buku_nikah TEXT,
    relationship TEXT,
    family_card_id TEXT NOT NULL REFERENCES family_cards(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE birth_entries (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    nik TEXT NOT NULL UNIQUE,
    event_date DATE NOT NULL,
    address TEXT,
    family_card_id TEXT REFERENCES family_cards(id) ON DELETE SET NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE deaths (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    nik TEXT NOT NULL UNIQUE,
    event_date DATE NOT NULL,
    address TEXT NOT NULL,
    family_card_id TEXT REFERENCES family_cards(id) ON DELETE SET NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE move_outs (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    nik TEXT NOT NULL UNIQUE,
    event_date DATE NOT NULL,
    address TEXT NOT NULL,
    family_card_id TEXT REFERENCES family_cards(id) ON DELETE SET NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE admin_users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// New returns a fresh database that is closed when the test ends. It uses a
// single connection so every query sees the same in-memory schema.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gormDB.Exec(schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return gormDB
}
