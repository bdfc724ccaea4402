package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS vendors (
    id           INTEGER PRIMARY KEY,
    permanent_id TEXT NOT NULL UNIQUE,
    name         TEXT NOT NULL,
    email        TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at   DATETIME
);

CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL CHECK (role IN ('admin', 'vendor')),
    vendor_id     INTEGER REFERENCES vendors(id),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME,
    CHECK ((role = 'vendor') = (vendor_id IS NOT NULL))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS skus (
    id         INTEGER PRIMARY KEY,
    code       TEXT NOT NULL,
    title      TEXT NOT NULL,
    brand      TEXT,
    category   TEXT,
    mrp        REAL NOT NULL DEFAULT 0 CHECK (mrp >= 0),
    image      BLOB,
    image_mime TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_skus_code_active
    ON skus(code) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS inventory (
    id                INTEGER PRIMARY KEY,
    sku_id            INTEGER NOT NULL REFERENCES skus(id),
    quantity          INTEGER NOT NULL CHECK (quantity >= 0),
    reserved_quantity INTEGER NOT NULL DEFAULT 0
                      CHECK (reserved_quantity >= 0 AND reserved_quantity <= quantity),
    status            TEXT NOT NULL DEFAULT 'pending'
                      CHECK (status IN ('pending', 'confirmed', 'rejected')),
    admin_id          INTEGER REFERENCES users(id),
    vendor_id         INTEGER REFERENCES vendors(id),
    rejection_reason  TEXT,
    responded_at      DATETIME,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK ((admin_id IS NULL) != (vendor_id IS NULL))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_inventory_admin_sku
    ON inventory(sku_id) WHERE admin_id IS NOT NULL;

CREATE INDEX IF NOT EXISTS idx_inventory_vendor
    ON inventory(vendor_id, status) WHERE vendor_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS inventory_history (
    id             INTEGER PRIMARY KEY,
    type           TEXT NOT NULL
                   CHECK (type IN ('transfer_to_vendor', 'deduct_damage', 'deduct_from_order')),
    sku_id         INTEGER NOT NULL REFERENCES skus(id),
    quantity       INTEGER NOT NULL CHECK (quantity > 0),
    from_admin_id  INTEGER REFERENCES users(id),
    from_vendor_id INTEGER REFERENCES vendors(id),
    to_vendor_id   INTEGER REFERENCES vendors(id),
    reason         TEXT,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_history_sku ON inventory_history(sku_id);

CREATE TABLE IF NOT EXISTS promo_codes (
    id               INTEGER PRIMARY KEY,
    code             TEXT NOT NULL UNIQUE,
    discount_percent INTEGER NOT NULL CHECK (discount_percent BETWEEN 1 AND 100),
    max_uses         INTEGER NOT NULL DEFAULT 0 CHECK (max_uses >= 0),
    used_count       INTEGER NOT NULL DEFAULT 0 CHECK (used_count >= 0),
    expires_at       DATETIME,
    active           INTEGER NOT NULL DEFAULT 1,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: backfill status for records created before the status
	// column had a NOT NULL default.
	`UPDATE inventory SET status = 'pending' WHERE status IS NULL OR status = ''`,
}

// Migrate ensures the schema exists and runs all migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
