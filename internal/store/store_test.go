package store

import (
	"context"
	"database/sql"
	"testing"

	"vendorstock/internal/model"
)

// Shared fixtures for store tests.

func seedAdmin(t *testing.T, db *sql.DB) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, "admin", "hash", model.RoleAdmin, nil)
	if err != nil {
		t.Fatalf("creating admin user: %v", err)
	}
	return u
}

func seedVendor(t *testing.T, db *sql.DB, name string) *model.Vendor {
	t.Helper()
	v, err := CreateVendor(context.Background(), db, name, "")
	if err != nil {
		t.Fatalf("creating vendor: %v", err)
	}
	return v
}

func seedSKU(t *testing.T, db *sql.DB, code, title string, mrp float64) *model.SKU {
	t.Helper()
	s, err := CreateSKU(context.Background(), db, code, title, "", "", mrp)
	if err != nil {
		t.Fatalf("creating sku: %v", err)
	}
	return s
}
