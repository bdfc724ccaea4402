package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"vendorstock/internal/model"
)

// CreateVendor creates a new vendor with a generated permanent ID.
func CreateVendor(ctx context.Context, db *sql.DB, name, email string) (*model.Vendor, error) {
	permanentID := uuid.NewString()

	result, err := db.ExecContext(ctx,
		`INSERT INTO vendors (permanent_id, name, email) VALUES (?, ?, ?)`,
		permanentID, name, email,
	)
	if err != nil {
		return nil, fmt.Errorf("creating vendor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting vendor id: %w", err)
	}

	return GetVendor(ctx, db, id)
}

// GetVendor returns a vendor by row ID.
func GetVendor(ctx context.Context, db *sql.DB, id int64) (*model.Vendor, error) {
	return getVendorWhere(ctx, db, "id = ?", id)
}

// GetVendorByPermanentID returns a vendor by its stable UUID.
func GetVendorByPermanentID(ctx context.Context, db *sql.DB, permanentID string) (*model.Vendor, error) {
	return getVendorWhere(ctx, db, "permanent_id = ?", permanentID)
}

func getVendorWhere(ctx context.Context, db *sql.DB, cond string, arg any) (*model.Vendor, error) {
	v := &model.Vendor{}
	var email sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, permanent_id, name, email, created_at, deleted_at
		 FROM vendors WHERE `+cond, arg,
	).Scan(&v.ID, &v.PermanentID, &v.Name, &email, &v.CreatedAt, &v.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting vendor: %w", err)
	}
	v.Email = email.String
	return v, nil
}

// ResolveVendorID maps a vendor reference to a row ID. The reference may
// be a numeric row ID or a permanent UUID; API responses historically
// used both shapes, so both are accepted at the boundary and normalized
// here once.
func ResolveVendorID(ctx context.Context, db *sql.DB, ref string) (int64, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		v, err := GetVendor(ctx, db, id)
		if err != nil {
			return 0, err
		}
		if v == nil || v.DeletedAt != nil {
			return 0, ErrNotFound
		}
		return v.ID, nil
	}

	v, err := GetVendorByPermanentID(ctx, db, ref)
	if err != nil {
		return 0, err
	}
	if v == nil || v.DeletedAt != nil {
		return 0, ErrNotFound
	}
	return v.ID, nil
}

// ListVendors returns a page of non-deleted vendors and the total count.
func ListVendors(ctx context.Context, db *sql.DB, page, limit int) ([]model.Vendor, int, error) {
	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vendors WHERE deleted_at IS NULL`,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting vendors: %w", err)
	}

	sqlLimit, offset := normalizePage(page, limit)
	rows, err := db.QueryContext(ctx,
		`SELECT id, permanent_id, name, email, created_at, deleted_at
		 FROM vendors WHERE deleted_at IS NULL
		 ORDER BY name LIMIT ? OFFSET ?`, sqlLimit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing vendors: %w", err)
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		var v model.Vendor
		var email sql.NullString
		if err := rows.Scan(&v.ID, &v.PermanentID, &v.Name, &email, &v.CreatedAt, &v.DeletedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning vendor: %w", err)
		}
		v.Email = email.String
		vendors = append(vendors, v)
	}
	return vendors, total, rows.Err()
}

// UpdateVendor updates a vendor's name and email.
func UpdateVendor(ctx context.Context, db *sql.DB, id int64, name, email string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE vendors SET name = ?, email = ? WHERE id = ? AND deleted_at IS NULL`,
		name, email, id,
	)
	if err != nil {
		return fmt.Errorf("updating vendor: %w", err)
	}
	return nil
}

// DeleteVendor soft-deletes a vendor. Fails if the vendor still holds
// any stock, so records never point at a deleted custodian.
func DeleteVendor(ctx context.Context, db *sql.DB, id int64) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory WHERE vendor_id = ? AND quantity > 0`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking vendor inventory: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d records with stock", ErrVendorHasInventory, count)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE vendors SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting vendor: %w", err)
	}
	return nil
}
