package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vendorstock/internal/model"
)

// CreateSKU creates a new SKU definition.
func CreateSKU(ctx context.Context, db *sql.DB, code, title, brand, category string, mrp float64) (*model.SKU, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO skus (code, title, brand, category, mrp) VALUES (?, ?, ?, ?, ?)`,
		code, title, brand, category, mrp,
	)
	if err != nil {
		if strings.Contains(err.Error(), "idx_skus_code_active") {
			return nil, ErrSKUCodeExists
		}
		return nil, fmt.Errorf("creating sku: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting sku id: %w", err)
	}

	return GetSKU(ctx, db, id)
}

// GetSKU returns a SKU by ID.
func GetSKU(ctx context.Context, db *sql.DB, id int64) (*model.SKU, error) {
	s := &model.SKU{}
	var brand, category, imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, code, title, brand, category, mrp, image_mime, created_at, updated_at, deleted_at
		 FROM skus WHERE id = ?`, id,
	).Scan(&s.ID, &s.Code, &s.Title, &brand, &category, &s.MRP, &imageMime, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting sku: %w", err)
	}
	s.Brand = brand.String
	s.Category = category.String
	s.ImageMime = imageMime.String
	return s, nil
}

// ListSKUs returns a page of non-deleted SKUs and the total count,
// optionally filtered by category.
func ListSKUs(ctx context.Context, db *sql.DB, category string, page, limit int) ([]model.SKU, int, error) {
	cond := `deleted_at IS NULL`
	var args []any
	if category != "" {
		cond += ` AND category = ?`
		args = append(args, category)
	}

	var total int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM skus WHERE `+cond, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting skus: %w", err)
	}

	sqlLimit, offset := normalizePage(page, limit)
	args = append(args, sqlLimit, offset)
	rows, err := db.QueryContext(ctx,
		`SELECT id, code, title, brand, category, mrp, image_mime, created_at, updated_at, deleted_at
		 FROM skus WHERE `+cond+` ORDER BY title LIMIT ? OFFSET ?`, args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing skus: %w", err)
	}
	defer rows.Close()

	var skus []model.SKU
	for rows.Next() {
		var s model.SKU
		var brand, cat, imageMime sql.NullString
		if err := rows.Scan(&s.ID, &s.Code, &s.Title, &brand, &cat, &s.MRP, &imageMime, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning sku: %w", err)
		}
		s.Brand = brand.String
		s.Category = cat.String
		s.ImageMime = imageMime.String
		skus = append(skus, s)
	}
	return skus, total, rows.Err()
}

// UpdateSKU updates a SKU's metadata and price.
func UpdateSKU(ctx context.Context, db *sql.DB, id int64, title, brand, category string, mrp float64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE skus SET title = ?, brand = ?, category = ?, mrp = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		title, brand, category, mrp, id,
	)
	if err != nil {
		return fmt.Errorf("updating sku: %w", err)
	}
	return nil
}

// DeleteSKU soft-deletes a SKU.
func DeleteSKU(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE skus SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting sku: %w", err)
	}
	return nil
}

// SetSKUImage stores a SKU's image data.
func SetSKUImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE skus SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting sku image: %w", err)
	}
	return nil
}

// GetSKUImage returns a SKU's image data and MIME type.
func GetSKUImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM skus WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting sku image: %w", err)
	}
	return image, mime.String, nil
}
