package store

import (
	"context"
	"database/sql"
	"fmt"

	"vendorstock/internal/model"
)

// addHistory appends an audit row inside the caller's transaction, so a
// mutation and its audit trail commit or roll back together.
func addHistory(ctx context.Context, tx *sql.Tx, e model.HistoryEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO inventory_history (type, sku_id, quantity, from_admin_id, from_vendor_id, to_vendor_id, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Type, e.SKUID, e.Quantity, e.FromAdminID, e.FromVendorID, e.ToVendorID, nullIfEmpty(e.Reason),
	)
	if err != nil {
		return fmt.Errorf("recording history: %w", err)
	}
	return nil
}

// HistoryFilter narrows a history listing. Zero values mean "no filter".
type HistoryFilter struct {
	SKUID    int64
	VendorID int64
	Type     string
	Page     int
	Limit    int
}

// ListHistory returns a page of audit rows, newest first, and the total count.
func ListHistory(ctx context.Context, db *sql.DB, f HistoryFilter) ([]model.HistoryEntry, int, error) {
	cond := `WHERE 1=1`
	var args []any

	if f.SKUID > 0 {
		cond += ` AND h.sku_id = ?`
		args = append(args, f.SKUID)
	}
	if f.VendorID > 0 {
		cond += ` AND (h.from_vendor_id = ? OR h.to_vendor_id = ?)`
		args = append(args, f.VendorID, f.VendorID)
	}
	if f.Type != "" {
		cond += ` AND h.type = ?`
		args = append(args, f.Type)
	}

	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory_history h `+cond, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting history: %w", err)
	}

	sqlLimit, offset := normalizePage(f.Page, f.Limit)
	args = append(args, sqlLimit, offset)
	rows, err := db.QueryContext(ctx,
		`SELECT h.id, h.type, h.sku_id, h.quantity,
		        h.from_admin_id, h.from_vendor_id, h.to_vendor_id, h.reason, h.created_at,
		        s.code, s.title,
		        tv.name, fv.name
		 FROM inventory_history h
		 JOIN skus s ON s.id = h.sku_id
		 LEFT JOIN vendors tv ON tv.id = h.to_vendor_id
		 LEFT JOIN vendors fv ON fv.id = h.from_vendor_id
		 `+cond+` ORDER BY h.created_at DESC, h.id DESC LIMIT ? OFFSET ?`, args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		var reason, toVendorName, fromVendorName sql.NullString
		if err := rows.Scan(&e.ID, &e.Type, &e.SKUID, &e.Quantity,
			&e.FromAdminID, &e.FromVendorID, &e.ToVendorID, &reason, &e.CreatedAt,
			&e.SKUCode, &e.SKUTitle,
			&toVendorName, &fromVendorName); err != nil {
			return nil, 0, fmt.Errorf("scanning history entry: %w", err)
		}
		e.Reason = reason.String
		e.ToVendorName = toVendorName.String
		e.FromVendorName = fromVendorName.String
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
