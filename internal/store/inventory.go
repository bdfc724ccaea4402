package store

import (
	"context"
	"database/sql"
	"fmt"

	"vendorstock/internal/model"
)

// inventorySelect is the shared projection for inventory queries,
// joining SKU metadata and (when vendor-held) the vendor.
const inventorySelect = `
	SELECT inv.id, inv.sku_id, inv.quantity, inv.reserved_quantity, inv.status,
	       inv.admin_id, inv.vendor_id, inv.rejection_reason, inv.responded_at,
	       inv.created_at, inv.updated_at,
	       s.code, s.title, s.brand, s.mrp,
	       v.name, v.permanent_id
	FROM inventory inv
	JOIN skus s ON s.id = inv.sku_id
	LEFT JOIN vendors v ON v.id = inv.vendor_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInventoryRecord(row rowScanner) (*model.InventoryRecord, error) {
	r := &model.InventoryRecord{}
	var brand, reason, vendorName, vendorPermanentID sql.NullString
	var respondedAt sql.NullTime
	err := row.Scan(&r.ID, &r.SKUID, &r.Quantity, &r.ReservedQuantity, &r.Status,
		&r.AdminID, &r.VendorID, &reason, &respondedAt,
		&r.CreatedAt, &r.UpdatedAt,
		&r.SKUCode, &r.SKUTitle, &brand, &r.SKUMRP,
		&vendorName, &vendorPermanentID)
	if err != nil {
		return nil, err
	}
	r.SKUBrand = brand.String
	r.RejectionReason = reason.String
	if respondedAt.Valid {
		r.RespondedAt = &respondedAt.Time
	}
	r.VendorName = vendorName.String
	r.VendorPermanentID = vendorPermanentID.String
	return r, nil
}

func scanInventoryRecords(rows *sql.Rows) ([]model.InventoryRecord, error) {
	var records []model.InventoryRecord
	for rows.Next() {
		r, err := scanInventoryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// GetInventory returns an inventory record by ID.
func GetInventory(ctx context.Context, db *sql.DB, id int64) (*model.InventoryRecord, error) {
	r, err := scanInventoryRecord(db.QueryRowContext(ctx, inventorySelect+` WHERE inv.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory record: %w", err)
	}
	return r, nil
}

// GetAdminStock returns the admin-held record for a SKU, if any.
// At most one exists per SKU (enforced by a partial unique index).
func GetAdminStock(ctx context.Context, db *sql.DB, skuID int64) (*model.InventoryRecord, error) {
	r, err := scanInventoryRecord(db.QueryRowContext(ctx,
		inventorySelect+` WHERE inv.sku_id = ? AND inv.admin_id IS NOT NULL`, skuID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin stock: %w", err)
	}
	return r, nil
}

// CreateAdminStock creates the admin-held record for a SKU. Admin stock is
// settled the moment it exists, so the record is created confirmed.
func CreateAdminStock(ctx context.Context, db *sql.DB, adminUserID, skuID int64, quantity int) (*model.InventoryRecord, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	existing, err := GetAdminStock(ctx, db, skuID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrStockExists
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO inventory (sku_id, quantity, status, admin_id) VALUES (?, ?, 'confirmed', ?)`,
		skuID, quantity, adminUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating admin stock: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting inventory id: %w", err)
	}

	return GetInventory(ctx, db, id)
}

// Restock increases an admin-held record's quantity.
func Restock(ctx context.Context, db *sql.DB, id int64, quantity int) (*model.InventoryRecord, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	record, err := GetInventory(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	if !record.AdminHeld() {
		return nil, ErrNotAdminHeld
	}

	_, err = db.ExecContext(ctx,
		`UPDATE inventory SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		quantity, id,
	)
	if err != nil {
		return nil, fmt.Errorf("restocking: %w", err)
	}

	return GetInventory(ctx, db, id)
}

// ListAdminInventory returns a page of admin-held records and the total count.
func ListAdminInventory(ctx context.Context, db *sql.DB, page, limit int) ([]model.InventoryRecord, int, error) {
	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory WHERE admin_id IS NOT NULL`,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting admin inventory: %w", err)
	}

	sqlLimit, offset := normalizePage(page, limit)
	rows, err := db.QueryContext(ctx,
		inventorySelect+` WHERE inv.admin_id IS NOT NULL ORDER BY s.title LIMIT ? OFFSET ?`,
		sqlLimit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing admin inventory: %w", err)
	}
	defer rows.Close()

	records, err := scanInventoryRecords(rows)
	return records, total, err
}

// listVendorInventory lists a vendor's records matching an extra condition.
func listVendorInventory(ctx context.Context, db *sql.DB, vendorID int64, cond string, page, limit int) ([]model.InventoryRecord, int, error) {
	where := ` WHERE inv.vendor_id = ?` + cond

	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory inv`+where, vendorID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting vendor inventory: %w", err)
	}

	sqlLimit, offset := normalizePage(page, limit)
	rows, err := db.QueryContext(ctx,
		inventorySelect+where+` ORDER BY inv.created_at DESC, inv.id DESC LIMIT ? OFFSET ?`,
		vendorID, sqlLimit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing vendor inventory: %w", err)
	}
	defer rows.Close()

	records, err := scanInventoryRecords(rows)
	return records, total, err
}

// ListVendorInventory returns a page of a vendor's records across all statuses.
func ListVendorInventory(ctx context.Context, db *sql.DB, vendorID int64, page, limit int) ([]model.InventoryRecord, int, error) {
	return listVendorInventory(ctx, db, vendorID, "", page, limit)
}

// ListVendorDeliveries returns the vendor's delivery-confirmation inbox:
// everything not yet confirmed (pending and rejected).
func ListVendorDeliveries(ctx context.Context, db *sql.DB, vendorID int64, page, limit int) ([]model.InventoryRecord, int, error) {
	return listVendorInventory(ctx, db, vendorID, ` AND inv.status != 'confirmed'`, page, limit)
}

// ListPendingTransfers returns the vendor's open transfer requests.
func ListPendingTransfers(ctx context.Context, db *sql.DB, vendorID int64, page, limit int) ([]model.InventoryRecord, int, error) {
	return listVendorInventory(ctx, db, vendorID, ` AND inv.status = 'pending'`, page, limit)
}

// GetVendorInventorySummary computes the overview aggregates for all of a
// vendor's records. Aggregates are derived on read, never stored.
func GetVendorInventorySummary(ctx context.Context, db *sql.DB, vendorID int64) (model.InventorySummary, error) {
	rows, err := db.QueryContext(ctx, inventorySelect+` WHERE inv.vendor_id = ?`, vendorID)
	if err != nil {
		return model.InventorySummary{}, fmt.Errorf("loading vendor inventory: %w", err)
	}
	defer rows.Close()

	records, err := scanInventoryRecords(rows)
	if err != nil {
		return model.InventorySummary{}, err
	}
	return model.Summarize(records), nil
}

// DeductDamage removes damaged units from an admin-held record and writes
// a deduct_damage history row in the same transaction.
func DeductDamage(ctx context.Context, db *sql.DB, adminUserID, inventoryID int64, quantity int, reason string) (*model.InventoryRecord, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var skuID, qty, reserved int64
	var adminID sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT sku_id, quantity, reserved_quantity, admin_id FROM inventory WHERE id = ?`,
		inventoryID,
	).Scan(&skuID, &qty, &reserved, &adminID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading inventory record: %w", err)
	}
	if !adminID.Valid {
		return nil, ErrNotAdminHeld
	}
	if int64(quantity) > qty-reserved {
		return nil, fmt.Errorf("%w: %d free, need %d", ErrInsufficientStock, qty-reserved, quantity)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE inventory SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		quantity, inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("deducting stock: %w", err)
	}

	if err := addHistory(ctx, tx, model.HistoryEntry{
		Type:        model.HistoryDeductDamage,
		SKUID:       skuID,
		Quantity:    quantity,
		FromAdminID: &adminUserID,
		Reason:      reason,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing deduction: %w", err)
	}

	return GetInventory(ctx, db, inventoryID)
}

// RecordSale deducts sold units from a vendor's confirmed record and writes
// a deduct_from_order history row. Units reserved for open orders cannot
// be sold over the counter.
func RecordSale(ctx context.Context, db *sql.DB, vendorID, inventoryID int64, quantity int) (*model.InventoryRecord, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var skuID, qty, reserved int64
	var recVendorID sql.NullInt64
	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT sku_id, quantity, reserved_quantity, vendor_id, status FROM inventory WHERE id = ?`,
		inventoryID,
	).Scan(&skuID, &qty, &reserved, &recVendorID, &status)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading inventory record: %w", err)
	}
	if !recVendorID.Valid || recVendorID.Int64 != vendorID {
		return nil, ErrWrongVendor
	}
	if model.Status(status) != model.StatusConfirmed {
		return nil, ErrNotConfirmed
	}
	if int64(quantity) > qty-reserved {
		return nil, fmt.Errorf("%w: %d free, need %d", ErrBelowReservation, qty-reserved, quantity)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE inventory SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		quantity, inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("deducting stock: %w", err)
	}

	if err := addHistory(ctx, tx, model.HistoryEntry{
		Type:         model.HistoryDeductFromOrder,
		SKUID:        skuID,
		Quantity:     quantity,
		FromVendorID: &vendorID,
		Reason:       "walk-in sale",
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sale: %w", err)
	}

	return GetInventory(ctx, db, inventoryID)
}

// SetReservation adjusts the reserved quantity on a record, keeping the
// reservation invariant (0 <= reserved <= quantity) enforced by the schema.
func SetReservation(ctx context.Context, db *sql.DB, id int64, reserved int) error {
	if reserved < 0 {
		return fmt.Errorf("reserved quantity must not be negative")
	}
	res, err := db.ExecContext(ctx,
		`UPDATE inventory SET reserved_quantity = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND quantity >= ?`,
		reserved, id, reserved,
	)
	if err != nil {
		return fmt.Errorf("setting reservation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting reservation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: reservation exceeds quantity or record missing", ErrInsufficientStock)
	}
	return nil
}
