package store

import (
	"context"
	"database/sql"
	"fmt"

	"vendorstock/internal/model"
)

// TransferToVendor moves stock from the admin pool to a vendor. It
// decrements the admin-held record, creates a new vendor-held record in
// pending status, and writes a transfer_to_vendor history row, all in a
// single transaction. The admin record keeps its identity (and is kept
// even at quantity zero) so restocks and history stay attached to it.
func TransferToVendor(ctx context.Context, db *sql.DB, adminUserID, vendorID, skuID int64, quantity int) (*model.InventoryRecord, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	vendor, err := GetVendor(ctx, db, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil || vendor.DeletedAt != nil {
		return nil, fmt.Errorf("%w: vendor %d", ErrNotFound, vendorID)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Check the free (unreserved) quantity on the admin record.
	var sourceID int64
	var qty, reserved int
	err = tx.QueryRowContext(ctx,
		`SELECT id, quantity, reserved_quantity FROM inventory
		 WHERE sku_id = ? AND admin_id IS NOT NULL`, skuID,
	).Scan(&sourceID, &qty, &reserved)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no admin stock for sku %d", ErrNotFound, skuID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading admin stock: %w", err)
	}

	if free := qty - reserved; quantity > free {
		return nil, fmt.Errorf("%w: %d free, need %d", ErrInsufficientStock, free, quantity)
	}

	// Decrement the source.
	_, err = tx.ExecContext(ctx,
		`UPDATE inventory SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		quantity, sourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("decrementing admin stock: %w", err)
	}

	// Create the vendor-held record, awaiting confirmation.
	result, err := tx.ExecContext(ctx,
		`INSERT INTO inventory (sku_id, quantity, status, vendor_id) VALUES (?, ?, 'pending', ?)`,
		skuID, quantity, vendorID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating vendor record: %w", err)
	}

	if err := addHistory(ctx, tx, model.HistoryEntry{
		Type:        model.HistoryTransferToVendor,
		SKUID:       skuID,
		Quantity:    quantity,
		FromAdminID: &adminUserID,
		ToVendorID:  &vendorID,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transfer: %w", err)
	}

	newID, _ := result.LastInsertId()
	return GetInventory(ctx, db, newID)
}

// RespondToTransfer settles a pending vendor-held record: confirmed on
// accept, rejected (with an optional reason) on reject. Both outcomes are
// terminal; responding to an already-settled record fails with
// ErrNotPending even if two responses race, because the transition is
// guarded by the status check in the UPDATE itself.
func RespondToTransfer(ctx context.Context, db *sql.DB, vendorID, inventoryID int64, next model.Status, reason string) (*model.InventoryRecord, error) {
	if next != model.StatusConfirmed && next != model.StatusRejected {
		return nil, fmt.Errorf("invalid response status %q", next)
	}

	record, err := GetInventory(ctx, db, inventoryID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	if record.VendorID == nil || *record.VendorID != vendorID {
		return nil, ErrWrongVendor
	}
	if !record.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: status is %s", ErrNotPending, record.Status)
	}

	if next == model.StatusConfirmed {
		reason = ""
	}

	result, err := db.ExecContext(ctx,
		`UPDATE inventory
		 SET status = ?, rejection_reason = ?, responded_at = CURRENT_TIMESTAMP,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'pending'`,
		next, nullIfEmpty(reason), inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("responding to transfer: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("responding to transfer: %w", err)
	}
	if n == 0 {
		// Lost a race with another response.
		return nil, ErrNotPending
	}

	return GetInventory(ctx, db, inventoryID)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
