package store

import (
	"context"
	"errors"
	"testing"

	"vendorstock/internal/db"
	"vendorstock/internal/model"
)

func TestCreateAdminStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := seedAdmin(t, database)
	sku := seedSKU(t, database, "S1", "Widget", 10)

	record, err := CreateAdminStock(ctx, database, admin.ID, sku.ID, 10)
	if err != nil {
		t.Fatalf("CreateAdminStock: %v", err)
	}
	if record.Status != model.StatusConfirmed {
		t.Errorf("admin stock must be confirmed, got %s", record.Status)
	}
	if !record.AdminHeld() || record.VendorID != nil {
		t.Errorf("expected admin-held record, got %+v", record)
	}

	// A second record for the same SKU is refused; restock is the path.
	if _, err := CreateAdminStock(ctx, database, admin.ID, sku.ID, 5); !errors.Is(err, ErrStockExists) {
		t.Errorf("expected ErrStockExists, got %v", err)
	}
}

func TestRestock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := seedAdmin(t, database)
	sku := seedSKU(t, database, "S1", "Widget", 10)
	record, _ := CreateAdminStock(ctx, database, admin.ID, sku.ID, 10)

	updated, err := Restock(ctx, database, record.ID, 5)
	if err != nil {
		t.Fatalf("Restock: %v", err)
	}
	if updated.Quantity != 15 {
		t.Errorf("expected quantity 15, got %d", updated.Quantity)
	}
}

func TestRestockVendorRecordFails(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := seedAdmin(t, database)
	vendor := seedVendor(t, database, "Acme")
	sku := seedSKU(t, database, "S1", "Widget", 10)
	CreateAdminStock(ctx, database, admin.ID, sku.ID, 10)
	pending, _ := TransferToVendor(ctx, database, admin.ID, vendor.ID, sku.ID, 5)

	if _, err := Restock(ctx, database, pending.ID, 5); !errors.Is(err, ErrNotAdminHeld) {
		t.Errorf("expected ErrNotAdminHeld, got %v", err)
	}
}

func TestDeductDamage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := seedAdmin(t, database)
	sku := seedSKU(t, database, "S1", "Widget", 10)
	record, _ := CreateAdminStock(ctx, database, admin.ID, sku.ID, 10)

	updated, err := DeductDamage(ctx, database, admin.ID, record.ID, 3, "water damage")
	if err != nil {
		t.Fatalf("DeductDamage: %v", err)
	}
	if updated.Quantity != 7 {
		t.Errorf("expected quantity 7, got %d", updated.Quantity)
	}

	entries, _, _ := ListHistory(ctx, database, HistoryFilter{Type: model.HistoryDeductDamage})
	if len(entries) != 1 || entries[0].Reason != "water damage" {
		t.Errorf("expected one deduct_damage entry with reason, got %+v", entries)
	}

	// Cannot deduct more than is free.
	if _, err := DeductDamage(ctx, database, admin.ID, record.ID, 8, ""); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestRecordSale(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := seedAdmin(t, database)
	vendor := seedVendor(t, database, "Acme")
	sku := seedSKU(t, database, "S1", "Widget", 10)
	CreateAdminStock(ctx, database, admin.ID, sku.ID, 10)
	record, _ := TransferToVendor(ctx, database, admin.ID, vendor.ID, sku.ID, 8)

	// Pending stock is not sellable.
	if _, err := RecordSale(ctx, database, vendor.ID, record.ID, 1); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("expected ErrNotConfirmed, got %v", err)
	}

	RespondToTransfer(ctx, database, vendor.ID, record.ID, model.StatusConfirmed, "")
	if err := SetReservation(ctx, database, record.ID, 5); err != nil {
		t.Fatalf("SetReservation: %v", err)
	}

	// Only 3 units are free to sell.
	if _, err := RecordSale(ctx, database, vendor.ID, record.ID, 4); !errors.Is(err, ErrBelowReservation) {
		t.Errorf("expected ErrBelowReservation, got %v", err)
	}

	updated, err := RecordSale(ctx, database, vendor.ID, record.ID, 3)
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if updated.Quantity != 5 || updated.Available() != 0 {
		t.Errorf("expected quantity 5 with 0 available, got %+v", updated)
	}

	entries, _, _ := ListHistory(ctx, database, HistoryFilter{Type: model.HistoryDeductFromOrder})
	if len(entries) != 1 {
		t.Errorf("expected one deduct_from_order entry, got %d", len(entries))
	}
}

func TestRecordSaleWrongVendor(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := seedAdmin(t, database)
	v1 := seedVendor(t, database, "Acme")
	v2 := seedVendor(t, database, "Globex")
	sku := seedSKU(t, database, "S1", "Widget", 10)
	CreateAdminStock(ctx, database, admin.ID, sku.ID, 10)
	record, _ := TransferToVendor(ctx, database, admin.ID, v1.ID, sku.ID, 5)
	RespondToTransfer(ctx, database, v1.ID, record.ID, model.StatusConfirmed, "")

	if _, err := RecordSale(ctx, database, v2.ID, record.ID, 1); !errors.Is(err, ErrWrongVendor) {
		t.Errorf("expected ErrWrongVendor, got %v", err)
	}
}

func TestVendorInventorySummary(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := seedAdmin(t, database)
	vendor := seedVendor(t, database, "Acme")
	s1 := seedSKU(t, database, "S1", "Widget", 5)
	s2 := seedSKU(t, database, "S2", "Gadget", 20)
	CreateAdminStock(ctx, database, admin.ID, s1.ID, 100)
	CreateAdminStock(ctx, database, admin.ID, s2.ID, 100)

	r1, _ := TransferToVendor(ctx, database, admin.ID, vendor.ID, s1.ID, 15)
	r2, _ := TransferToVendor(ctx, database, admin.ID, vendor.ID, s2.ID, 4)
	r3, _ := TransferToVendor(ctx, database, admin.ID, vendor.ID, s1.ID, 7)
	RespondToTransfer(ctx, database, vendor.ID, r1.ID, model.StatusConfirmed, "")
	RespondToTransfer(ctx, database, vendor.ID, r3.ID, model.StatusRejected, "wrong brand")
	_ = r2 // stays pending

	summary, err := GetVendorInventorySummary(ctx, database, vendor.ID)
	if err != nil {
		t.Fatalf("GetVendorInventorySummary: %v", err)
	}

	if summary.ConfirmedCount != 1 || summary.PendingCount != 1 || summary.RejectedCount != 1 {
		t.Errorf("unexpected status counts: %+v", summary)
	}
	if summary.TotalRecords != 3 {
		t.Errorf("expected 3 records, got %d", summary.TotalRecords)
	}
	if summary.TotalStock != 15+4+7 {
		t.Errorf("expected total stock 26, got %d", summary.TotalStock)
	}
	if summary.LowStockCount != 2 { // 4 and 7 are below the threshold
		t.Errorf("expected 2 low-stock records, got %d", summary.LowStockCount)
	}
	if want := 15*5.0 + 4*20.0 + 7*5.0; summary.TotalValue != want {
		t.Errorf("expected total value %v, got %v", want, summary.TotalValue)
	}
}

func TestOwnerExclusivity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := seedAdmin(t, database)
	vendor := seedVendor(t, database, "Acme")
	sku := seedSKU(t, database, "S1", "Widget", 10)
	CreateAdminStock(ctx, database, admin.ID, sku.ID, 10)
	TransferToVendor(ctx, database, admin.ID, vendor.ID, sku.ID, 5)

	// Every record has exactly one custodian.
	rows, err := database.QueryContext(ctx,
		`SELECT COUNT(*) FROM inventory
		 WHERE (admin_id IS NULL) = (vendor_id IS NULL)`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	rows.Next()
	var violations int
	rows.Scan(&violations)
	if violations != 0 {
		t.Errorf("found %d records violating owner exclusivity", violations)
	}
}
