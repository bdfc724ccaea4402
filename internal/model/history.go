package model

import "time"

// History entry types, one per kind of stock mutation.
const (
	HistoryTransferToVendor = "transfer_to_vendor"
	HistoryDeductDamage     = "deduct_damage"
	HistoryDeductFromOrder  = "deduct_from_order"
)

// HistoryEntry is one append-only audit row for a stock mutation.
// Entries are written inside the same transaction as the mutation and
// are never updated or deleted.
type HistoryEntry struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	SKUID        int64     `json:"sku_id"`
	Quantity     int       `json:"quantity"`
	FromAdminID  *int64    `json:"from_admin_id,omitempty"`
	FromVendorID *int64    `json:"from_vendor_id,omitempty"`
	ToVendorID   *int64    `json:"to_vendor_id,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// Joined fields (not always populated).
	SKUCode        string `json:"sku_code,omitempty"`
	SKUTitle       string `json:"sku_title,omitempty"`
	ToVendorName   string `json:"to_vendor_name,omitempty"`
	FromVendorName string `json:"from_vendor_name,omitempty"`
}
