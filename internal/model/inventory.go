package model

import "time"

// Status is the lifecycle state of a vendor-held inventory record.
type Status string

// Inventory statuses. Admin-held stock is always confirmed; vendor-held
// stock starts pending and settles to confirmed or rejected.
const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// ParseStatus normalizes a raw status value. An empty value is treated
// as pending, matching older records that predate the status column.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case "":
		return StatusPending, true
	case StatusPending, StatusConfirmed, StatusRejected:
		return Status(raw), true
	}
	return "", false
}

// CanTransitionTo reports whether a record may move to the given status.
// Only pending records may transition; confirmed and rejected are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusConfirmed || next == StatusRejected
}

// InventoryRecord is one line of stock held by exactly one custodian:
// either the admin pool (AdminID set) or a vendor (VendorID set).
// A transfer never changes a record's custodian; it decrements the admin
// record and creates a new pending vendor record.
type InventoryRecord struct {
	ID               int64      `json:"id"`
	SKUID            int64      `json:"sku_id"`
	Quantity         int        `json:"quantity"`
	ReservedQuantity int        `json:"reserved_quantity"`
	Status           Status     `json:"status"`
	AdminID          *int64     `json:"admin_id,omitempty"`
	VendorID         *int64     `json:"vendor_id,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`
	RespondedAt      *time.Time `json:"responded_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Joined fields (not always populated).
	SKUCode           string  `json:"sku_code,omitempty"`
	SKUTitle          string  `json:"sku_title,omitempty"`
	SKUBrand          string  `json:"sku_brand,omitempty"`
	SKUMRP            float64 `json:"sku_mrp,omitempty"`
	VendorName        string  `json:"vendor_name,omitempty"`
	VendorPermanentID string  `json:"vendor_permanent_id,omitempty"`
}

// Available returns the units not earmarked for open orders.
func (r *InventoryRecord) Available() int {
	return r.Quantity - r.ReservedQuantity
}

// AdminHeld reports whether the record belongs to the admin pool.
func (r *InventoryRecord) AdminHeld() bool {
	return r.AdminID != nil
}

// LowStockThreshold is the quantity below which a record counts as low stock.
const LowStockThreshold = 10

// InventorySummary holds the aggregates shown on a vendor's inventory
// overview. All values are derived from the records, never stored.
type InventorySummary struct {
	TotalRecords   int     `json:"total_records"`
	ConfirmedCount int     `json:"confirmed_count"`
	PendingCount   int     `json:"pending_count"`
	RejectedCount  int     `json:"rejected_count"`
	TotalStock     int     `json:"total_stock"`
	LowStockCount  int     `json:"low_stock_count"`
	TotalValue     float64 `json:"total_value"`
}

// Summarize computes the overview aggregates for a set of records.
// Records with an unknown or missing status count as pending, so the
// three per-status counts always add up to TotalRecords.
func Summarize(records []InventoryRecord) InventorySummary {
	var s InventorySummary
	for _, r := range records {
		s.TotalRecords++
		switch r.Status {
		case StatusConfirmed:
			s.ConfirmedCount++
		case StatusRejected:
			s.RejectedCount++
		default:
			s.PendingCount++
		}
		s.TotalStock += r.Quantity
		if r.Quantity < LowStockThreshold {
			s.LowStockCount++
		}
		s.TotalValue += float64(r.Quantity) * r.SKUMRP
	}
	return s
}
