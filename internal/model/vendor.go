package model

import "time"

// Vendor represents a vendor that can hold and sell inventory.
// PermanentID is a stable UUID that survives re-imports and is accepted
// anywhere a vendor id is expected.
type Vendor struct {
	ID          int64      `json:"id"`
	PermanentID string     `json:"permanent_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}
