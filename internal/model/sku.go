package model

import "time"

// SKU represents a sellable product definition. Stock levels live in
// inventory records, not here.
type SKU struct {
	ID        int64      `json:"id"`
	Code      string     `json:"code"`
	Title     string     `json:"title"`
	Brand     string     `json:"brand,omitempty"`
	Category  string     `json:"category,omitempty"`
	MRP       float64    `json:"mrp"`
	ImageMime string     `json:"image_mime,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
