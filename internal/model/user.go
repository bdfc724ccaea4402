package model

import "time"

// User represents an authentication user. Vendor users are bound to the
// vendor whose inventory they manage; admin users have no binding.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	VendorID     *int64     `json:"vendor_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles. The admin and vendor route trees are parallel, not hierarchical:
// an admin token is rejected on the vendor tree and vice versa.
const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
)

// ValidRole reports whether role is a known role value.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleVendor
}
