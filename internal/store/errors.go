package store

import "errors"

// Sentinel errors for workflow violations. Handlers match these with
// errors.Is to pick the right HTTP status.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrNotPending         = errors.New("record is not pending")
	ErrNotConfirmed       = errors.New("record is not confirmed")
	ErrWrongVendor        = errors.New("record belongs to another vendor")
	ErrNotAdminHeld       = errors.New("record is not admin-held stock")
	ErrBelowReservation   = errors.New("deduction would dip below reserved quantity")
	ErrVendorHasInventory = errors.New("vendor still holds inventory")
	ErrSKUCodeExists      = errors.New("sku code already in use")
	ErrStockExists        = errors.New("admin stock for this sku already exists")
	ErrPromoNotUsable     = errors.New("promo code is not usable")
)
