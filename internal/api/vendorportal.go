package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"vendorstock/internal/model"
	"vendorstock/internal/store"
)

// VendorPortalHandler handles the vendor-side endpoints. Every request
// is scoped to the vendor bound to the caller's token; a vendor can
// never see or touch another vendor's records.
type VendorPortalHandler struct {
	DB *sql.DB
}

type respondRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type saleRequest struct {
	InventoryID int64 `json:"inventory_id"`
	Quantity    int   `json:"quantity"`
}

// Inventory handles GET /api/vendor/inventory: all of the vendor's
// records across every status.
func (h *VendorPortalHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)

	records, total, err := store.ListVendorInventory(r.Context(), h.DB, vendorScope(r), page, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if records == nil {
		records = []model.InventoryRecord{}
	}
	jsonResponse(w, http.StatusOK, paged(records, page, limit, total))
}

// Summary handles GET /api/vendor/inventory/summary.
func (h *VendorPortalHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := store.GetVendorInventorySummary(r.Context(), h.DB, vendorScope(r))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// Deliveries handles GET /api/vendor/deliveries: the confirmation
// inbox, everything not yet confirmed.
func (h *VendorPortalHandler) Deliveries(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)

	records, total, err := store.ListVendorDeliveries(r.Context(), h.DB, vendorScope(r), page, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list deliveries")
		return
	}
	if records == nil {
		records = []model.InventoryRecord{}
	}
	jsonResponse(w, http.StatusOK, paged(records, page, limit, total))
}

// PendingTransfers handles GET /api/vendor/transfers/pending.
func (h *VendorPortalHandler) PendingTransfers(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)

	records, total, err := store.ListPendingTransfers(r.Context(), h.DB, vendorScope(r), page, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list pending transfers")
		return
	}
	if records == nil {
		records = []model.InventoryRecord{}
	}
	jsonResponse(w, http.StatusOK, paged(records, page, limit, total))
}

// Respond handles POST /api/vendor/transfers/{id}/respond with an
// accept or reject action.
func (h *VendorPortalHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	var req respondRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var next model.Status
	switch req.Action {
	case "accept":
		next = model.StatusConfirmed
	case "reject":
		next = model.StatusRejected
	default:
		jsonError(w, http.StatusBadRequest, "action must be accept or reject")
		return
	}

	h.respond(w, r, id, next, req.Reason)
}

// UpdateStatus handles PUT /api/vendor/inventory/{id}/status, the
// status-shaped spelling of the same settlement.
func (h *VendorPortalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	next, ok := model.ParseStatus(req.Status)
	if !ok || next == model.StatusPending {
		jsonError(w, http.StatusBadRequest, "status must be confirmed or rejected")
		return
	}

	h.respond(w, r, id, next, req.Reason)
}

func (h *VendorPortalHandler) respond(w http.ResponseWriter, r *http.Request, id int64, next model.Status, reason string) {
	claims := GetClaims(r.Context())

	record, err := store.RespondToTransfer(r.Context(), h.DB, vendorScope(r), id, next, reason)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("transfer settled",
		"vendor_user", claims.Username,
		"inventory_id", id,
		"status", next)
	jsonResponse(w, http.StatusOK, record)
}

// Sale handles POST /api/vendor/sales: records a walk-in sale against
// a confirmed record.
func (h *VendorPortalHandler) Sale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.InventoryID <= 0 || req.Quantity <= 0 {
		jsonError(w, http.StatusBadRequest, "inventory_id and positive quantity required")
		return
	}

	record, err := store.RecordSale(r.Context(), h.DB, vendorScope(r), req.InventoryID, req.Quantity)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, record)
}
