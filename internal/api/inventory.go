package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"vendorstock/internal/model"
	"vendorstock/internal/store"
)

// InventoryHandler handles admin-side inventory endpoints.
type InventoryHandler struct {
	DB *sql.DB
}

type createStockRequest struct {
	SKUID    int64 `json:"sku_id"`
	Quantity int   `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type damageRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

// List handles GET /api/admin/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)

	records, total, err := store.ListAdminInventory(r.Context(), h.DB, page, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if records == nil {
		records = []model.InventoryRecord{}
	}
	jsonResponse(w, http.StatusOK, paged(records, page, limit, total))
}

// Create handles POST /api/admin/inventory: first stock of a SKU into
// the admin pool. Subsequent additions go through restock.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createStockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SKUID <= 0 || req.Quantity <= 0 {
		jsonError(w, http.StatusBadRequest, "sku_id and positive quantity required")
		return
	}

	sku, err := store.GetSKU(r.Context(), h.DB, req.SKUID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get sku")
		return
	}
	if sku == nil || sku.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "sku not found")
		return
	}

	record, err := store.CreateAdminStock(r.Context(), h.DB, claims.UserID, req.SKUID, req.Quantity)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, record)
}

// Get handles GET /api/admin/inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	record, err := store.GetInventory(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get inventory record")
		return
	}
	if record == nil {
		jsonError(w, http.StatusNotFound, "inventory record not found")
		return
	}
	jsonResponse(w, http.StatusOK, record)
}

// Restock handles POST /api/admin/inventory/{id}/restock.
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity <= 0 {
		jsonError(w, http.StatusBadRequest, "positive quantity required")
		return
	}

	record, err := store.Restock(r.Context(), h.DB, id, req.Quantity)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, record)
}

// Damage handles POST /api/admin/inventory/{id}/damage: writes off
// damaged units with an audit trail entry.
func (h *InventoryHandler) Damage(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	var req damageRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity <= 0 {
		jsonError(w, http.StatusBadRequest, "positive quantity required")
		return
	}

	record, err := store.DeductDamage(r.Context(), h.DB, claims.UserID, id, req.Quantity, req.Reason)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, record)
}

// History handles GET /api/admin/inventory/history with optional
// sku_id, vendor_id and type filters.
func (h *InventoryHandler) History(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	filter := store.HistoryFilter{
		Type:  r.URL.Query().Get("type"),
		Page:  page,
		Limit: limit,
	}
	if raw := r.URL.Query().Get("sku_id"); raw != "" {
		filter.SKUID, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw := r.URL.Query().Get("vendor_id"); raw != "" {
		id, err := store.ResolveVendorID(r.Context(), h.DB, raw)
		if err != nil {
			storeError(w, err)
			return
		}
		filter.VendorID = id
	}

	entries, total, err := store.ListHistory(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	jsonResponse(w, http.StatusOK, paged(entries, page, limit, total))
}
