package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"vendorstock/internal/model"
	"vendorstock/internal/store"
)

// VendorsHandler handles vendor management endpoints.
type VendorsHandler struct {
	DB *sql.DB
}

type vendorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// List handles GET /api/admin/vendors.
func (h *VendorsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)

	vendors, total, err := store.ListVendors(r.Context(), h.DB, page, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list vendors")
		return
	}
	if vendors == nil {
		vendors = []model.Vendor{}
	}
	jsonResponse(w, http.StatusOK, paged(vendors, page, limit, total))
}

// Create handles POST /api/admin/vendors.
func (h *VendorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req vendorRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	vendor, err := store.CreateVendor(r.Context(), h.DB, req.Name, req.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create vendor")
		return
	}

	slog.Info("vendor created", "vendor", vendor.Name, "permanent_id", vendor.PermanentID)
	jsonResponse(w, http.StatusCreated, vendor)
}

// Get handles GET /api/admin/vendors/{id}. The id may be a row ID or a
// permanent UUID.
func (h *VendorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := store.ResolveVendorID(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}

	vendor, err := store.GetVendor(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get vendor")
		return
	}
	jsonResponse(w, http.StatusOK, vendor)
}

// Update handles PUT /api/admin/vendors/{id}.
func (h *VendorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := store.ResolveVendorID(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}

	var req vendorRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateVendor(r.Context(), h.DB, id, req.Name, req.Email); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update vendor")
		return
	}

	vendor, _ := store.GetVendor(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, vendor)
}

// Delete handles DELETE /api/admin/vendors/{id}. Refused while the
// vendor still holds stock.
func (h *VendorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := store.ResolveVendorID(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}

	if err := store.DeleteVendor(r.Context(), h.DB, id); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "vendor deleted"})
}
