package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"vendorstock/internal/store"
)

// TransfersHandler handles the admin transfer endpoint.
type TransfersHandler struct {
	DB *sql.DB
}

type transferItem struct {
	SKUID    int64 `json:"sku_id"`
	Quantity int   `json:"quantity"`
}

type transferRequest struct {
	VendorID  string         `json:"vendor_id"`
	Transfers []transferItem `json:"transfers"`
}

// transferResult reports the outcome of one line of a transfer batch.
type transferResult struct {
	SKUID       int64  `json:"sku_id"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	InventoryID int64  `json:"inventory_id,omitempty"`
}

type transferResponse struct {
	Results   []transferResult `json:"results"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}

// Create handles POST /api/admin/transfers. Each line of the batch
// succeeds or fails on its own; one SKU short on stock does not block
// the rest, and the response reports every line's outcome.
func (h *TransfersHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.VendorID == "" || len(req.Transfers) == 0 {
		jsonError(w, http.StatusBadRequest, "vendor_id and at least one transfer required")
		return
	}

	vendorID, err := store.ResolveVendorID(r.Context(), h.DB, req.VendorID)
	if err != nil {
		storeError(w, err)
		return
	}

	resp := transferResponse{Results: make([]transferResult, 0, len(req.Transfers))}
	for _, item := range req.Transfers {
		result := transferResult{SKUID: item.SKUID}

		record, err := store.TransferToVendor(r.Context(), h.DB, claims.UserID, vendorID, item.SKUID, item.Quantity)
		if err != nil {
			result.Status = "failed"
			result.Error = err.Error()
			resp.Failed++
		} else {
			result.Status = "success"
			result.InventoryID = record.ID
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, result)
	}

	slog.Info("transfer batch processed",
		"admin", claims.Username,
		"vendor_id", vendorID,
		"succeeded", resp.Succeeded,
		"failed", resp.Failed)
	jsonResponse(w, http.StatusOK, resp)
}
