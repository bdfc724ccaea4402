package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"vendorstock/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// storeError maps store-level sentinel errors to HTTP statuses. Anything
// unrecognized is a 500 with a generic message; the real error is logged,
// not leaked.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrWrongVendor):
		jsonError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrNotPending),
		errors.Is(err, store.ErrStockExists),
		errors.Is(err, store.ErrVendorHasInventory),
		errors.Is(err, store.ErrSKUCodeExists),
		errors.Is(err, store.ErrPromoNotUsable):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrBelowReservation),
		errors.Is(err, store.ErrNotAdminHeld),
		errors.Is(err, store.ErrNotConfirmed):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("store operation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// pagination describes one page of a list response.
type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// pagedResponse is the envelope for paginated list endpoints.
type pagedResponse struct {
	Data       any        `json:"data"`
	Pagination pagination `json:"pagination"`
}

// parsePage reads page/limit query parameters, leaving zero for the store
// defaults when absent or malformed.
func parsePage(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// paged wraps a list in the pagination envelope. A nil slice must be
// replaced by the caller first so clients always see an array.
func paged(data any, page, limit, total int) pagedResponse {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = store.DefaultPageSize
	}
	if limit > store.MaxPageSize {
		limit = store.MaxPageSize
	}
	totalPages := (total + limit - 1) / limit
	return pagedResponse{
		Data: data,
		Pagination: pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
