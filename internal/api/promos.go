package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"vendorstock/internal/model"
	"vendorstock/internal/store"
)

// PromosHandler handles promo code endpoints.
type PromosHandler struct {
	DB *sql.DB
}

type createPromoBatchRequest struct {
	Count           int        `json:"count"`
	DiscountPercent int        `json:"discount_percent"`
	MaxUses         int        `json:"max_uses"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

type validatePromoRequest struct {
	Code   string `json:"code"`
	Redeem bool   `json:"redeem,omitempty"`
}

type validatePromoResponse struct {
	Valid           bool `json:"valid"`
	DiscountPercent int  `json:"discount_percent,omitempty"`
}

// CreateBatch handles POST /api/admin/promos/batch.
func (h *PromosHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req createPromoBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	codes, err := store.CreatePromoBatch(r.Context(), h.DB, req.Count, req.DiscountPercent, req.MaxUses, req.ExpiresAt)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Info("promo batch created", "count", len(codes), "discount_percent", req.DiscountPercent)
	jsonResponse(w, http.StatusCreated, codes)
}

// List handles GET /api/admin/promos.
func (h *PromosHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)

	codes, total, err := store.ListPromoCodes(r.Context(), h.DB, page, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list promo codes")
		return
	}
	if codes == nil {
		codes = []model.PromoCode{}
	}
	jsonResponse(w, http.StatusOK, paged(codes, page, limit, total))
}

// Deactivate handles DELETE /api/admin/promos/{id}.
func (h *PromosHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid promo code id")
		return
	}

	if err := store.DeactivatePromoCode(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to deactivate promo code")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "promo code deactivated"})
}

// Validate handles POST /api/promos/validate. Checkout-facing and
// unauthenticated; with redeem set, a use is consumed atomically.
func (h *PromosHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validatePromoRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		jsonError(w, http.StatusBadRequest, "code required")
		return
	}

	if req.Redeem {
		promo, err := store.RedeemPromoCode(r.Context(), h.DB, req.Code)
		if err != nil {
			jsonResponse(w, http.StatusOK, validatePromoResponse{Valid: false})
			return
		}
		jsonResponse(w, http.StatusOK, validatePromoResponse{Valid: true, DiscountPercent: promo.DiscountPercent})
		return
	}

	promo, err := store.GetPromoCode(r.Context(), h.DB, req.Code)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to check promo code")
		return
	}
	if promo == nil || !promo.Usable(time.Now()) {
		jsonResponse(w, http.StatusOK, validatePromoResponse{Valid: false})
		return
	}
	jsonResponse(w, http.StatusOK, validatePromoResponse{Valid: true, DiscountPercent: promo.DiscountPercent})
}
