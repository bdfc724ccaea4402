package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"vendorstock/internal/imaging"
	"vendorstock/internal/model"
	"vendorstock/internal/store"
)

// SKUsHandler handles SKU catalog endpoints.
type SKUsHandler struct {
	DB *sql.DB
}

type createSKURequest struct {
	Code     string  `json:"code"`
	Title    string  `json:"title"`
	Brand    string  `json:"brand"`
	Category string  `json:"category"`
	MRP      float64 `json:"mrp"`
}

type updateSKURequest struct {
	Title    string  `json:"title"`
	Brand    string  `json:"brand"`
	Category string  `json:"category"`
	MRP      float64 `json:"mrp"`
}

// List handles GET /api/admin/skus.
func (h *SKUsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	category := r.URL.Query().Get("category")

	skus, total, err := store.ListSKUs(r.Context(), h.DB, category, page, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list skus")
		return
	}
	if skus == nil {
		skus = []model.SKU{}
	}
	jsonResponse(w, http.StatusOK, paged(skus, page, limit, total))
}

// Create handles POST /api/admin/skus.
func (h *SKUsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSKURequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Code == "" || req.Title == "" {
		jsonError(w, http.StatusBadRequest, "code and title required")
		return
	}
	if req.MRP < 0 {
		jsonError(w, http.StatusBadRequest, "mrp must not be negative")
		return
	}

	sku, err := store.CreateSKU(r.Context(), h.DB, req.Code, req.Title, req.Brand, req.Category, req.MRP)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, sku)
}

// Get handles GET /api/admin/skus/{id}.
func (h *SKUsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sku id")
		return
	}

	sku, err := store.GetSKU(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get sku")
		return
	}
	if sku == nil || sku.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "sku not found")
		return
	}
	jsonResponse(w, http.StatusOK, sku)
}

// Update handles PUT /api/admin/skus/{id}.
func (h *SKUsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sku id")
		return
	}

	var req updateSKURequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		jsonError(w, http.StatusBadRequest, "title required")
		return
	}
	if req.MRP < 0 {
		jsonError(w, http.StatusBadRequest, "mrp must not be negative")
		return
	}

	if err := store.UpdateSKU(r.Context(), h.DB, id, req.Title, req.Brand, req.Category, req.MRP); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update sku")
		return
	}

	sku, _ := store.GetSKU(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, sku)
}

// Delete handles DELETE /api/admin/skus/{id}.
func (h *SKUsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sku id")
		return
	}

	if err := store.DeleteSKU(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete sku")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "sku deleted"})
}

// UploadImage handles PUT /api/admin/skus/{id}/image. The upload is
// downscaled and re-encoded before storage.
func (h *SKUsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sku id")
		return
	}

	sku, err := store.GetSKU(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get sku")
		return
	}
	if sku == nil || sku.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "sku not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)

	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetSKUImage(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/admin/skus/{id}/image.
func (h *SKUsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sku id")
		return
	}

	data, mime, err := store.GetSKUImage(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
