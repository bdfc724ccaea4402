package api

import (
	"database/sql"
	"net/http"

	"vendorstock/internal/model"
)

// NewRouter creates the API router with all endpoints registered. The
// admin and vendor trees sit behind separate role guards; neither role
// can reach the other's tree.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	vendorsHandler := &VendorsHandler{DB: db}
	skusHandler := &SKUsHandler{DB: db}
	inventoryHandler := &InventoryHandler{DB: db}
	transfersHandler := &TransfersHandler{DB: db}
	portalHandler := &VendorPortalHandler{DB: db}
	promosHandler := &PromosHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireRole(model.RoleAdmin)(h))
	}
	vendor := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireRole(model.RoleVendor)(h))
	}

	// Public.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/promos/validate", promosHandler.Validate)

	// Authenticated, any role.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Admin: SKU catalog.
	mux.Handle("GET /api/admin/skus", admin(skusHandler.List))
	mux.Handle("POST /api/admin/skus", admin(skusHandler.Create))
	mux.Handle("GET /api/admin/skus/{id}", admin(skusHandler.Get))
	mux.Handle("PUT /api/admin/skus/{id}", admin(skusHandler.Update))
	mux.Handle("DELETE /api/admin/skus/{id}", admin(skusHandler.Delete))
	mux.Handle("PUT /api/admin/skus/{id}/image", admin(skusHandler.UploadImage))
	mux.Handle("GET /api/admin/skus/{id}/image", admin(skusHandler.GetImage))

	// Admin: inventory pool.
	mux.Handle("GET /api/admin/inventory", admin(inventoryHandler.List))
	mux.Handle("POST /api/admin/inventory", admin(inventoryHandler.Create))
	mux.Handle("GET /api/admin/inventory/history", admin(inventoryHandler.History))
	mux.Handle("GET /api/admin/inventory/{id}", admin(inventoryHandler.Get))
	mux.Handle("POST /api/admin/inventory/{id}/restock", admin(inventoryHandler.Restock))
	mux.Handle("POST /api/admin/inventory/{id}/damage", admin(inventoryHandler.Damage))

	// Admin: transfers to vendors.
	mux.Handle("POST /api/admin/transfers", admin(transfersHandler.Create))

	// Admin: vendors and users.
	mux.Handle("GET /api/admin/vendors", admin(vendorsHandler.List))
	mux.Handle("POST /api/admin/vendors", admin(vendorsHandler.Create))
	mux.Handle("GET /api/admin/vendors/{id}", admin(vendorsHandler.Get))
	mux.Handle("PUT /api/admin/vendors/{id}", admin(vendorsHandler.Update))
	mux.Handle("DELETE /api/admin/vendors/{id}", admin(vendorsHandler.Delete))
	mux.Handle("GET /api/admin/users", admin(usersHandler.List))
	mux.Handle("POST /api/admin/users", admin(usersHandler.Create))
	mux.Handle("GET /api/admin/users/{id}", admin(usersHandler.Get))
	mux.Handle("PUT /api/admin/users/{id}/password", admin(usersHandler.ResetPassword))
	mux.Handle("DELETE /api/admin/users/{id}", admin(usersHandler.Delete))

	// Admin: promo codes.
	mux.Handle("GET /api/admin/promos", admin(promosHandler.List))
	mux.Handle("POST /api/admin/promos/batch", admin(promosHandler.CreateBatch))
	mux.Handle("DELETE /api/admin/promos/{id}", admin(promosHandler.Deactivate))

	// Vendor portal.
	mux.Handle("GET /api/vendor/inventory", vendor(portalHandler.Inventory))
	mux.Handle("GET /api/vendor/inventory/summary", vendor(portalHandler.Summary))
	mux.Handle("PUT /api/vendor/inventory/{id}/status", vendor(portalHandler.UpdateStatus))
	mux.Handle("GET /api/vendor/deliveries", vendor(portalHandler.Deliveries))
	mux.Handle("GET /api/vendor/transfers/pending", vendor(portalHandler.PendingTransfers))
	mux.Handle("POST /api/vendor/transfers/{id}/respond", vendor(portalHandler.Respond))
	mux.Handle("POST /api/vendor/sales", vendor(portalHandler.Sale))

	return LoggingMiddleware(mux)
}
