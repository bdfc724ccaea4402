package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"vendorstock/internal/db"
	"vendorstock/internal/model"
	"vendorstock/internal/store"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	server      *httptest.Server
	adminToken  string
	vendorToken string
	vendorID    int64
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testJWTSecret))
	t.Cleanup(server.Close)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin, nil)

	vendor, err := store.CreateVendor(ctx, database, "Acme Traders", "acme@example.com")
	if err != nil {
		t.Fatalf("creating vendor: %v", err)
	}
	store.CreateUser(ctx, database, "acme", string(hash), model.RoleVendor, &vendor.ID)

	return &testEnv{
		server:      server,
		adminToken:  login(t, server, "admin", "password"),
		vendorToken: login(t, server, "acme", "password"),
		vendorID:    vendor.ID,
	}
}

func login(t *testing.T, server *httptest.Server, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed for %s: %d", username, resp.StatusCode)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}
	return loginResp.Token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, wantStatus int, out any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", req.Method, req.URL.Path, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
}

// createSKUWithStock provisions a SKU and its admin pool through the API.
func createSKUWithStock(t *testing.T, env *testEnv, code string, quantity int) int64 {
	t.Helper()

	var sku model.SKU
	req, _ := authRequest("POST", env.server.URL+"/api/admin/skus", env.adminToken, map[string]any{
		"code": code, "title": "Item " + code, "mrp": 50.0,
	})
	doJSON(t, req, http.StatusCreated, &sku)

	req, _ = authRequest("POST", env.server.URL+"/api/admin/inventory", env.adminToken, map[string]any{
		"sku_id": sku.ID, "quantity": quantity,
	})
	doJSON(t, req, http.StatusCreated, nil)

	return sku.ID
}

func TestLoginEndpoint(t *testing.T) {
	env := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(env.server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestTransferAndConfirmFlow(t *testing.T) {
	env := setupTestServer(t)

	skuA := createSKUWithStock(t, env, "SKU-A", 100)
	skuB := createSKUWithStock(t, env, "SKU-B", 3)

	// Batch with one line over the admin pool's free quantity: the good
	// line lands, the bad one reports its failure.
	var batch transferResponse
	req, _ := authRequest("POST", env.server.URL+"/api/admin/transfers", env.adminToken, map[string]any{
		"vendor_id": fmt.Sprint(env.vendorID),
		"transfers": []map[string]any{
			{"sku_id": skuA, "quantity": 40},
			{"sku_id": skuB, "quantity": 10},
		},
	})
	doJSON(t, req, http.StatusOK, &batch)

	if batch.Succeeded != 1 || batch.Failed != 1 {
		t.Fatalf("expected 1 success and 1 failure, got %+v", batch)
	}
	if batch.Results[0].Status != "success" || batch.Results[0].InventoryID == 0 {
		t.Fatalf("unexpected first result: %+v", batch.Results[0])
	}
	if batch.Results[1].Status != "failed" || batch.Results[1].Error == "" {
		t.Fatalf("unexpected second result: %+v", batch.Results[1])
	}

	// The vendor sees the pending transfer.
	var pending struct {
		Data []model.InventoryRecord `json:"data"`
	}
	req, _ = authRequest("GET", env.server.URL+"/api/vendor/transfers/pending", env.vendorToken, nil)
	doJSON(t, req, http.StatusOK, &pending)
	if len(pending.Data) != 1 || pending.Data[0].Status != model.StatusPending {
		t.Fatalf("expected 1 pending record, got %+v", pending.Data)
	}
	recordID := pending.Data[0].ID

	// Accept it.
	var accepted model.InventoryRecord
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/vendor/transfers/%d/respond", env.server.URL, recordID),
		env.vendorToken, map[string]string{"action": "accept"})
	doJSON(t, req, http.StatusOK, &accepted)
	if accepted.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed, got %s", accepted.Status)
	}
	if accepted.RespondedAt == nil {
		t.Error("expected responded_at to be set")
	}

	// Settled records are terminal; a second response conflicts.
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/vendor/transfers/%d/respond", env.server.URL, recordID),
		env.vendorToken, map[string]string{"action": "reject", "reason": "changed my mind"})
	doJSON(t, req, http.StatusConflict, nil)
}

func TestRejectDeliveryWithReason(t *testing.T) {
	env := setupTestServer(t)

	skuID := createSKUWithStock(t, env, "SKU-R", 20)

	var batch transferResponse
	req, _ := authRequest("POST", env.server.URL+"/api/admin/transfers", env.adminToken, map[string]any{
		"vendor_id": fmt.Sprint(env.vendorID),
		"transfers": []map[string]any{{"sku_id": skuID, "quantity": 5}},
	})
	doJSON(t, req, http.StatusOK, &batch)
	recordID := batch.Results[0].InventoryID

	// Reject via the status-shaped endpoint.
	var rejected model.InventoryRecord
	req, _ = authRequest("PUT", fmt.Sprintf("%s/api/vendor/inventory/%d/status", env.server.URL, recordID),
		env.vendorToken, map[string]string{"status": "rejected", "reason": "boxes arrived crushed"})
	doJSON(t, req, http.StatusOK, &rejected)

	if rejected.Status != model.StatusRejected || rejected.RejectionReason != "boxes arrived crushed" {
		t.Errorf("unexpected rejected record: %+v", rejected)
	}

	// Rejected deliveries stay visible in the confirmation inbox.
	var deliveries struct {
		Data []model.InventoryRecord `json:"data"`
	}
	req, _ = authRequest("GET", env.server.URL+"/api/vendor/deliveries", env.vendorToken, nil)
	doJSON(t, req, http.StatusOK, &deliveries)
	if len(deliveries.Data) != 1 || deliveries.Data[0].Status != model.StatusRejected {
		t.Errorf("expected rejected record in deliveries, got %+v", deliveries.Data)
	}
}

func TestVendorSummaryEndpoint(t *testing.T) {
	env := setupTestServer(t)

	skuID := createSKUWithStock(t, env, "SKU-S", 30)

	var batch transferResponse
	req, _ := authRequest("POST", env.server.URL+"/api/admin/transfers", env.adminToken, map[string]any{
		"vendor_id": fmt.Sprint(env.vendorID),
		"transfers": []map[string]any{{"sku_id": skuID, "quantity": 12}},
	})
	doJSON(t, req, http.StatusOK, &batch)

	var summary model.InventorySummary
	req, _ = authRequest("GET", env.server.URL+"/api/vendor/inventory/summary", env.vendorToken, nil)
	doJSON(t, req, http.StatusOK, &summary)

	if summary.TotalRecords != 1 || summary.PendingCount != 1 || summary.TotalStock != 12 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRoleSeparation(t *testing.T) {
	env := setupTestServer(t)

	// Vendor token on the admin tree.
	req, _ := authRequest("GET", env.server.URL+"/api/admin/inventory", env.vendorToken, nil)
	doJSON(t, req, http.StatusForbidden, nil)

	// Admin token on the vendor tree. The trees are parallel, so the
	// admin is rejected too.
	req, _ = authRequest("GET", env.server.URL+"/api/vendor/inventory", env.adminToken, nil)
	doJSON(t, req, http.StatusForbidden, nil)

	// No token at all.
	resp, _ := http.Get(env.server.URL + "/api/admin/inventory")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestVendorCannotTouchOtherVendorsRecords(t *testing.T) {
	env := setupTestServer(t)

	skuID := createSKUWithStock(t, env, "SKU-X", 20)

	var batch transferResponse
	req, _ := authRequest("POST", env.server.URL+"/api/admin/transfers", env.adminToken, map[string]any{
		"vendor_id": fmt.Sprint(env.vendorID),
		"transfers": []map[string]any{{"sku_id": skuID, "quantity": 5}},
	})
	doJSON(t, req, http.StatusOK, &batch)
	recordID := batch.Results[0].InventoryID

	// A second vendor with its own user.
	var other model.Vendor
	req, _ = authRequest("POST", env.server.URL+"/api/admin/vendors", env.adminToken,
		map[string]string{"name": "Globex"})
	doJSON(t, req, http.StatusCreated, &other)

	req, _ = authRequest("POST", env.server.URL+"/api/admin/users", env.adminToken, map[string]string{
		"username": "globex", "password": "password", "role": model.RoleVendor,
		"vendor_id": other.PermanentID,
	})
	doJSON(t, req, http.StatusCreated, nil)
	otherToken := login(t, env.server, "globex", "password")

	// The other vendor cannot settle Acme's delivery.
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/vendor/transfers/%d/respond", env.server.URL, recordID),
		otherToken, map[string]string{"action": "accept"})
	doJSON(t, req, http.StatusForbidden, nil)

	// And does not see it in any listing.
	var pending struct {
		Data []model.InventoryRecord `json:"data"`
	}
	req, _ = authRequest("GET", env.server.URL+"/api/vendor/transfers/pending", otherToken, nil)
	doJSON(t, req, http.StatusOK, &pending)
	if len(pending.Data) != 0 {
		t.Errorf("expected empty pending list for other vendor, got %d", len(pending.Data))
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := setupTestServer(t)

	req, _ := authRequest("POST", env.server.URL+"/api/auth/logout", env.adminToken, nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", env.server.URL+"/api/admin/inventory", env.adminToken, nil)
	doJSON(t, req, http.StatusUnauthorized, nil)
}

func TestPromoValidateEndpoint(t *testing.T) {
	env := setupTestServer(t)

	var codes []model.PromoCode
	req, _ := authRequest("POST", env.server.URL+"/api/admin/promos/batch", env.adminToken, map[string]any{
		"count": 1, "discount_percent": 15, "max_uses": 1,
	})
	doJSON(t, req, http.StatusCreated, &codes)

	// Validation is public: no token.
	body, _ := json.Marshal(map[string]any{"code": codes[0].Code, "redeem": true})
	resp, _ := http.Post(env.server.URL+"/api/promos/validate", "application/json", bytes.NewReader(body))
	var result validatePromoResponse
	json.NewDecoder(resp.Body).Decode(&result)
	resp.Body.Close()
	if !result.Valid || result.DiscountPercent != 15 {
		t.Fatalf("expected valid code with 15%% discount, got %+v", result)
	}

	// Single-use code is spent now.
	resp, _ = http.Post(env.server.URL+"/api/promos/validate", "application/json", bytes.NewReader(body))
	json.NewDecoder(resp.Body).Decode(&result)
	resp.Body.Close()
	if result.Valid {
		t.Error("expected spent code to be invalid")
	}
}

func TestWalkInSale(t *testing.T) {
	env := setupTestServer(t)

	skuID := createSKUWithStock(t, env, "SKU-W", 50)

	var batch transferResponse
	req, _ := authRequest("POST", env.server.URL+"/api/admin/transfers", env.adminToken, map[string]any{
		"vendor_id": fmt.Sprint(env.vendorID),
		"transfers": []map[string]any{{"sku_id": skuID, "quantity": 10}},
	})
	doJSON(t, req, http.StatusOK, &batch)
	recordID := batch.Results[0].InventoryID

	// Selling before confirming is refused.
	req, _ = authRequest("POST", env.server.URL+"/api/vendor/sales", env.vendorToken,
		map[string]any{"inventory_id": recordID, "quantity": 2})
	doJSON(t, req, http.StatusBadRequest, nil)

	req, _ = authRequest("POST", fmt.Sprintf("%s/api/vendor/transfers/%d/respond", env.server.URL, recordID),
		env.vendorToken, map[string]string{"action": "accept"})
	doJSON(t, req, http.StatusOK, nil)

	var sold model.InventoryRecord
	req, _ = authRequest("POST", env.server.URL+"/api/vendor/sales", env.vendorToken,
		map[string]any{"inventory_id": recordID, "quantity": 2})
	doJSON(t, req, http.StatusOK, &sold)
	if sold.Quantity != 8 {
		t.Errorf("expected quantity 8 after sale, got %d", sold.Quantity)
	}
}
