package auth

import (
	"testing"

	"vendorstock/internal/model"
)

func TestGenerateAndValidateToken(t *testing.T) {
	vendorID := int64(42)
	token, err := GenerateToken("secret", 7, "acme", model.RoleVendor, &vendorID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 7 || claims.Username != "acme" || claims.Role != model.RoleVendor {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.VendorID == nil || *claims.VendorID != 42 {
		t.Errorf("expected vendor binding 42, got %v", claims.VendorID)
	}
	if claims.ID == "" {
		t.Error("expected non-empty JTI")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", 1, "admin", model.RoleAdmin, nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken("other-secret", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("secret", "not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
