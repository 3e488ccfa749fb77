package jwt

import (
	"errors"
	"strings"
	"testing"

	"ruralbuild/internal/pkg/rbac"
)

const testSecret = "unit-test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "district006", rbac.RoleDistrictAdmin, "370202", testSecret, 7)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Username != "district006" {
		t.Fatalf("expected username district006, got %s", claims.Username)
	}
	if claims.Role != rbac.RoleDistrictAdmin {
		t.Fatalf("expected role %s, got %s", rbac.RoleDistrictAdmin, claims.Role)
	}
	if claims.RegionCode != "370202" {
		t.Fatalf("expected region 370202, got %s", claims.RegionCode)
	}
}

func TestTamperedSignatureRejected(t *testing.T) {
	token, err := GenerateAccessToken(1, "admin", rbac.RoleSuperAdmin, "3702", testSecret, 7)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	// Flip one byte inside the signature segment
	dot := strings.LastIndex(token, ".")
	sig := []byte(token[dot+1:])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := token[:dot+1] + string(sig)

	if _, err := ValidateAccessToken(tampered, testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
	if Parse(tampered, testSecret) != nil {
		t.Fatalf("Parse must return nil for a tampered token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateAccessToken(1, "admin", rbac.RoleSuperAdmin, "3702", testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}
	if _, err := ValidateAccessToken(token, testSecret); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if Parse(token, testSecret) != nil {
		t.Fatalf("Parse must return nil for an expired token")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := GenerateAccessToken(1, "admin", rbac.RoleSuperAdmin, "3702", testSecret, 7)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}
	if Parse(token, "some-other-secret") != nil {
		t.Fatalf("token signed with a different secret must not verify")
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	if Parse("not-a-token", testSecret) != nil {
		t.Fatalf("malformed token must not verify")
	}
	if Parse("", testSecret) != nil {
		t.Fatalf("empty token must not verify")
	}
}
