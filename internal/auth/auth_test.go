package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/whatsthatbrick/whatsthatbrick/internal/types"
)

func initTestSecret(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	if err := InitJWTSecret(); err != nil {
		t.Fatalf("init secret: %v", err)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	initTestSecret(t)

	tokenString, err := GenerateJWT(42, "alice", types.RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	token, err := VerifyJWT(tokenString)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if claims["username"] != "alice" || claims["role"] != types.RoleAdmin {
		t.Fatalf("unexpected claims: %v", claims)
	}
	if uint(claims["user_id"].(float64)) != 42 {
		t.Fatalf("unexpected user_id: %v", claims["user_id"])
	}
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	initTestSecret(t)

	if _, err := VerifyJWT("not-a-token"); err == nil {
		t.Fatal("garbage token must not verify")
	}

	tokenString, err := GenerateJWT(1, "alice", types.RoleUser)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := VerifyJWT(tokenString + "x"); err == nil {
		t.Fatal("tampered token must not verify")
	}
}

func TestVerifyJWTRejectsForeignSecret(t *testing.T) {
	initTestSecret(t)

	tokenString, err := GenerateJWT(1, "alice", types.RoleUser)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	t.Setenv("JWT_SECRET", "different-secret")
	if err := InitJWTSecret(); err != nil {
		t.Fatalf("rotate secret: %v", err)
	}

	if _, err := VerifyJWT(tokenString); err == nil {
		t.Fatal("token signed under the old secret must not verify")
	}
}

func TestInitJWTSecretRequiresEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if err := InitJWTSecret(); err == nil {
		t.Fatal("expected an error for a missing secret")
	}
}

func TestOwnerOrAdmin(t *testing.T) {
	user := Identity{ID: 1, Role: types.RoleUser}
	admin := Identity{ID: 2, Role: types.RoleAdmin}
	owner := uint(1)
	other := uint(3)

	if !OwnerOrAdmin(user, &owner) {
		t.Fatal("owner must pass")
	}
	if OwnerOrAdmin(user, &other) {
		t.Fatal("non-owner must not pass")
	}
	if !OwnerOrAdmin(admin, &other) {
		t.Fatal("admin always passes")
	}

	// An orphaned record has no owner; only admins may touch it.
	if OwnerOrAdmin(user, nil) {
		t.Fatal("nil owner must not match a regular user")
	}
	if !OwnerOrAdmin(admin, nil) {
		t.Fatal("nil owner still passes for admin")
	}
}

func TestHasRole(t *testing.T) {
	admin := Identity{Role: types.RoleAdmin}

	if !HasRole(admin, types.RoleUser, types.RoleAdmin) {
		t.Fatal("role in list must pass")
	}
	if HasRole(admin, types.RoleUser) {
		t.Fatal("role not in list must fail")
	}
	if HasRole(admin) {
		t.Fatal("empty role list must fail")
	}
}
