package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"congregation_backend/internals/constants"
)

const secret = "unit-secret"

func TestSignAndParseAccessToken(t *testing.T) {
	id := uuid.New()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	raw, exp, err := SignAccessToken(secret, id, constants.RoleLeader, "Worship Leader", now, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("exp = %s", exp)
	}

	claims, err := ParseAccessToken(secret, raw, now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.MemberID != id || claims.Role != constants.RoleLeader || claims.Name != "Worship Leader" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	id := uuid.New()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	raw, _, _ := SignAccessToken(secret, id, constants.RoleMember, "M", now, time.Hour)

	if _, err := ParseAccessToken(secret, raw, now.Add(2*time.Hour)); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired error = %v", err)
	}
	if _, err := ParseAccessToken("other-secret", raw, now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong secret error = %v", err)
	}
	if _, err := ParseAccessToken(secret, "garbage", now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage error = %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": id.String(), "exp": now.Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseAccessToken(secret, unsigned, now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("alg none error = %v", err)
	}
}

func TestParseAccessTokenLegacyClaims(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   id.String(),
		"role": map[string]any{"name": "Admin"},
		"exp":  now.Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := ParseAccessToken(secret, raw, now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.MemberID != id || claims.Role != constants.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}
}
