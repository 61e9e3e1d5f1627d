package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"congregation_backend/internals/constants"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// clock skew tolerated on exp
const expSkew = 30 * time.Second

// AccessClaims is what a session token says about its bearer. Role is only a
// hint; the auth middleware reloads it from the members table.
type AccessClaims struct {
	MemberID  uuid.UUID
	Role      constants.Role
	Name      string
	ExpiresAt time.Time
}

func SignAccessToken(secret string, memberID uuid.UUID, role constants.Role, name string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("JWT secret is not configured")
	}
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  memberID.String(),
		"role": string(role),
		"name": name,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// ParseAccessToken verifies the signature and checks exp against now.
func ParseAccessToken(secret, raw string, now time.Time) (*AccessClaims, error) {
	if secret == "" {
		return nil, errors.New("JWT secret is not configured")
	}
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: no exp", ErrTokenInvalid)
	}
	expAt := time.Unix(int64(exp), 0)
	if now.After(expAt.Add(expSkew)) {
		return nil, ErrTokenExpired
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		// older tokens carried the member under "id"
		sub, _ = claims["id"].(string)
	}
	memberID, err := uuid.Parse(strings.TrimSpace(sub))
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a member id", ErrTokenInvalid)
	}

	name, _ := claims["name"].(string)
	return &AccessClaims{
		MemberID:  memberID,
		Role:      constants.ParseRole(claims["role"]),
		Name:      name,
		ExpiresAt: expAt,
	}, nil
}
