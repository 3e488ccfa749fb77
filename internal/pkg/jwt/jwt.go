package jwt

import (
	"errors"
	"time"

	"ruralbuild/internal/pkg/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims represents the session claims carried by an access token
type Claims struct {
	UserID     uint      `json:"user_id"`
	Username   string    `json:"username"`
	Role       rbac.Role `json:"role"`
	RegionCode string    `json:"region_code"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a new access token carrying the session claims
func GenerateAccessToken(userID uint, username string, role rbac.Role, regionCode, secret string, expiryDays int) (string, error) {
	claims := Claims{
		UserID:     userID,
		Username:   username,
		Role:       role,
		RegionCode: regionCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiryDays) * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "ruralbuild",
			Subject:   username,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates an access token and returns claims
func ValidateAccessToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}

// Parse validates a token and returns its claims, or nil on any
// failure. Tampered, expired and malformed tokens are indistinguishable
// to the caller.
func Parse(tokenString, secret string) *Claims {
	claims, err := ValidateAccessToken(tokenString, secret)
	if err != nil {
		return nil
	}
	return claims
}
