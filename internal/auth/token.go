package auth

import (
	"context"
	"time"

	"github.com/flexprice/invoicely/internal/config"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/golang-jwt/jwt/v4"
)

// Claims identifies the caller of an authenticated request
type Claims struct {
	UserID   string
	TenantID string
}

// TokenValidator verifies HMAC signed bearer tokens issued for the dashboard.
// Issuing tokens belongs to the identity provider; GenerateToken exists for
// operators and tests.
type TokenValidator struct {
	secret []byte
}

func NewTokenValidator(cfg *config.Configuration) *TokenValidator {
	return &TokenValidator{secret: []byte(cfg.Auth.Secret)}
}

func (v *TokenValidator) ValidateToken(_ context.Context, token string) (*Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewErrorf("unexpected signing method: %v", token.Header["alg"]).
				WithHint("Unexpected token signing method").
				Mark(ierr.ErrPermissionDenied)
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Token parse error").
			Mark(ierr.ErrPermissionDenied)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrPermissionDenied)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ierr.NewError("token missing user ID").
			WithHint("Token missing user ID").
			Mark(ierr.ErrPermissionDenied)
	}

	tenantID, ok := claims["tenant_id"].(string)
	if !ok || tenantID == "" {
		tenantID = types.DefaultTenantID
	}

	return &Claims{UserID: userID, TenantID: tenantID}, nil
}

// GenerateToken signs a token for the user and tenant valid for ttl
func (v *TokenValidator) GenerateToken(userID, tenantID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   userID,
		"tenant_id": tenantID,
		"exp":       now.Add(ttl).Unix(),
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}
