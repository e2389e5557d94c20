package auth

import (
	"context"
	"testing"
	"time"

	"github.com/flexprice/invoicely/internal/config"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Configuration {
	cfg := config.GetDefaultConfig()
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.APIKey.Keys = map[string]config.APIKeyDetails{
		HashAPIKey("sk_live_active"):  {TenantID: "tenant_1", UserID: "user_1", Name: "ci", IsActive: true},
		HashAPIKey("sk_live_revoked"): {TenantID: "tenant_1", UserID: "user_2", Name: "old", IsActive: false},
	}
	return cfg
}

func TestTokenValidator_RoundTrip(t *testing.T) {
	v := NewTokenValidator(testConfig())

	token, err := v.GenerateToken("user_1", "tenant_1", time.Hour)
	require.NoError(t, err)

	claims, err := v.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "tenant_1", claims.TenantID)
}

func TestTokenValidator_Rejects(t *testing.T) {
	v := NewTokenValidator(testConfig())

	expired, err := v.GenerateToken("user_1", "tenant_1", -time.Minute)
	require.NoError(t, err)
	_, err = v.ValidateToken(context.Background(), expired)
	assert.True(t, ierr.IsPermissionDenied(err))

	other := NewTokenValidator(&config.Configuration{Auth: config.AuthConfig{Secret: "other"}})
	forged, err := other.GenerateToken("user_1", "tenant_1", time.Hour)
	require.NoError(t, err)
	_, err = v.ValidateToken(context.Background(), forged)
	assert.True(t, ierr.IsPermissionDenied(err))

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"tenant_id": "t"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = v.ValidateToken(context.Background(), noUser)
	assert.True(t, ierr.IsPermissionDenied(err))
}

func TestTokenValidator_DefaultTenant(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user_1"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := NewTokenValidator(testConfig()).ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultTenantID, claims.TenantID)
}

func TestValidateAPIKey(t *testing.T) {
	cfg := testConfig()

	tenantID, userID, ok := ValidateAPIKey(cfg, "sk_live_active")
	assert.True(t, ok)
	assert.Equal(t, "tenant_1", tenantID)
	assert.Equal(t, "user_1", userID)

	_, _, ok = ValidateAPIKey(cfg, "sk_live_revoked")
	assert.False(t, ok)

	_, _, ok = ValidateAPIKey(cfg, "sk_unknown")
	assert.False(t, ok)
}
