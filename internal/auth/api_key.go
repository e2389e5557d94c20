package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/flexprice/invoicely/internal/config"
)

// HashAPIKey creates a SHA-256 hash of the API key.
// Keys are configured by their hash, never in raw form.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// ValidateAPIKey validates an API key against the configuration
// Returns the tenant ID and user ID if valid, empty strings if invalid
func ValidateAPIKey(cfg *config.Configuration, key string) (string, string, bool) {
	if details, exists := cfg.Auth.APIKey.Keys[HashAPIKey(key)]; exists && details.IsActive {
		return details.TenantID, details.UserID, true
	}
	return "", "", false
}
