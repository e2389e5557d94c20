package config

import (
	"reflect"
	"testing"

	"github.com/flexprice/invoicely/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.StoreDriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Billing.DefaultTaxRate.Equal(decimal.RequireFromString("0.08")))
}

func TestValidate_RejectsUnknownStoreDriver(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Store.Driver = "mongo"
	assert.Error(t, cfg.Validate())
}

func TestValidate_AuthSecretRequiredWhenEnabled(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.Secret = ""
	assert.Error(t, cfg.Validate())

	cfg.Auth.Secret = "s3cret"
	assert.NoError(t, cfg.Validate())

	cfg.Auth.Enabled = false
	cfg.Auth.Secret = ""
	assert.NoError(t, cfg.Validate())
}

func TestDecimalHook(t *testing.T) {
	hook := decimalHook()
	to := reflect.TypeOf(decimal.Decimal{})

	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{name: "yaml float", in: 0.08, want: "0.08"},
		{name: "env string", in: "0.2", want: "0.2"},
		{name: "integer", in: 1, want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := hook(reflect.TypeOf(tt.in), to, tt.in)
			require.NoError(t, err)
			assert.True(t, out.(decimal.Decimal).Equal(decimal.RequireFromString(tt.want)))
		})
	}

	passthrough, err := hook(reflect.TypeOf(""), reflect.TypeOf(""), "keep")
	require.NoError(t, err)
	assert.Equal(t, "keep", passthrough)
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "invoicely", SSLMode: "disable"}
	assert.Equal(t, "user=u password=p dbname=invoicely host=db port=5432 sslmode=disable", cfg.GetDSN())
}
