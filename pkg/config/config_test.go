package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ECAPP_APP_ENV", "dev")
	t.Setenv("ECAPP_UPSTREAM_BASE_URL", "http://upstream.local")
	t.Setenv("ECAPP_UPSTREAM_TENANT_ID", "tenant-1")
	t.Setenv("ECAPP_UPSTREAM_BRANCH_ID", "branch-1")
	t.Setenv("ECAPP_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsDev())
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, DraftBackendMemory, cfg.Draft.Backend)
	assert.True(t, cfg.Checkout.DiscountLockOnApply)
	assert.Equal(t, 50, cfg.Checkout.ShippingPageLimit)
}

func TestLoadRejectsUnknownDraftBackend(t *testing.T) {
	t.Setenv("ECAPP_APP_ENV", "dev")
	t.Setenv("ECAPP_UPSTREAM_BASE_URL", "http://upstream.local")
	t.Setenv("ECAPP_UPSTREAM_TENANT_ID", "tenant-1")
	t.Setenv("ECAPP_UPSTREAM_BRANCH_ID", "branch-1")
	t.Setenv("ECAPP_JWT_SECRET", "secret")
	t.Setenv("ECAPP_DRAFT_BACKEND", "dynamo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dynamo")
}

func TestTaxNormalizedRate(t *testing.T) {
	assert.InDelta(t, 0.21, TaxConfig{Rate: 21}.NormalizedRate(), 1e-9)
	assert.InDelta(t, 0.21, TaxConfig{Rate: 0.21}.NormalizedRate(), 1e-9)
	assert.InDelta(t, 1.0, TaxConfig{Rate: 1}.NormalizedRate(), 1e-9)
	assert.Zero(t, TaxConfig{Rate: 101}.NormalizedRate())
	assert.Zero(t, TaxConfig{Rate: -5}.NormalizedRate())
	assert.Zero(t, TaxConfig{}.NormalizedRate())
}
