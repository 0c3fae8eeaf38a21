package config

import (
	"testing"

	"github.com/marmos91/nsfs/pkg/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultNamingConfigValidates(t *testing.T) {
	cfg := DefaultNamingConfig()
	assert.NoError(t, Validate(cfg))
	assert.Equal(t, 20, cfg.ReplicationThreshold)
	assert.Equal(t, "round_robin", cfg.Placement)
}

func TestDefaultStorageConfigValidates(t *testing.T) {
	cfg := DefaultStorageConfig()
	assert.NoError(t, Validate(cfg))
	assert.Equal(t, "local", cfg.Backend)
	assert.Equal(t, "/tmp/nsfs-storage", cfg.Local["root"])
}

func TestValidateRejectsUnknownPlacement(t *testing.T) {
	cfg := DefaultNamingConfig()
	cfg.Placement = "least-loaded"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := DefaultStorageConfig()
	cfg.Backend = "tape"
	assert.Error(t, Validate(cfg))
}

func TestCreatePlacementPolicy(t *testing.T) {
	cfg := DefaultNamingConfig()

	cfg.Placement = "round_robin"
	policy, err := CreatePlacementPolicy(cfg)
	require.NoError(t, err)
	assert.IsType(t, &naming.RoundRobin{}, policy)

	cfg.Placement = "fixed_primary"
	policy, err = CreatePlacementPolicy(cfg)
	require.NoError(t, err)
	assert.IsType(t, naming.FixedPrimary{}, policy)
}

func TestCreateStorageEngineLocal(t *testing.T) {
	cfg := DefaultStorageConfig()
	cfg.Local["root"] = t.TempDir()

	engine, err := CreateStorageEngine(t.Context(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestCreateStorageEngineUnknownBackend(t *testing.T) {
	cfg := DefaultStorageConfig()
	cfg.Backend = "tape"

	_, err := CreateStorageEngine(t.Context(), cfg)
	assert.Error(t, err)
}
