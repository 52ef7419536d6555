package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantfox/tenantcore/pkg/config"
)

type dbConfig struct {
	DSN      string `env:"LOADER_TEST_DSN,required"`
	MaxConns int    `env:"LOADER_TEST_MAX_CONNS" envDefault:"10"`
}

type cacheConfig struct {
	TTL string `env:"LOADER_TEST_CACHE_TTL" envDefault:"30s"`
}

type stickyConfig struct {
	Cookie string `env:"LOADER_TEST_STICKY_COOKIE" envDefault:"selected_tenant"`
}

func TestLoad(t *testing.T) {
	t.Setenv("LOADER_TEST_DSN", "postgres://localhost:5432/app")

	var cfg dbConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "postgres://localhost:5432/app", cfg.DSN)
	assert.Equal(t, 10, cfg.MaxConns, "unset field should take its default")
}

func TestLoadMissingRequired(t *testing.T) {
	config.Reset()
	os.Unsetenv("LOADER_TEST_DSN")

	var cfg dbConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadCachesPerType(t *testing.T) {
	config.Reset()
	t.Setenv("LOADER_TEST_CACHE_TTL", "1m")

	var first cacheConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("LOADER_TEST_CACHE_TTL", "5m")

	var second cacheConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "1m", second.TTL, "second load should come from the cache")
}

func TestLoadDistinctTypes(t *testing.T) {
	config.Reset()
	t.Setenv("LOADER_TEST_CACHE_TTL", "45s")
	t.Setenv("LOADER_TEST_STICKY_COOKIE", "tenant_choice")

	var cc cacheConfig
	var sc stickyConfig
	require.NoError(t, config.Load(&cc))
	require.NoError(t, config.Load(&sc))

	assert.Equal(t, "45s", cc.TTL)
	assert.Equal(t, "tenant_choice", sc.Cookie)
}

func TestLoadNilPointer(t *testing.T) {
	err := config.Load[dbConfig](nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}
