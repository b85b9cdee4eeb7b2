package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"token-portfolio/internal/config"
	"token-portfolio/internal/infrastructure/kvstore"
)

func TestBuildStore_Selection(t *testing.T) {
	log := zap.NewNop()

	// All three credentials present: remote backend wins.
	st, backend, cleanup, err := BuildStore(config.Config{
		KVURL:           "redis://localhost:6379/0",
		KVToken:         "tok",
		KVReadOnlyToken: "ro-tok",
	}, log)
	require.NoError(t, err)
	require.Equal(t, "redis", backend)
	require.IsType(t, &kvstore.Redis{}, st)
	cleanup()

	// Partial credentials do not count.
	st, backend, cleanup, err = BuildStore(config.Config{
		KVURL:      "redis://localhost:6379/0",
		Serverless: true,
	}, log)
	require.NoError(t, err)
	require.Equal(t, "memory", backend)
	require.IsType(t, &kvstore.Memory{}, st)
	cleanup()

	st, backend, cleanup, err = BuildStore(config.Config{StoreFile: t.TempDir() + "/store.json"}, log)
	require.NoError(t, err)
	require.Equal(t, "file", backend)
	require.IsType(t, &kvstore.File{}, st)
	cleanup()

	_, _, _, err = BuildStore(config.Config{
		KVURL:           "://bad",
		KVToken:         "tok",
		KVReadOnlyToken: "ro-tok",
	}, log)
	require.Error(t, err)
}

func TestBuildProviders_Order(t *testing.T) {
	log := zap.NewNop()
	cfg := config.Config{ProviderOrder: []string{"yahoo", "stooq", "bogus"}}

	providers := BuildProviders(cfg, log)
	require.Len(t, providers, 2)
	require.Equal(t, "yahoo", providers[0].Name())
	require.Equal(t, "stooq", providers[1].Name())
}
