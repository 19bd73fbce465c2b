package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-jobportal-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c := config.New()

	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "JobPortal", c.GetAppName())
	require.Equal(t, "http://localhost:15000/api", c.GetBaseURL())
	require.Equal(t, 15*time.Second, c.GetRequestTimeout())
	require.Equal(t, 10*time.Second, c.GetRefreshTimeout())
	require.Equal(t, config.StoreBackendFile, c.GetStoreBackend())
	require.True(t, strings.HasSuffix(c.GetStorePath(), "session.json"))
	require.False(t, c.GetTracingEnabled())

	key, err := c.GetStoreKey()
	require.NoError(t, err)
	require.Nil(t, key)
}

func TestNew_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JOBPORTAL_BASE_URL", "https://jobs.example.com/api/")
	t.Setenv("JOBPORTAL_REQUEST_TIMEOUT", "3s")
	t.Setenv("JOBPORTAL_STORE_BACKEND", "REDIS")
	t.Setenv("JOBPORTAL_REDIS_DB", "4")
	t.Setenv("JOBPORTAL_TRACING_ENABLED", "true")

	c := config.New()

	require.Equal(t, "https://jobs.example.com/api", c.GetBaseURL(), "trailing slash should be trimmed")
	require.Equal(t, 3*time.Second, c.GetRequestTimeout())
	require.Equal(t, config.StoreBackendRedis, c.GetStoreBackend())
	require.Equal(t, 4, c.GetRedisDB())
	require.True(t, c.GetTracingEnabled())
}

func TestNew_UnknownBackendFallsBackToFile(t *testing.T) {
	t.Setenv("JOBPORTAL_STORE_BACKEND", "etcd")
	require.Equal(t, config.StoreBackendFile, config.New().GetStoreBackend())
}

func TestNew_NonPositiveTimeoutUsesDefault(t *testing.T) {
	t.Setenv("JOBPORTAL_REQUEST_TIMEOUT", "0s")
	require.Equal(t, 15*time.Second, config.New().GetRequestTimeout())
}

func TestGetStoreKey(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		t.Setenv("JOBPORTAL_STORE_KEY", strings.Repeat("ab", 32))
		key, err := config.New().GetStoreKey()
		require.NoError(t, err)
		require.Len(t, key, 32)
	})

	t.Run("not hex", func(t *testing.T) {
		t.Setenv("JOBPORTAL_STORE_KEY", "zz")
		_, err := config.New().GetStoreKey()
		require.Error(t, err)
		require.Contains(t, err.Error(), "not hex")
	})

	t.Run("wrong length", func(t *testing.T) {
		t.Setenv("JOBPORTAL_STORE_KEY", "abcd")
		_, err := config.New().GetStoreKey()
		require.Error(t, err)
		require.Contains(t, err.Error(), "must be 32 bytes")
	})
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobportal.yaml")
	err := os.WriteFile(path, []byte("base_url: http://backend:9000/api\nrefresh_timeout: 2s\nstore_backend: memory\n"), 0o600)
	require.NoError(t, err)

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://backend:9000/api", c.GetBaseURL())
	require.Equal(t, 2*time.Second, c.GetRefreshTimeout())
	require.Equal(t, config.StoreBackendMemory, c.GetStoreBackend())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestTelemetry_OTLP(t *testing.T) {
	t.Setenv("JOBPORTAL_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("JOBPORTAL_OTLP_INSECURE", "true")

	c := config.New()
	require.Equal(t, "collector:4317", c.GetOTLPEndpoint())
	require.True(t, c.GetOTLPInsecure())
}
