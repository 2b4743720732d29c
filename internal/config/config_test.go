package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 3*time.Second, cfg.DBTimeout)
	assert.Equal(t, "db/migrations", cfg.MigrationsDir)
	assert.Equal(t, []string{"google", "openlibrary"}, cfg.Catalog.Providers)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Catalog.CacheTTL)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CATALOG_PROVIDERS", " OpenLibrary , ")
	t.Setenv("CATALOG_TIMEOUT", "2s")
	t.Setenv("MIGRATIONS_DIR", "/custom/migrations")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"openlibrary"}, cfg.Catalog.Providers)
	assert.Equal(t, 2*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "/custom/migrations", cfg.MigrationsDir)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Len(t, cfg.CORSOrigins, 2)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "STORE_DRIVER", "mongo"},
		{"unknown provider", "CATALOG_PROVIDERS", "amazon"},
		{"bad duration", "DB_TIMEOUT", "soon"},
		{"zero timeout", "CATALOG_TIMEOUT", "0s"},
		{"negative retries", "CATALOG_MAX_RETRIES", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			assert.Error(t, err)
		})
	}
}

func TestRedactedDSN(t *testing.T) {
	cfg := Config{DatabaseDSN: "postgres://user:secret@db:5432/bookstock"}
	assert.Equal(t, "postgres://***@db:5432/bookstock", cfg.RedactedDSN())

	cfg.DatabaseDSN = "host=db"
	assert.Equal(t, "host=db", cfg.RedactedDSN())
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\nAPP_ADDR=:9999\n"), 0o644))

	t.Setenv("DB_DSN", "from_env")
	t.Setenv("APP_ADDR", "")
	require.NoError(t, os.Unsetenv("APP_ADDR"))
	t.Chdir(tmp)

	LoadEnvFiles()
	t.Cleanup(func() { _ = os.Unsetenv("APP_ADDR") })

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, ":9999", os.Getenv("APP_ADDR"))
}
