package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesKnownCamelCaseKeys(t *testing.T) {
	tests := []struct {
		envKey string
		want   string
		ok     bool
	}{
		{envKey: "POSTGRES_DBNAME", want: "postgres.dbName", ok: true},
		{envKey: "POSTGRES_SSL_MODE", want: "postgres.sslMode", ok: true},
		{envKey: "AUTH_JWT_SECRET", want: "auth.jwtSecret", ok: true},
		{envKey: "AUTH_ACCESSTTL", want: "auth.accessTTL", ok: true},
		{envKey: "HTTP_ALLOW_ORIGINS", want: "http.allowOrigins", ok: true},
		{envKey: "ENV_LOG_LEVEL", want: "env.log.level", ok: true},
		{envKey: "SEED_RAND_SEED", want: "seed.randSeed", ok: true},
		{envKey: "HOME", ok: false},
		{envKey: "HTTP_PROXY", ok: false},
		{envKey: "ENV_LOG", ok: false},
		{envKey: "HTTP_PORT_EXTRA", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			got, ok := canonicalizeEnvKey(tt.envKey, knownKeys)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFrom_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: 9000
  shutdownTimeout: 3s
storage:
  driver: postgres
auth:
  jwtSecret: from_yaml
  accessTTL: 2h
`), 0o600))

	t.Setenv("AUTH_JWT_SECRET", "from_env")
	t.Setenv("HTTP_ALLOW_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("SEED_RAND_SEED", "42")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "from_env", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.HTTP.AllowOrigins)
	assert.Equal(t, uint64(42), cfg.Seed.RandSeed)

	//指定の無いものは既定値
	assert.Equal(t, "storefront", cfg.Postgres.DBName)
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoadFrom_NoFile(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "default ok", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "redis" }, errMsg: "unknown storage driver"},
		{name: "bad port", mutate: func(c *Config) { c.HTTP.Port = 0 }, errMsg: "invalid http port"},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.JWTSecret = " " }, errMsg: "jwtSecret is required"},
		{name: "dev secret in production", mutate: func(c *Config) { c.Env.Name = "production" }, errMsg: "must be set in production"},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.AccessTTL = 0 }, errMsg: "accessTTL must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
