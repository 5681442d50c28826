package config

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// clearEnv unsets every variable the loader reads for the test's duration.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CONFIG", "AES_KEY",
		"APP_SECRET_KEY", "APP_BCRYPT_COST",
		"STORAGE_DB_DRIVER", "STORAGE_DB_DATABASE_URI",
		"LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilderFailsWithoutKey verifies that a config without a
// secret key never passes validation.
func TestBuild_EmptyBuilderFailsWithoutKey(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterConfigsOverride verifies that non-zero fields of later
// configs win and zero fields leave earlier values untouched.
func TestBuild_LaterConfigsOverride(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{SecretKey: testKey, BcryptCost: 10}, Log: Log{Level: "warn"}},
		&StructuredConfig{App: App{BcryptCost: 12}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, testKey, cfg.App.SecretKey)
	assert.Equal(t, 12, cfg.App.BcryptCost)
	assert.Equal(t, "warn", cfg.Log.Level)
}

// TestBuild_AppliesDefaults verifies the sqlite defaults for an otherwise
// minimal configuration.
func TestBuild_AppliesDefaults(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{App: App{SecretKey: testKey}})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.DB.Driver)
	assert.Equal(t, DefaultSQLiteDSN, cfg.Storage.DB.DSN)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFile, cfg.Log.File)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

func TestWithJSON_NoPathIsNoop(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})

	b.withJSON()
	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_MissingFileSetsError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/does/not/exist.json"})

	b.withJSON()
	assert.Error(t, b.err)
}

func TestWithJSON_IsPrepended(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"app": map[string]any{"secret_key": testKey},
	})

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})

	b.withJSON()
	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, testKey, b.configs[0].App.SecretKey)
}

// ── LoadConfig ────────────────────────────────────────────────────────────────

// TestLoadConfig_Priority verifies flags > env > JSON.
func TestLoadConfig_Priority(t *testing.T) {
	clearEnv(t)

	path := writeTempJSONConfig(t, map[string]any{
		"app":     map[string]any{"secret_key": testKey, "bcrypt_cost": 8},
		"storage": map[string]any{"db": map[string]any{"driver": "sqlite", "dsn": "from-json.db"}},
		"log":     map[string]any{"level": "error"},
	})

	t.Setenv("CONFIG", path)
	t.Setenv("APP_BCRYPT_COST", "9")
	t.Setenv("STORAGE_DB_DATABASE_URI", "from-env.db")

	cfg, err := LoadConfig([]string{"-d", "from-flag.db"})
	require.NoError(t, err)

	assert.Equal(t, testKey, cfg.App.SecretKey)
	assert.Equal(t, 9, cfg.App.BcryptCost)
	assert.Equal(t, "from-flag.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "error", cfg.Log.Level)
}

// TestLoadConfig_LegacyAESKey verifies that AES_KEY is honored when
// APP_SECRET_KEY is not set.
func TestLoadConfig_LegacyAESKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("AES_KEY", testKey)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, testKey, cfg.App.SecretKey)
}

func TestLoadConfig_KeyErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "missing", key: ""},
		{name: "too short", key: "short"},
		{name: "too long", key: strings.Repeat("k", 33)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.key != "" {
				t.Setenv("APP_SECRET_KEY", tt.key)
			}

			cfg, err := LoadConfig(nil)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, ErrInvalidAppConfigs)
		})
	}
}

func TestLoadConfig_StorageErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_SECRET_KEY", testKey)

	_, err := LoadConfig([]string{"-driver", "mysql"})
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)

	_, err = LoadConfig([]string{"-driver", "postgres"})
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)

	cfg, err := LoadConfig([]string{"-driver", "postgres", "-d", "postgres://localhost/vault"})
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Storage.DB.Driver)
}

func TestLoadConfig_BcryptCostRange(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_SECRET_KEY", testKey)

	_, err := LoadConfig([]string{"-bcrypt-cost", "2"})
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)

	_, err = LoadConfig([]string{"-bcrypt-cost", "40"})
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
}

func TestApp_Key(t *testing.T) {
	k, err := App{SecretKey: testKey}.Key()
	require.NoError(t, err)
	assert.False(t, k.IsZero())

	_, err = App{}.Key()
	assert.Error(t, err)
}
