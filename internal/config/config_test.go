package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("TRAVEL_TIMEZONE", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Matching.ExpiryGrace)
	assert.Equal(t, 48*time.Hour, cfg.Matching.GroupRetention)
	assert.Equal(t, 5, cfg.Matching.DefaultTopN)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"STORE_DRIVER=sqlite\nSQLITE_PATH=/tmp/x.db\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example\nMATCH_TOP_N=3\n",
	), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"STORE_DRIVER", "SQLITE_PATH", "CORS_ALLOWED_ORIGINS", "MATCH_TOP_N"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Store.SQLitePath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 3, cfg.Matching.DefaultTopN)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Config)
		wantErr bool
	}{
		{"memory", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.Store.Driver = "redis" }, true},
		{"postgres without password", func(c *Config) { c.Store.Driver = DriverPostgres }, true},
		{"postgres with password", func(c *Config) { c.Store.Driver = DriverPostgres; c.Store.Password = "pw" }, false},
		{"mongo without database", func(c *Config) { c.Store.Driver = DriverMongo; c.Store.MongoDatabase = "" }, true},
		{"bad timezone", func(c *Config) { c.Matching.Timezone = "Mars/Olympus" }, true},
		{"empty secret", func(c *Config) { c.JWT.Secret = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Store:    StoreConfig{Driver: DriverMemory, MongoURI: "mongodb://localhost", MongoDatabase: "db"},
				JWT:      JWTConfig{Secret: "secret"},
				Matching: MatchingConfig{Timezone: "UTC", DefaultTopN: 5},
			}
			tt.edit(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetDSNEscapesCredentials(t *testing.T) {
	cfg := &Config{Store: StoreConfig{
		User: "app", Password: "p@ss word", Host: "db", Port: "5432", Name: "travel", SSLMode: "require",
		ConnTimeout: 10 * time.Second,
	}}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/travel?sslmode=require&connect_timeout=10", cfg.GetDSN())
}
