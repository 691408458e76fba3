package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("DIRECTORY_BACKEND", "")
	require.NoError(t, os.Unsetenv("DIRECTORY_BACKEND"))

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Keycloak.Timeout)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.False(t, cfg.AuthEnabled())
}

func TestParse_Keycloak(t *testing.T) {
	t.Setenv("DIRECTORY_BACKEND", "keycloak")
	t.Setenv("KEYCLOAK_URL", "https://sso.example.com")
	t.Setenv("KEYCLOAK_REALM", "acme")
	t.Setenv("KEYCLOAK_CLIENT_ID", "hermes-admin")
	t.Setenv("KEYCLOAK_CLIENT_SECRET", "s3cret")
	t.Setenv("KEYCLOAK_TIMEOUT", "3s")
	t.Setenv("KEYCLOAK_CACHE", "true")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Keycloak.Realm)
	assert.Equal(t, 3*time.Second, cfg.Keycloak.Timeout)
	assert.True(t, cfg.Keycloak.Cache)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "memory needs nothing",
			cfg:  Config{Backend: BackendMemory},
		},
		{
			name:    "keycloak without url",
			cfg:     Config{Backend: BackendKeycloak, Keycloak: KeycloakOptions{ClientID: "a", ClientSecret: "b"}},
			wantErr: "KEYCLOAK_URL",
		},
		{
			name:    "keycloak without credentials",
			cfg:     Config{Backend: BackendKeycloak, Keycloak: KeycloakOptions{URL: "http://sso"}},
			wantErr: "KEYCLOAK_CLIENT_ID",
		},
		{
			name:    "postgres without url",
			cfg:     Config{Backend: BackendPostgres, Database: DatabaseOptions{MaxConns: 5}},
			wantErr: "DATABASE_URL",
		},
		{
			name: "postgres pool bounds",
			cfg: Config{Backend: BackendPostgres, Database: DatabaseOptions{
				URL: "postgres://localhost/hermes", MaxConns: 2, MinConns: 4,
			}},
			wantErr: "DB_MIN_CONNS",
		},
		{
			name:    "unknown backend",
			cfg:     Config{Backend: "ldap"},
			wantErr: `unknown DIRECTORY_BACKEND "ldap"`,
		},
		{
			name:    "short jwt secret",
			cfg:     Config{Backend: BackendMemory, Auth: AuthOptions{JWTSecret: "short"}},
			wantErr: "JWT_SECRET",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("HERMES_TEST_LOAD_ENV=ok\n"), 0o644))
	t.Setenv("HERMES_TEST_LOAD_ENV", "")
	require.NoError(t, os.Unsetenv("HERMES_TEST_LOAD_ENV"))

	n, err := LoadEnv(file, filepath.Join(dir, ".env.local"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "ok", os.Getenv("HERMES_TEST_LOAD_ENV"))
}
