package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/lumiere/internal/api"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-url", "", "")
	fs.String("locale", "", "")
	fs.Duration("timeout", 0, "")
	fs.String("storage", "", "")
	fs.String("data-dir", "", "")
	fs.String("log-level", "", "")
	fs.String("log-file", "", "")
	fs.Bool("json", false, "")
	return fs
}

// chdir moves into an empty directory so no stray lumiere.yaml is found.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("", testFlags())
	require.NoError(t, err)
	assert.Equal(t, api.DefaultBaseURL, cfg.APIURL)
	assert.Equal(t, api.DefaultLocale, cfg.Locale)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "normal", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DataDir)
	assert.False(t, cfg.JSON)
}

func TestLoad_Precedence(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lumiere.yaml"), []byte(
		"api_url: http://file.example/api\nlocale: fr\nstorage: memory\ntimeout: 10s\n"), 0o600))

	t.Setenv("LUMIERE_LOCALE", "en")
	t.Setenv("LUMIERE_STORAGE", "keyring")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--storage=memory", "--json"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "http://file.example/api", cfg.APIURL, "config file")
	assert.Equal(t, "en", cfg.Locale, "env beats file")
	assert.Equal(t, StorageMemory, cfg.Storage, "flag beats env")
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.True(t, cfg.JSON)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: verbose\n"), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "verbose", cfg.LogLevel)

	_, err = Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad storage", map[string]string{"LUMIERE_STORAGE": "cloud"}},
		{"bad url", map[string]string{"LUMIERE_API_URL": "not a url"}},
		{"bad log level", map[string]string{"LUMIERE_LOG_LEVEL": "chatty"}},
		{"zero timeout", map[string]string{"LUMIERE_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("", nil)
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LUMIERE_LOCALE=es\n"), 0o600))
	t.Setenv("LUMIERE_LOCALE", "")
	os.Unsetenv("LUMIERE_LOCALE")

	require.NoError(t, LoadDotEnv())
	t.Cleanup(func() { os.Unsetenv("LUMIERE_LOCALE") })

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.Locale)

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "nope.env")))
}
