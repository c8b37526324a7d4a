package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MARTILLO_API_URL", "")

	require.NoError(t, os.WriteFile(ConfigFileName, []byte(`{"api_url": "https://api.example.com/", "alias": "prod"}`), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL, "trailing slash is stripped")
	assert.Equal(t, "prod", cfg.Alias)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MARTILLO_API_URL", "http://localhost:5187")

	require.NoError(t, os.WriteFile(ConfigFileName, []byte(`{"api_url": "https://api.example.com"}`), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5187", cfg.APIURL)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MARTILLO_API_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ConfigFileName)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MARTILLO_API_URL", "")

	require.NoError(t, os.WriteFile(ConfigFileName, []byte("not json"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EmptyAPIURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MARTILLO_API_URL", "")

	require.NoError(t, os.WriteFile(ConfigFileName, []byte(`{"alias": "prod"}`), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_url")
}

func TestSaveThenLoad(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MARTILLO_API_URL", "")

	require.NoError(t, Save(&Config{APIURL: "https://api.example.com", Alias: "prod"}))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
}
