package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := FromEnv(filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, "http://localhost:7071", cfg.APIBaseURL)
	assert.Equal(t, "none", cfg.AuthMode)
	assert.Equal(t, "7071", cfg.Port)
	assert.Equal(t, "seed", cfg.SeedDir)
	assert.Empty(t, cfg.DBURL)
}

func TestJSONThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labtrack.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"apiBaseUrl": "https://api.example.com",
		"functionKey": "from-json",
		"port": "9000"
	}`), 0o644))

	t.Setenv("LABTRACK_FUNCTION_KEY", "from-env")

	cfg := FromEnv(path)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "from-env", cfg.FunctionKey) // ENV сильнее JSON
	assert.Equal(t, "9000", cfg.Port)
}
