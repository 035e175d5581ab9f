package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Config Loading Tests
// =============================================================================

func TestLoadConfig_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "docs", cfg.Docs.Dir)
	assert.Equal(t, "https://github.com/fgrfn/unraid-templates", cfg.Publish.RepoURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Projects)
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)

	configContent := `
fetch:
  timeout: 30s

docs:
  dir: site

log:
  level: debug
  format: json

projects:
  - name: Bambuddy
    template: Bambuddy/my-Bambuddy.xml
    compose_url: https://raw.githubusercontent.com/maziggy/bambuddy/main/docker-compose.yml
    image: ghcr.io/maziggy/bambuddy
  - name: Scan2Target
    template: Scan2Target/my-Scan2Target.xml
    compose_url: https://raw.githubusercontent.com/fgrfn/Scan2Target/main/docker-compose.yml
    image: ghcr.io/fgrfn/scan2target
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(configContent), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "site", cfg.Docs.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	require.Len(t, cfg.Projects, 2)
	assert.Equal(t, "Bambuddy", cfg.Projects[0].Name)
	assert.Equal(t, "Bambuddy/my-Bambuddy.xml", cfg.Projects[0].Template)
	assert.Equal(t, "ghcr.io/fgrfn/scan2target", cfg.Projects[1].Image)
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	clearEnv(t)

	t.Setenv("TEMPLATECTL_LOG_LEVEL", "warn")
	t.Setenv("TEMPLATECTL_DOCS_DIR", "public")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "public", cfg.Docs.Dir)
}

func TestLoadConfig_FileNotFound_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	require.NoError(t, err) // Should not error, just use defaults

	assert.Equal(t, "docs", cfg.Docs.Dir)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	clearEnv(t)

	tmpFile := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("invalid: yaml: content: [[["), 0644))

	_, err := LoadConfig(tmpFile)
	assert.Error(t, err)
}

// =============================================================================
// Logger Setup Tests
// =============================================================================

func TestSetupLogger_Formats(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		cfg := &Config{Log: LogConfig{Level: "info", Format: format}}
		assert.NotNil(t, SetupLogger(cfg))
	}
}

func TestSetupLogger_InvalidLevel(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "invalid", Format: "text"}}

	// Should fall back to info level, not panic
	assert.NotNil(t, SetupLogger(cfg))
}

// =============================================================================
// Test Helpers
// =============================================================================

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"TEMPLATECTL_LOG_LEVEL",
		"TEMPLATECTL_LOG_FORMAT",
		"TEMPLATECTL_DOCS_DIR",
		"TEMPLATECTL_FETCH_TIMEOUT",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}
