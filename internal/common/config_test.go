package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "data/raw/Fiskaljournale", cfg.Data.JournalRawDir)
	assert.Equal(t, "data/processed/Unified_data", cfg.Data.UnifiedDir)
	assert.Equal(t, 10000, cfg.Data.EncodingSampleSize)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 5*time.Second, cfg.AI.RequestDelay)
	assert.False(t, cfg.Archive.Enabled)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("JOURNAL_RAW_DIR", "/srv/journale")
	t.Setenv("ENCODING_SAMPLE_SIZE", "500")
	t.Setenv("GEMINI_REQUEST_DELAY", "2s")
	t.Setenv("ARCHIVE_ENABLED", "true")

	cfg := LoadConfig()

	assert.Equal(t, "/srv/journale", cfg.Data.JournalRawDir)
	assert.Equal(t, 500, cfg.Data.EncodingSampleSize)
	assert.Equal(t, 2*time.Second, cfg.AI.RequestDelay)
	assert.True(t, cfg.Archive.Enabled)
}

func TestLoadConfigIgnoresMalformedEnvValues(t *testing.T) {
	t.Setenv("ENCODING_SAMPLE_SIZE", "lots")
	t.Setenv("ARCHIVE_ENABLED", "kinda")

	cfg := LoadConfig()

	assert.Equal(t, 10000, cfg.Data.EncodingSampleSize)
	assert.False(t, cfg.Archive.Enabled)
}

func TestApplyFileOverlaysPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data:
  unified_dir: /var/bakery/unified
archive:
  enabled: true
  path: /var/bakery/archive.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := LoadConfig()
	require.NoError(t, cfg.ApplyFile(path))

	assert.Equal(t, "/var/bakery/unified", cfg.Data.UnifiedDir)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "/var/bakery/archive.db", cfg.Archive.Path)
	// Untouched keys keep their defaults.
	assert.Equal(t, "data/raw/Fiskaljournale", cfg.Data.JournalRawDir)
}

func TestApplyFileMissingFile(t *testing.T) {
	cfg := LoadConfig()
	assert.Error(t, cfg.ApplyFile(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestValidateForTranscription(t *testing.T) {
	cfg := LoadConfig()
	cfg.AI.APIKey = ""
	assert.Error(t, cfg.ValidateForTranscription())

	cfg.AI.APIKey = "key"
	assert.NoError(t, cfg.ValidateForTranscription())
}
