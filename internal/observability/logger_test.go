package observability_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukaigt/MediaMorph/internal/config"
	"github.com/lukaigt/MediaMorph/internal/observability"
)

func TestGetLoggerNeverNil(t *testing.T) {
	require.NotNil(t, observability.GetLogger())
}

func TestInitializeLoggerIsIdempotent(t *testing.T) {
	cfg := config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "mediamorph-test",
		LogFile:     filepath.Join(t.TempDir(), "test.log"),
		MaxSize:     1,
	}
	observability.InitializeLogger(cfg)
	first := observability.GetLogger()
	require.NotNil(t, first)

	// Later calls must not replace the live logger.
	observability.InitializeLogger(config.LoggerConfig{Level: "error", Format: "console"})
	assert.Same(t, first, observability.GetLogger())

	first.Info("logger smoke test")
	observability.Sync()
}
