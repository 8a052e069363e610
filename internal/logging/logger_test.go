package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "civic.log")

	logger, err := New(Options{Level: "info", File: path, Production: true})
	require.NoError(t, err)

	logger.Debug("dropped below level")
	logger.Info("vote recorded", zap.String("poll_id", "p1"))
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"vote recorded"`)
	assert.Contains(t, string(content), `"poll_id":"p1"`)
	assert.NotContains(t, string(content), "dropped below level")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
