package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	log.Info("clock event recorded", zap.String("staff_id", "john_doe"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"staff_id":"john_doe"`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNamedWithNilBase(t *testing.T) {
	assert.NotNil(t, Named(nil, "svc"))
}
