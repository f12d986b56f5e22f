package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithoutDirDiscards(t *testing.T) {
	l, cleanup, err := Setup(Config{})
	require.NoError(t, err)
	require.NotNil(t, l)
	l.Info("dropped")
	assert.NoError(t, cleanup())
}

func TestSetupWritesJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, cleanup, err := Setup(Config{Dir: dir, Debug: true})
	require.NoError(t, err)

	l.Debug("library.borrow", "member_id", "AB1234")
	require.NoError(t, cleanup())

	b, err := os.ReadFile(filepath.Join(dir, "library.log"))
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, `"msg":"logger.initialized"`)
	assert.Contains(t, out, `"msg":"library.borrow"`)
	assert.Contains(t, out, `"member_id":"AB1234"`)
	assert.Contains(t, out, `"source"`)
}

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Debug("hidden")
	l.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Regexp(t, `"time":"\d{4}-\d{2}-\d{2}T[^"]+Z"`, buf.String())
}
