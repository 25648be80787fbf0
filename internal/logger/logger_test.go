package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuffer(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	withBuffer(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := withBuffer(t, true)

	Debug("test message %s", "arg")

	assert.Equal(t, "level=DEBUG msg=\"test message arg\"\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := withBuffer(t, false)

	Debug("hidden")
	Info("hidden too")

	assert.Empty(t, buf.String())
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	buf := withBuffer(t, false)

	Warn("version %s skipped", "v1")
	Error("index %s failed", "metrics")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "version v1 skipped")
	assert.Contains(t, out, "level=ERROR")
	assert.NotContains(t, out, "time=")
}

func TestSection(t *testing.T) {
	t.Run("verbose prints header", func(t *testing.T) {
		buf := withBuffer(t, true)
		Section("Rebuild")
		assert.Equal(t, "\n=== Rebuild ===\n", buf.String())
	})

	t.Run("quiet prints nothing", func(t *testing.T) {
		buf := withBuffer(t, false)
		Section("Rebuild")
		assert.Empty(t, buf.String())
	})
}
