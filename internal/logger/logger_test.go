package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoAndErrorStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, Init(Options{Stdout: &out, Stderr: &errOut}))
	defer Close()

	Info("scanning %s", "/var/lib/openshift")
	Error("groupadd failed for %s", "gear1")

	assert.Contains(t, out.String(), "scanning /var/lib/openshift")
	assert.NotContains(t, out.String(), "groupadd failed")
	assert.Contains(t, errOut.String(), "groupadd failed for gear1")
}

func TestQuietDropsInfo(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, Init(Options{Quiet: true, Stdout: &out, Stderr: &errOut}))
	defer Close()

	Info("hidden")
	Warn("visible")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "visible")
}

func TestFileSink(t *testing.T) {
	var out, errOut bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "gearfix.log")
	require.NoError(t, Init(Options{File: path, Stdout: &out, Stderr: &errOut}))

	With("run", "abc").Info("fixed group")
	Warn("skipped gear")
	Close()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "INFO")
	assert.Contains(t, string(b), "fixed group")
	assert.Contains(t, string(b), `"run": "abc"`)
	assert.Contains(t, string(b), "WARN")
	assert.NotContains(t, string(b), "\033[")
}
