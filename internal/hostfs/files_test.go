package hostfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "84-gear.conf")

	require.NoError(t, AppendLine(path, "# header", 0644))
	require.NoError(t, AppendLine(path, "gear\tsoft\tnproc\t250", 0644))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# header\ngear\tsoft\tnproc\t250\n", string(b))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := Exists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	path := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	ok, err = Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)
}
