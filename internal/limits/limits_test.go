package limits

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uuid = "abcdefghijklmnopqrstuvwx"

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "84-"+uuid+".conf")

	written, err := Create(path, uuid, DefaultNproc)
	require.NoError(t, err)
	assert.True(t, written)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "# PAM process limits for OpenShift guests", lines[0])
	for _, l := range lines[:5] {
		assert.NotContains(t, l, uuid, "header is the same for every gear")
	}
	assert.Equal(t, uuid+"\tsoft\tnproc\t250", lines[5])
}

func TestCreateLeavesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "84-"+uuid+".conf")
	require.NoError(t, os.WriteFile(path, []byte("custom\n"), 0644))

	written, err := Create(path, uuid, DefaultNproc)
	require.NoError(t, err)
	assert.False(t, written)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom\n", string(b))
}

func TestCreateUnwritableDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "84-"+uuid+".conf")

	_, err := Create(path, uuid, DefaultNproc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write limits file")
}

func TestLinesHeaderIsShared(t *testing.T) {
	a := Lines(uuid, DefaultNproc)
	b := Lines("zyxwvutsrqponmlkjihgfedc", 100)
	assert.Equal(t, a[:5], b[:5])
	assert.Equal(t, "zyxwvutsrqponmlkjihgfedc\tsoft\tnproc\t100", b[5])
}
