package usermgr

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPasswd = `root:x:0:0:root:/root:/bin/bash
# comment line
abcdefghijklmnopqrstuvwx:x:1001:1001:OpenShift guest:/var/lib/openshift/abcdefghijklmnopqrstuvwx:/usr/bin/oo-trap-user

broken line
`

const testGroup = `root:x:0:
wheel:x:10:alice,bob
abcdefghijklmnopqrstuvwx:x:1001:
`

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	m := &Manager{
		PasswdPath: filepath.Join(dir, "passwd"),
		GroupPath:  filepath.Join(dir, "group"),
	}
	require.NoError(t, os.WriteFile(m.PasswdPath, []byte(testPasswd), 0644))
	require.NoError(t, os.WriteFile(m.GroupPath, []byte(testGroup), 0644))
	return m
}

func TestUserExists(t *testing.T) {
	m := newTestManager(t)

	ok, err := m.UserExists("abcdefghijklmnopqrstuvwx")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.UserExists("abcdefghijklmnopqrstuvw")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGroupExists(t *testing.T) {
	m := newTestManager(t)

	ok, err := m.GroupExists("wheel")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.GroupExists("nosuchgroup")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupUser(t *testing.T) {
	m := newTestManager(t)

	e, err := m.LookupUser("abcdefghijklmnopqrstuvwx")
	require.NoError(t, err)
	assert.Equal(t, 1001, e.UID)
	assert.Equal(t, "/var/lib/openshift/abcdefghijklmnopqrstuvwx", e.Home)

	_, err = m.LookupUser("ghost")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestExistsReportsReadErrors(t *testing.T) {
	m := &Manager{
		PasswdPath: filepath.Join(t.TempDir(), "missing-passwd"),
		GroupPath:  filepath.Join(t.TempDir(), "missing-group"),
	}

	ok, err := m.UserExists("root")
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = m.GroupExists("root")
	require.Error(t, err)
}

func TestMalformedIDIsAnError(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, os.WriteFile(m.GroupPath, []byte("bad:x:notanumber:\n"), 0644))

	_, err := m.GroupExists("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group.gid")
}

func TestCompatEntriesAreSkipped(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, os.WriteFile(m.PasswdPath, []byte(testPasswd+"-baduser::::::\n+@admins::::::\n+::::::\n"), 0644))
	require.NoError(t, os.WriteFile(m.GroupPath, []byte(testGroup+"+@staff\n-games:::\n+:::\n"), 0644))

	ok, err := m.UserExists("abcdefghijklmnopqrstuvwx")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.GroupExists("abcdefghijklmnopqrstuvwx")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.UserExists("baduser")
	require.NoError(t, err)
	assert.False(t, ok)

	name, err := m.GroupWithGID(0)
	require.NoError(t, err)
	assert.Equal(t, "root", name)
}

func TestIDOwners(t *testing.T) {
	m := newTestManager(t)

	name, err := m.GroupWithGID(10)
	require.NoError(t, err)
	assert.Equal(t, "wheel", name)

	name, err = m.UserWithUID(4242)
	require.NoError(t, err)
	assert.Empty(t, name)

	g, err := m.LookupGroup("wheel")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, g.Members)
}
