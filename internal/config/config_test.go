package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("gear_gecos: OpenShift guest\ngear_shell: /usr/bin/oo-trap-user\n"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/openshift", cfg.GearBaseDir)
	assert.Equal(t, "/etc/security/limits.d", cfg.LimitsDir)
	assert.Equal(t, 250, cfg.LimitsNproc)
	assert.Equal(t, "/etc/cgrules.conf", cfg.CgRulesFile)
	assert.Equal(t, "/etc/cgconfig.conf", cfg.CgConfigFile)
	assert.Equal(t, []string{"oo-accept-node"}, cfg.AcceptNodeCommand)
	assert.True(t, cfg.PasswordAgingDisabled())
	assert.NoError(t, cfg.RequireAccountFields())
}

func TestParsePasswordAgingOff(t *testing.T) {
	cfg, err := Parse([]byte("disable_password_aging: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.PasswordAgingDisabled())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("gear_shell: bin/bash\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gear_shell must be an absolute path")

	_, err = Parse([]byte("gear_base_dir: [unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestRequireAccountFields(t *testing.T) {
	cfg := Default()
	err := cfg.RequireAccountFields()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissing))
	assert.Contains(t, err.Error(), "gear_gecos")

	cfg.GearGecos = "guest"
	err = cfg.RequireAccountFields()
	assert.True(t, errors.Is(err, ErrMissing))
	assert.Contains(t, err.Error(), "gear_shell")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEARFIX_BASE_DIR", "/srv/gears")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/gears", cfg.GearBaseDir)
	assert.Equal(t, "useradd", cfg.UserAddCommand)
}

func TestLoadMissingFileValidatesEnv(t *testing.T) {
	t.Setenv("GEARFIX_SHELL", "bash")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gear_shell must be an absolute path")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gearfix.yaml")
	data := "gear_base_dir: /data/gears\ncgroup_create_command: [oo-cgroup-enable, --with-container-uuid, \"{uuid}\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/gears", cfg.GearBaseDir)
	assert.Equal(t, []string{"oo-cgroup-enable", "--with-container-uuid", "{uuid}"}, cfg.CgroupCreateCommand)
}
