// Package config loads the node configuration gearfix runs against.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hnrobert/gearfix/internal/hostfs"
	"github.com/hnrobert/gearfix/internal/limits"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "/etc/openshift/gearfix.yaml"

// ErrMissing reports a required configuration value that is not set.
var ErrMissing = errors.New("missing required configuration value")

type Config struct {
	GearBaseDir          string `yaml:"gear_base_dir"`
	GearGecos            string `yaml:"gear_gecos"`
	GearShell            string `yaml:"gear_shell"`
	DisablePasswordAging *bool  `yaml:"disable_password_aging"`

	LimitsDir   string `yaml:"limits_dir"`
	LimitsNproc int    `yaml:"limits_nproc"`

	PasswdFile string `yaml:"passwd_file"`
	GroupFile  string `yaml:"group_file"`

	CgRulesFile         string   `yaml:"cgrules_file"`
	CgConfigFile        string   `yaml:"cgconfig_file"`
	CgroupRoot          string   `yaml:"cgroup_root"`
	CgroupCreateCommand []string `yaml:"cgroup_create_command"`

	GroupAddCommand   string   `yaml:"groupadd_command"`
	UserAddCommand    string   `yaml:"useradd_command"`
	AcceptNodeCommand []string `yaml:"accept_node_command"`

	LogFile string `yaml:"log_file"`
}

// Default returns a Config with every optional value filled in.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads a YAML config file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes, then applies defaults and environment overrides.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GearBaseDir == "" {
		c.GearBaseDir = hostfs.GearBaseDir
	}
	if c.DisablePasswordAging == nil {
		v := true
		c.DisablePasswordAging = &v
	}
	if c.LimitsDir == "" {
		c.LimitsDir = hostfs.LimitsDir
	}
	if c.LimitsNproc == 0 {
		c.LimitsNproc = limits.DefaultNproc
	}
	if c.PasswdFile == "" {
		c.PasswdFile = hostfs.EtcPasswd
	}
	if c.GroupFile == "" {
		c.GroupFile = hostfs.EtcGroup
	}
	if c.CgRulesFile == "" {
		c.CgRulesFile = hostfs.EtcCgRules
	}
	if c.CgConfigFile == "" {
		c.CgConfigFile = hostfs.EtcCgConfig
	}
	if c.CgroupRoot == "" {
		c.CgroupRoot = "openshift"
	}
	if c.GroupAddCommand == "" {
		c.GroupAddCommand = "groupadd"
	}
	if c.UserAddCommand == "" {
		c.UserAddCommand = "useradd"
	}
	if len(c.AcceptNodeCommand) == 0 {
		c.AcceptNodeCommand = []string{"oo-accept-node"}
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEARFIX_BASE_DIR"); v != "" {
		c.GearBaseDir = v
	}
	if v := os.Getenv("GEARFIX_GECOS"); v != "" {
		c.GearGecos = v
	}
	if v := os.Getenv("GEARFIX_SHELL"); v != "" {
		c.GearShell = v
	}
}

func (c *Config) validate() error {
	var errs []string
	if c.LimitsNproc < 0 {
		errs = append(errs, "limits_nproc must not be negative")
	}
	if c.GearShell != "" && !strings.HasPrefix(c.GearShell, "/") {
		errs = append(errs, "gear_shell must be an absolute path")
	}
	if strings.Contains(c.CgroupRoot, " ") {
		errs = append(errs, "cgroup_root must not contain spaces")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// PasswordAgingDisabled reports whether useradd should be told to never expire passwords.
func (c *Config) PasswordAgingDisabled() bool {
	return c.DisablePasswordAging == nil || *c.DisablePasswordAging
}

// RequireAccountFields checks the values useradd cannot run without.
func (c *Config) RequireAccountFields() error {
	if c.GearGecos == "" {
		return fmt.Errorf("%w: gear_gecos", ErrMissing)
	}
	if c.GearShell == "" {
		return fmt.Errorf("%w: gear_shell", ErrMissing)
	}
	return nil
}
