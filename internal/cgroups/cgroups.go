// Package cgroups checks and creates the per-gear entries in the libcgroup
// configuration files: the rules file (cgrules.conf) that classifies a
// gear's processes, and the config file (cgconfig.conf) that declares its
// control group.
package cgroups

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hnrobert/gearfix/internal/hostfs"
)

// Files names the two libcgroup configuration files.
type Files struct {
	RulesPath  string
	ConfigPath string
}

// RuleExists reports whether the rules file mentions uuid as a whole token.
func (f Files) RuleExists(uuid string) (bool, error) {
	return containsToken(f.RulesPath, uuid)
}

// ConfigExists reports whether the config file mentions uuid as a whole token.
func (f Files) ConfigExists(uuid string) (bool, error) {
	return containsToken(f.ConfigPath, uuid)
}

func tokenRe(token string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[^A-Za-z0-9_])` + regexp.QuoteMeta(token) + `([^A-Za-z0-9_]|$)`)
}

// containsToken scans path line by line, ignoring comments, for token
// bounded by non-word characters so that "abc" never matches "abcdef".
func containsToken(path, token string) (bool, error) {
	b, err := hostfs.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	re := tokenRe(token)
	s := bufio.NewScanner(bytes.NewReader(b))
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line := s.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if re.MatchString(line) {
			return true, nil
		}
	}
	if err := s.Err(); err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	return false, nil
}

// Creator writes the cgroup entries for one gear. Implementations must be
// safe to call again when some or all of the entries already exist.
type Creator interface {
	Create(ctx context.Context, uuid string) error
}

// CreateError wraps a failure reported by a Creator.
type CreateError struct {
	UUID string
	Err  error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create cgroup entries for %s: %v", e.UUID, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// Present reports whether both the rule and the config entry for uuid exist.
// Creators are expected to be called whenever it returns false, including
// when only one of the two entries is missing.
func (f Files) Present(uuid string) (bool, error) {
	rule, err := f.RuleExists(uuid)
	if err != nil {
		return false, err
	}
	conf, err := f.ConfigExists(uuid)
	if err != nil {
		return false, err
	}
	return rule && conf, nil
}
