// Package limits manages the per-gear PAM process limits files in
// /etc/security/limits.d.
package limits

import (
	"fmt"

	"github.com/hnrobert/gearfix/internal/hostfs"
)

// DefaultNproc is the soft process-count ceiling written for each gear.
const DefaultNproc = 250

var header = []string{
	"# PAM process limits for OpenShift guests",
	"# see limits.conf(5) for details",
	"# Each line describes a limit for a user in the form:",
	"#",
	"# <domain>\t<type>\t<item>\t<value>",
}

// Lines returns the full contents of a gear limits file, one entry per line.
func Lines(uuid string, nproc int) []string {
	lines := append([]string(nil), header...)
	return append(lines, fmt.Sprintf("%s\tsoft\tnproc\t%d", uuid, nproc))
}

func Exists(path string) (bool, error) {
	return hostfs.Exists(path)
}

// Create writes the limits file for uuid at path unless one is already there.
// It reports whether the file was written.
func Create(path, uuid string, nproc int) (bool, error) {
	ok, err := Exists(path)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	for _, line := range Lines(uuid, nproc) {
		if err := hostfs.AppendLine(path, line, 0644); err != nil {
			return false, fmt.Errorf("write limits file %s: %w", path, err)
		}
	}
	return true, nil
}
