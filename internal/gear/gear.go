// Package gear discovers gears on the node from the layout of the gear base
// directory. Each gear lives in a directory whose trailing path component is
// its uuid.
package gear

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/sys/unix"

	"github.com/hnrobert/gearfix/internal/logger"
)

// ErrBaseDir is returned when the gear base directory is missing or not a directory.
var ErrBaseDir = errors.New("gear base directory unusable")

var uuidRe = regexp.MustCompile(`[A-Za-z0-9]{24,32}$`)

// LimitsPrefix is the numeric ordering prefix of per-gear PAM limits files.
const LimitsPrefix = "84-"

type Gear struct {
	Path    string
	UUID    string
	OwnerID int
}

// LimitsFile returns the gear's PAM limits file inside dir.
func (g Gear) LimitsFile(dir string) string {
	return filepath.Join(dir, LimitsPrefix+g.UUID+".conf")
}

func (g Gear) String() string {
	return g.UUID
}

// ParseUUID extracts the gear uuid from the end of path.
func ParseUUID(path string) (string, bool) {
	m := uuidRe.FindString(filepath.Base(path))
	return m, m != ""
}

// Discover lists the gears under baseDir in directory order. Entries whose
// names carry no uuid are ignored; entries that cannot be stat'ed are logged
// and skipped.
func Discover(baseDir string) ([]Gear, error) {
	st, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBaseDir, baseDir, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrBaseDir, baseDir)
	}

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBaseDir, baseDir, err)
	}

	var gears []Gear
	for _, ent := range entries {
		path := filepath.Join(baseDir, ent.Name())
		uuid, ok := ParseUUID(path)
		if !ok {
			continue
		}
		var sb unix.Stat_t
		if err := unix.Stat(path, &sb); err != nil {
			logger.Warn("skipping gear %s: stat failed: %v", path, err)
			continue
		}
		if sb.Mode&unix.S_IFMT != unix.S_IFDIR {
			continue
		}
		gears = append(gears, Gear{Path: path, UUID: uuid, OwnerID: int(sb.Gid)})
	}
	return gears, nil
}
