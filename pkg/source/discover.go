package source

import (
	"os"
	"path/filepath"
	"sort"

	pkgerrors "github.com/pkg/errors"
)

// DefaultRoot is where the kernel exposes power supplies.
const DefaultRoot = "/sys/class/power_supply"

// Discover returns the uevent files of all batteries (BAT*) under root.
func Discover(root string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(root, "BAT*", "uevent"))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to glob batteries in %s", root)
	}
	sort.Strings(matches)

	return matches, nil
}

// Exists checks that path exists. The returned error wraps ErrSourceUnavailable.
func Exists(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if os.IsNotExist(err) {
		return pkgerrors.Wrapf(ErrSourceUnavailable, "%s does not exist", path)
	}

	return pkgerrors.Wrapf(ErrSourceUnavailable, "%s: %v", path, err)
}
