package source

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Markers of the keys we look for in a uevent blob.
const (
	keyPrefix = "POWER_SUPPLY_"

	markerCapacity = "CAPACITY"
	markerStatus   = "STATUS"
	markerName     = "NAME"
)

// DefaultPath is the uevent file of the first battery on most laptops.
const DefaultPath = "/sys/class/power_supply/BAT0/uevent"

// Reader produces readings from a battery source.
type Reader interface {
	Read(ctx context.Context, path string) (Reading, error)
}

// UeventReader reads power_supply uevent files from sysfs.
type UeventReader struct{}

var _ Reader = UeventReader{}

// Read reads and parses the uevent file at path.
func (UeventReader) Read(ctx context.Context, path string) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Reading{}, pkgerrors.Wrapf(ErrSourceUnavailable, "%s: %v", path, err)
	}

	r, err := Parse(string(b))
	if err != nil {
		return Reading{}, pkgerrors.Wrapf(err, "%s", path)
	}

	return r, nil
}

// Parse parses a blob of KEY=VALUE lines into a Reading.
//
// A key is matched by containing the marker (CAPACITY, STATUS, NAME). When
// several keys contain the same marker, e.g. POWER_SUPPLY_CAPACITY and
// POWER_SUPPLY_CAPACITY_LEVEL, the key that is exactly the marker, with or
// without the POWER_SUPPLY_ prefix, wins over the first containing one.
func Parse(blob string) (Reading, error) {
	kv := parsePairs(blob)

	capacityStr, ok := lookup(kv, markerCapacity)
	if !ok {
		return Reading{}, pkgerrors.Wrapf(ErrMalformedSource, "no %s key", markerCapacity)
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(capacityStr))
	if err != nil {
		return Reading{}, pkgerrors.Wrapf(ErrMalformedSource, "invalid capacity %q", capacityStr)
	}
	if capacity < 0 || capacity > 100 {
		return Reading{}, pkgerrors.Wrapf(ErrMalformedSource, "capacity %d out of range", capacity)
	}

	status, ok := lookup(kv, markerStatus)
	if !ok {
		return Reading{}, pkgerrors.Wrapf(ErrMalformedSource, "no %s key", markerStatus)
	}

	name, ok := lookup(kv, markerName)
	if !ok {
		return Reading{}, pkgerrors.Wrapf(ErrMalformedSource, "no %s key", markerName)
	}

	status = strings.TrimSpace(status)

	return Reading{
		Name:      strings.TrimSpace(name),
		Capacity:  capacity,
		Status:    ParseStatus(status),
		RawStatus: status,
	}, nil
}

type pair struct {
	key   string
	value string
}

func parsePairs(blob string) []pair {
	var pairs []pair

	scanner := bufio.NewScanner(strings.NewReader(blob))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, "=")
		if !found || key == "" {
			continue
		}
		pairs = append(pairs, pair{key: strings.TrimSpace(key), value: value})
	}

	return pairs
}

func lookup(pairs []pair, marker string) (string, bool) {
	var (
		first string
		found bool
	)

	for _, p := range pairs {
		if !strings.Contains(p.key, marker) {
			continue
		}
		if p.key == marker || p.key == keyPrefix+marker {
			return p.value, true
		}
		if !found {
			first, found = p.value, true
		}
	}

	return first, found
}
