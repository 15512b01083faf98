package main

import (
	"strings"

	"github.com/fatih/color"

	"github.com/charlie0129/batalert/pkg/source"
)

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

func statusText(raw string) string {
	switch source.ParseStatus(raw) {
	case source.StatusCharging:
		return color.New(color.Bold, color.FgGreen).Sprint(strings.ToLower(raw))
	case source.StatusDischarging:
		return color.New(color.Bold, color.FgRed).Sprint(strings.ToLower(raw))
	default:
		if raw == "" {
			return bold("unknown")
		}
		return bold("%s", strings.ToLower(raw))
	}
}

// alertAtText shows the next alert level. Below zero the battery cannot
// alert again until it charges.
func alertAtText(alertAt int) string {
	if alertAt < 0 {
		return bold("none until charged")
	}
	return bold("%d%%", alertAt)
}
