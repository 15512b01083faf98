package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const unitName = "batalert.service"

const unitTemplate = `[Unit]
Description=Low battery alerts
After=graphical-session.target

[Service]
Type=simple
ExecStart=/path/to/batalert
Restart=on-failure
RestartSec=5

[Install]
WantedBy=default.target
`

// UnitPath is where the systemd user unit is written, normally
// ~/.config/systemd/user/batalert.service.
func UnitPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "systemd", "user", unitName), nil
}

func renderUnit(exePath string, args []string) string {
	cmdline := []string{quoteArg(exePath)}
	for _, a := range args {
		cmdline = append(cmdline, quoteArg(a))
	}
	return strings.ReplaceAll(unitTemplate, "/path/to/batalert", strings.Join(cmdline, " "))
}

// quoteArg quotes a word for ExecStart. systemd splits on whitespace and
// expands % specifiers.
func quoteArg(s string) string {
	s = strings.ReplaceAll(s, "%", "%%")
	if s == "" || strings.ContainsAny(s, " \t\"'\\") {
		return strconv.Quote(s)
	}
	return s
}
