package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// systemctl runs systemctl against the user manager.
var systemctl = func(args ...string) error {
	out, err := exec.Command("systemctl", append([]string{"--user"}, args...)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl --user %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Install writes a systemd user unit that runs the current executable with
// args, then enables and starts it.
func Install(args []string) error {
	// Get the path to the current executable
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get the path to the current executable: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get the absolute path to the current executable: %w", err)
	}

	logrus.Infof("current executable path: %s", exePath)

	unitPath, err := UnitPath()
	if err != nil {
		return fmt.Errorf("failed to locate systemd user unit dir: %w", err)
	}

	logrus.Infof("writing systemd user unit to %s", unitPath)

	err = os.MkdirAll(filepath.Dir(unitPath), 0755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(unitPath), err)
	}

	// warn if the file already exists
	_, err = os.Stat(unitPath)
	if err == nil {
		logrus.Warnf("%s already exists, overwriting", unitPath)
	}

	err = os.WriteFile(unitPath, []byte(renderUnit(exePath, args)), 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", unitPath, err)
	}

	if err := systemctl("daemon-reload"); err != nil {
		return err
	}

	logrus.Infof("starting batalert")

	if err := systemctl("enable", "--now", unitName); err != nil {
		return fmt.Errorf("failed to enable %s: %w", unitName, err)
	}

	return nil
}
