package daemon

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Uninstall stops and disables the user unit and removes its file.
func Uninstall() error {
	unitPath, err := UnitPath()
	if err != nil {
		return fmt.Errorf("failed to locate systemd user unit dir: %w", err)
	}

	// if the file doesn't exist, there is nothing to stop
	_, err = os.Stat(unitPath)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Infof("%s not installed", unitName)
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", unitPath, err)
	}

	logrus.Infof("stopping batalert")

	if err := systemctl("disable", "--now", unitName); err != nil {
		return fmt.Errorf("failed to disable %s: %w", unitName, err)
	}

	logrus.Infof("removing systemd user unit")

	err = os.Remove(unitPath)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", unitPath, err)
	}

	return systemctl("daemon-reload")
}
