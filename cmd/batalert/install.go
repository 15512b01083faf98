package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	daemonutils "github.com/charlie0129/batalert/pkg/utils/daemon"
)

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "install",
		Short:   "Run batalert at login (systemd user unit)",
		GroupID: gInstallation,
		Long: `Install batalert as a systemd user unit.

This makes batalert run in the background and start automatically when you log in.
The unit runs batalert with the current config file, so change settings there
and restart it with 'systemctl --user restart batalert'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := daemonutils.Install([]string{"--config", configPath, "--log-level", logLevel})
			if err != nil {
				return fmt.Errorf("failed to install batalert: %v", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("systemd will use the current binary (%s), so please make sure you do not move it. If it is moved or deleted, run `batalert install' again.\n", exePath)

			return nil
		},
	}
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Stop running batalert at login",
		GroupID: gInstallation,
		Long:    `Stop batalert and remove its systemd user unit.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := daemonutils.Uninstall()
			if err != nil {
				return fmt.Errorf("failed to uninstall batalert: %v", err)
			}

			cmd.Println("successfully uninstalled")

			cmd.Printf("Your config is kept in %s, in case you want to use `batalert' again.\n", configPath)

			return nil
		},
	}
}
