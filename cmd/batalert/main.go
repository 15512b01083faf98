package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/batalert/pkg/client"
	"github.com/charlie0129/batalert/pkg/config"
	"github.com/charlie0129/batalert/pkg/source"
)

var (
	logLevel   = "info"
	configPath = config.DefaultConfigPath()
)

var (
	gBasic        = "Basic:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gBasic,
		gInstallation,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, source.ErrSourceUnavailable) {
		fmt.Fprintln(os.Stderr, "\nIs the battery name right? List available ones with: ls /sys/class/power_supply")
	} else if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(os.Stderr, "\nError: batalert is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'batalert' or install it with 'batalert install'.")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - The status socket belongs to another user, pass --socket to use your own")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cmd := NewCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := NewWatchCommand()

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewVersionCommand(),
		NewStatusCommand(),
		NewHistoryCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}
