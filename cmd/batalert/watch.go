package main

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/batalert/pkg/config"
	"github.com/charlie0129/batalert/pkg/daemon"
	"github.com/charlie0129/batalert/pkg/source"
	"github.com/charlie0129/batalert/pkg/version"
)

type watchFlags struct {
	sources      []string
	threshold    int
	step         int
	timeoutSecs  int
	icon         string
	all          bool
	notifier     string
	socket       string
	history      string
	pollInterval time.Duration
}

// NewWatchCommand is the root command. It watches the batteries in the
// foreground until interrupted.
func NewWatchCommand() *cobra.Command {
	wf := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "batalert",
		Short: "batalert warns you before your laptop battery runs out",
		Long: `batalert watches battery uevent files and sends a desktop notification when
a discharging battery drops to the alert level. While the battery keeps
discharging, the alert repeats every notification-step percent. Plugging in
the charger resets it.

Settings are read from the config file first, flags override them.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := resolveConfig(cmd, wf)
			if err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("batalert starting")
			logrus.WithFields(conf.LogrusFields()).Debug("config resolved")

			err = daemon.Run(cmd.Context(), conf)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	bindWatchFlags(cmd, wf)

	return cmd
}

func bindWatchFlags(cmd *cobra.Command, wf *watchFlags) {
	def := config.Default()
	f := cmd.Flags()
	f.StringArrayVarP(&wf.sources, "uevent", "u", def.Sources, "battery uevent file to watch, repeat for more batteries")
	f.IntVarP(&wf.threshold, "alert", "a", def.Threshold, "alert when a discharging battery is at or below this percentage")
	f.IntVarP(&wf.step, "notification-step", "n", def.Step, "repeat the alert every this many percent of further discharge")
	f.IntVarP(&wf.timeoutSecs, "timeout", "t", int(def.Timeout/time.Second), "seconds before the notification is dismissed")
	f.StringVarP(&wf.icon, "icon", "i", def.Icon, "notification icon")
	f.BoolVar(&wf.all, "all", false, "also watch every battery under "+source.DefaultRoot)
	f.StringVar(&wf.notifier, "notifier", def.Notifier, "how to deliver notifications (auto, dbus, exec)")
	f.StringVar(&wf.socket, "socket", def.SocketPath, "status server unix socket, empty to disable")
	f.StringVar(&wf.history, "history", def.HistoryPath, "alert history database, empty to disable")
	f.DurationVar(&wf.pollInterval, "interval", def.PollInterval, "how often batteries are read")
	_ = f.MarkHidden("interval")
}

// resolveConfig layers the config file over the defaults, then the flags the
// user actually set over that.
func resolveConfig(cmd *cobra.Command, wf *watchFlags) (*config.Config, error) {
	conf := config.Default()

	raw, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	raw.Apply(&conf)

	f := cmd.Flags()
	if f.Changed("uevent") {
		conf.Sources = wf.sources
	}
	if f.Changed("alert") {
		conf.Threshold = wf.threshold
	}
	if f.Changed("notification-step") {
		conf.Step = wf.step
	}
	if f.Changed("timeout") {
		conf.Timeout = time.Duration(wf.timeoutSecs) * time.Second
	}
	if f.Changed("icon") {
		conf.Icon = wf.icon
	}
	if f.Changed("all") {
		conf.DiscoverAll = wf.all
	}
	if f.Changed("notifier") {
		conf.Notifier = wf.notifier
	}
	if f.Changed("socket") {
		conf.SocketPath = wf.socket
	}
	if f.Changed("history") {
		conf.HistoryPath = wf.history
	}
	if f.Changed("interval") {
		conf.PollInterval = wf.pollInterval
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}
