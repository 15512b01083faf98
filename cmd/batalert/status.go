package main

import (
	"context"
	"errors"
	"time"

	"github.com/distatus/battery"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/batalert/pkg/client"
	"github.com/charlie0129/batalert/pkg/config"
	"github.com/charlie0129/batalert/pkg/source"
	"github.com/charlie0129/batalert/pkg/types"
)

func NewStatusCommand() *cobra.Command {
	socket := ""

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Show battery and alert status",
		Long: `Show what the running batalert sees: every watched battery and the level
its next alert fires at.

If batalert is not running, the configured batteries are read directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := fileConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("socket") {
				conf.SocketPath = socket
			}

			st, err := fetchDaemonStatus(conf.SocketPath)
			switch {
			case err == nil:
				printDaemonStatus(cmd, st)
			case errors.Is(err, client.ErrDaemonNotRunning):
				logrus.Warn("batalert is not running, reading batteries directly")
				printSourceStatus(cmd, conf)
			default:
				return err
			}

			cmd.Println()
			printSystemBatteries(cmd)
			return nil
		},
	}

	cmd.Flags().StringVar(&socket, "socket", config.DefaultSocketPath(), "status server unix socket")

	return cmd
}

// fileConfig is the config the watcher would run with when started without
// flags.
func fileConfig() (*config.Config, error) {
	conf := config.Default()
	raw, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	raw.Apply(&conf)
	return &conf, nil
}

func fetchDaemonStatus(socketPath string) (*types.DaemonStatus, error) {
	if socketPath == "" {
		return nil, client.ErrDaemonNotRunning
	}
	return client.NewClient(socketPath).GetStatus()
}

func printDaemonStatus(cmd *cobra.Command, st *types.DaemonStatus) {
	cmd.Println(bold("Alert configuration:"))
	cmd.Printf("  Alert at: %s\n", bold("%d%%", st.Threshold))
	cmd.Printf("  Repeat every: %s\n", bold("%d%%", st.Step))
	cmd.Printf("  Poll interval: %s\n", bold("%s", st.PollInterval))
	cmd.Printf("  Running since: %s (%s)\n", st.StartedAt.Local().Format(time.DateTime), st.Version)

	cmd.Println()
	cmd.Println(bold("Watched batteries:"))
	if len(st.Batteries) == 0 {
		cmd.Println("  none polled yet")
	}
	for _, b := range st.Batteries {
		cmd.Printf("  %s (%s)\n", bold("%s", b.Battery), b.Source)
		cmd.Printf("    Capacity: %s\n", bold("%d%%", b.Capacity))
		cmd.Printf("    State: %s\n", statusText(b.Status))
		cmd.Printf("    Next alert at: %s\n", alertAtText(b.AlertAt))
		if b.Error != "" {
			cmd.Printf("    Last error: %s\n", color.RedString(b.Error))
		}
	}
}

func printSourceStatus(cmd *cobra.Command, conf *config.Config) {
	paths := conf.Sources
	if conf.DiscoverAll {
		found, err := source.Discover(source.DefaultRoot)
		if err != nil {
			logrus.WithError(err).Warn("failed to discover batteries")
		}
		paths = append(append([]string(nil), paths...), found...)
	}

	cmd.Println(bold("Configured batteries:"))
	reader := source.UeventReader{}
	for _, p := range paths {
		r, err := reader.Read(context.Background(), p)
		if err != nil {
			cmd.Printf("  %s\n    %s\n", p, color.RedString(err.Error()))
			continue
		}
		cmd.Printf("  %s (%s)\n", bold("%s", r.Name), p)
		cmd.Printf("    Capacity: %s\n", bold("%d%%", r.Capacity))
		cmd.Printf("    State: %s\n", statusText(r.RawStatus))
	}
	cmd.Printf("  Alert at: %s, repeat every %s\n", bold("%d%%", conf.Threshold), bold("%d%%", conf.Step))
}

// printSystemBatteries lists what the OS reports, which includes batteries
// that are not watched.
func printSystemBatteries(cmd *cobra.Command) {
	batteries, err := battery.GetAll()
	if err != nil && len(batteries) == 0 {
		logrus.Debugf("failed to list system batteries: %v", err)
		return
	}

	cmd.Println(bold("System batteries:"))
	for i, bat := range batteries {
		if bat == nil {
			continue
		}
		if bat.State == battery.Discharging {
			bat.ChargeRate = -bat.ChargeRate
		}

		charge := 0.0
		if bat.Full > 0 {
			charge = bat.Current / bat.Full * 100
		}

		watts := bat.ChargeRate / 1e3
		var rateStr string
		switch {
		case watts > 0:
			rateStr = color.New(color.Bold, color.FgGreen).Sprintf("%+.1f W", watts)
		case watts < 0:
			rateStr = color.New(color.Bold, color.FgRed).Sprintf("%+.1f W", watts)
		default:
			rateStr = bold("%+.1f W", watts)
		}

		cmd.Printf("  Battery %d:\n", i)
		cmd.Printf("    Charge: %s\n", bold("%.0f%%", charge))
		cmd.Printf("    State: %s\n", statusText(bat.State.String()))
		cmd.Printf("    Charge rate: %s\n", rateStr)
		if bat.Design > 0 {
			cmd.Printf("    Health: %s\n", bold("%.0f%%", bat.Full/bat.Design*100))
		}
		if bat.Voltage > 0 {
			cmd.Printf("    Voltage: %s\n", bold("%.2f V", bat.Voltage))
		}
	}
}
