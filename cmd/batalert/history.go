package main

import (
	"os"
	"time"

	"github.com/fatih/color"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/charlie0129/batalert/pkg/history"
)

func NewHistoryCommand() *cobra.Command {
	limit := 20
	dbPath := ""

	cmd := &cobra.Command{
		Use:     "history",
		GroupID: gBasic,
		Short:   "List recently fired alerts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := fileConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("history") {
				conf.HistoryPath = dbPath
			}
			if conf.HistoryPath == "" {
				return pkgerrors.New("alert history is disabled")
			}

			// Opening creates the database, a listing should not.
			if _, err := os.Stat(conf.HistoryPath); os.IsNotExist(err) {
				cmd.Println("No alerts recorded yet.")
				return nil
			}

			db, err := history.Open(conf.HistoryPath)
			if err != nil {
				return err
			}
			defer db.Close()

			alerts, err := db.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			printAlerts(cmd, alerts)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&limit, "limit", "n", limit, "number of alerts to show")
	f.StringVar(&dbPath, "history", "", "alert history database")

	return cmd
}

func printAlerts(cmd *cobra.Command, alerts []history.Alert) {
	if len(alerts) == 0 {
		cmd.Println("No alerts recorded yet.")
		return
	}

	cmd.Println(bold("%-19s  %-8s  %8s  %10s  %s", "Fired at", "Battery", "Capacity", "Next alert", "Delivered"))
	for _, a := range alerts {
		delivered := color.New(color.Bold, color.FgGreen).Sprint("✔")
		if !a.Delivered {
			delivered = color.New(color.Bold, color.FgRed).Sprint("✘")
		}
		cmd.Printf("%-19s  %-8s  %7d%%  %9d%%  %s\n",
			a.FiredAt.Local().Format(time.DateTime), a.Battery, a.Capacity, a.AlertAt, delivered)
	}
}
