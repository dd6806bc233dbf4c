package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"icsagenda/internal/agenda"
	"icsagenda/internal/caltime"
	"icsagenda/internal/config"
	appLog "icsagenda/internal/log"
	"icsagenda/internal/render"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reprint the agenda on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			refresh := func() { printAgenda(cmd, conf) }
			refresh()

			c := cron.New()
			if _, err := c.AddFunc(conf.Refresh, refresh); err != nil {
				return fmt.Errorf("invalid refresh schedule %q: %w", conf.Refresh, err)
			}
			c.Start()
			appLog.Info("watching sources", "schedule", conf.Refresh, "sources", len(conf.Sources))

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			appLog.Info("signal received, shutting down", "signal", sig.String())

			// Wait for a running refresh to finish before exiting.
			<-c.Stop().Done()
			return nil
		},
	}
}

func printAgenda(cmd *cobra.Command, conf *config.Config) {
	now := time.Now()
	rangeStart := caltime.StartOfDay(now)
	rangeEnd := caltime.EndOfDay(caltime.AddDays(now, conf.RangeDays-1))

	events, _, _ := agenda.Collect(conf.ModelSources())
	occs := agenda.ExpandForRange(events, rangeStart, rangeEnd)

	cmd.Printf("-- %s --\n", now.Format(time.RFC1123))
	cmd.Print(render.Agenda(occs, renderOptions(conf)))
}
