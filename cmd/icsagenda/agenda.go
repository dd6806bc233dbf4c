package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"icsagenda/internal/agenda"
	"icsagenda/internal/caltime"
	"icsagenda/internal/render"
)

func newAgendaCmd() *cobra.Command {
	var fromStr string
	var days int

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print the event agenda for a date window",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			from := time.Now()
			if fromStr != "" {
				from, err = time.ParseInLocation("2006-01-02", fromStr, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --from date: %w", err)
				}
			}
			if days <= 0 {
				days = conf.RangeDays
			}

			rangeStart := caltime.StartOfDay(from)
			rangeEnd := caltime.EndOfDay(caltime.AddDays(from, days-1))

			events, _, _ := agenda.Collect(conf.ModelSources())
			occs := agenda.ExpandForRange(events, rangeStart, rangeEnd)

			cmd.Print(render.Agenda(occs, renderOptions(conf)))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "window start date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&days, "days", 0, "window length in days (default from config)")
	return cmd
}
