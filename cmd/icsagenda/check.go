package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"icsagenda/internal/agenda"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Parse all sources and report tolerated problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			events, tasks, warnings := agenda.Collect(conf.ModelSources())
			cmd.Printf("parsed %d events and %d tasks from %d sources\n",
				len(events), len(tasks), len(conf.Sources))

			for _, w := range warnings {
				cmd.Printf("warning: %s: %s\n", w.Path, w.Message)
			}
			if len(warnings) > 0 {
				return fmt.Errorf("%d warnings", len(warnings))
			}
			return nil
		},
	}
}
