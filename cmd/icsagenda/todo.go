package main

import (
	"github.com/spf13/cobra"

	"icsagenda/internal/agenda"
	"icsagenda/internal/render"
)

func newTodoCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Print the task list",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			_, tasks, _ := agenda.Collect(conf.ModelSources())
			tasks = agenda.FilterTasks(tasks, all || conf.ShowCompleted)

			cmd.Print(render.Tasks(tasks, renderOptions(conf)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include completed tasks")
	return cmd
}
