package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"icsagenda/internal/config"
	appLog "icsagenda/internal/log"
	"icsagenda/internal/render"
)

var (
	flagConfig  string
	flagNoColor bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "icsagenda",
	Short: "Aggregates local iCalendar files into agenda and task lists",
	Long: `icsagenda reads VEVENT/VTODO records from local .ics/.ical files,
expands recurring events over a date window and prints the resulting
agenda and task lists.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.config/icsagenda/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable styled output")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(newAgendaCmd())
	rootCmd.AddCommand(newTodoCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if flagVerbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	path := flagConfig
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(base, "icsagenda", "config.yaml")
	}
	return config.Load(path)
}

func renderOptions(conf *config.Config) render.Options {
	return render.Options{Color: conf.Color && !flagNoColor}
}
