package cmd

import (
	"log/slog"
	"os"

	"github.com/arko-chat/webuicall/internal/config"
	"github.com/arko-chat/webuicall/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "webuicall",
	Short: "Call host functions from a web UI through a typed bridge",
	Long: `webuicall serves a small calculator UI whose page calls Go functions
through a bridge object, and ships a client for calling the same functions
from the terminal.

Run the demo host:   webuicall serve
List its functions:  webuicall functions --url http://127.0.0.1:8080
Call one:            webuicall call add2 --json '{"x":2,"y":3}' --url ...`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
}

func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat), nil
}

// clientLogger is for commands that talk to a running host and should
// stay quiet unless asked.
func clientLogger() *slog.Logger {
	level := logLevel
	if level == "" {
		level = "warn"
	}
	return logger.New(os.Stderr, level, "text")
}
