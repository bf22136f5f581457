package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chatwire/config"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

var (
	logLevel   = "info"
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "chatwire",
	Short: "Terminal chat client and completion gateway for hosted LLMs",
	Long: `chatwire is two programs in one binary: "serve" runs the completion
gateway that holds the provider credential and talks to the LLM, and "chat"
opens the terminal chat window that talks to a running gateway.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

// loadConfig reads the settings file named by --config, or the default one.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(config.ExpandPath(configPath))
	}
	return config.Load()
}

func main() {
	formatter := new(log.TextFormatter)
	formatter.TimestampFormat = "2006-01-02T15:04:05.999Z07:00"
	formatter.FullTimestamp = true
	log.SetFormatter(formatter)

	rootCmd.AddCommand(
		NewServeCommand(),
		NewChatCommand(),
		NewVersionCommand(),
	)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (trace,debug,info,warn,error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to settings.toml (default "+config.GetSettingsFilePath()+")")

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("could not execute root command")
	}
}
