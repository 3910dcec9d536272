package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mj1618/stepcast/internal/config"
	"github.com/mj1618/stepcast/internal/logging"
	"github.com/mj1618/stepcast/internal/output"
	"github.com/mj1618/stepcast/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stepcast",
	Short: "Record clicks and typing as illustrated tutorial steps",
	Long: `stepcast watches global mouse and keyboard input and turns every click and
every typed phrase into a tutorial step: the UI element that was used, an
annotated screenshot around it and a short instruction.`,
	SilenceUsage: true,
}

// Set by the root PersistentPreRunE before any subcommand runs.
var (
	appConfig *config.Config
	logger    *slog.Logger
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./.stepcast.yaml, then ~/.config/stepcast/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override log level: debug, info, warn, error")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		path, _ := rootCmd.PersistentFlags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if lvl, _ := rootCmd.PersistentFlags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}

		log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return err
		}
		appConfig, logger = cfg, log
		if cfg.ConfigFile != "" {
			logger.Debug("loaded config", "path", cfg.ConfigFile)
		}
		return nil
	}
}
