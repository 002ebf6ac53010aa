// main.go
//
// Entry point for the konnections binary.
//   - serve (default): HTTP puzzle server.
//   - fetch: obtain one day's puzzle through the provider and print it.
//   - play: terminal client against a running server.
//   - check: ask a running server whether a day is already stored.
//
// Startup order: .env → config (defaults, YAML, env) → logging.

package main

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/konnections/internal/config"
)

var (
	configPath string
	cfg        config.Config
	nowFunc    = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "konnections",
	Short: "Daily word-grouping puzzle server and terminal client",
	Long: `Konnections serves one 16-word puzzle per calendar day. A day's puzzle is
generated once on the first request, stored, and served to everyone after.

Running without a subcommand starts the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		setupLogging(cfg.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $KONNECTIONS_CONFIG)")
	rootCmd.AddCommand(serveCmd, fetchCmd, playCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging configures the global zerolog logger: human-readable on a
// terminal, JSON otherwise.
func setupLogging(level string) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.DefaultContextLogger = &log.Logger
}
