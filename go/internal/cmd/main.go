package main

import (
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/mcdev12/hackclock/go/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "hackclock",
		Short:         "Hackathon deadline countdown",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if it exists
			envErr := godotenv.Load()

			setupLogging(cmd.ErrOrStderr(), opts.logLevel)
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				log.Error().Err(err).Msg("invalid configuration")
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			setupLogging(cmd.ErrOrStderr(), cfg.Log.Level)

			if envErr != nil {
				log.Debug().Err(envErr).Msg("could not load .env file")
			}

			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the config file (default $HACKCLOCK_CONFIG or hackclock.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newWatchCmd(opts),
		newServeCmd(opts),
		newUpdateCmd(opts),
		newDetailsCmd(opts),
		newSubmitCmd(opts),
		newSubmissionsCmd(opts),
		newWinnersCmd(opts),
	)
	return cmd
}

func setupLogging(out io.Writer, level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
