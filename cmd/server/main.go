package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"idreg/internal/api"
	"idreg/internal/config"
	"idreg/internal/utils"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "idreg-server",
	Short: "Serve the identifier registry console and proxy its API calls",
	Long: `idreg-server serves the console bundle, answers /api/config from its own
configuration and forwards every other /api request to the registry backend.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		logger, closer, err := utils.NewLogger(utils.LogOptions{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			File:   cfg.LogFile,
		})
		if err != nil {
			return err
		}
		defer closer.Close()

		srv, err := api.NewServer(cfg, logger)
		if err != nil {
			logger.WithError(err).Error("failed to initialise server")
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (environment variables override it)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
