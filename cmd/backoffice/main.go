package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fieldworks/backoffice/internal/app"
	"github.com/fieldworks/backoffice/internal/infrastructure/config"
	"github.com/fieldworks/backoffice/pkg/logger"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Field-services back-office API",
	Long:          `Serves filterable, paginated CRUD over jobs, labor, suppliers, staff, orders and the other back-office lists.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		return a.Run(ctx)
	},
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import a YAML fixture file and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		res, err := a.Seed(ctx, seedFile)
		if closeErr := a.Close(ctx); err == nil {
			err = closeErr
		}
		if err != nil {
			return err
		}
		for name, n := range res.Imported {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s imported %d\n", name, n)
		}
		for name, n := range res.Skipped {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s skipped %d\n", name, n)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func bootstrap(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "backoffice",
	})
	return app.New(ctx, cfg, log)
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "fixtures.yaml", "fixture file to import")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
