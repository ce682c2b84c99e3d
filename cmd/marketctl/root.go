package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zatekoja/Marketplacesearch/internal/app"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/observability"
	"github.com/zatekoja/Marketplacesearch/pkg/config"
)

var (
	moduleID int
	timeout  time.Duration

	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "marketctl",
	Short: "Query expansion and recommendations for the marketplace",
	Long: `marketctl exposes the search and recommendation engine from the command line.
Results are printed to stdout as JSON; logs go to stderr.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		observability.InitLogger(cfg.OTEL.ServiceName+"-cli", cfg.Environment, cfg.LogLevel)
		if pruneEdges {
			cfg.Similarity.Prune = true
		}

		application, err = app.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if application == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return application.Close(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&moduleID, "module", "m", -1, "marketplace module ID (negative means unscoped)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall command timeout")
}

// Execute runs the root command.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

// commandContext bounds a subcommand by --timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// modulePtr returns the --module flag as an optional module ID.
func modulePtr() *int {
	if moduleID < 0 {
		return nil
	}
	id := moduleID
	return &id
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode output")
		return err
	}
	return nil
}
