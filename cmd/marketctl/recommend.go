package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	recommendLimit int
	contextualAt   string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Produce product recommendations",
}

var personalizedCmd = &cobra.Command{
	Use:   "personalized <user-id>",
	Short: "Recommendations from a user's recent activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return printJSON(application.Recommendations.GetPersonalized(ctx, args[0], recommendLimit, modulePtr()))
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar <product-id>",
	Short: "Products similar to a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return printJSON(application.Recommendations.GetSimilar(ctx, args[0], recommendLimit))
	},
}

var bundleCmd = &cobra.Command{
	Use:   "bundle <product-id>",
	Short: "Products frequently bought with a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return printJSON(application.Recommendations.GetBundle(ctx, args[0], recommendLimit))
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Products trending over the last day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return printJSON(application.Recommendations.GetTrending(ctx, modulePtr(), recommendLimit))
	},
}

var contextualCmd = &cobra.Command{
	Use:   "contextual",
	Short: "Suggestion for the current time of day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if moduleID < 0 {
			return fmt.Errorf("--module is required")
		}
		at, err := parseAt(contextualAt)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		return printJSON(application.Recommendations.GetContextual(ctx, moduleID, at))
	},
}

// parseAt reads an RFC3339 time or a clock time (15:04) today; empty means
// now.
func parseAt(s string) (time.Time, error) {
	now := time.Now()
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	clock, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: want RFC3339 or HH:MM", s)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
}

func init() {
	recommendCmd.PersistentFlags().IntVarP(&recommendLimit, "limit", "n", 0, "number of results (default 10, max 50)")
	contextualCmd.Flags().StringVar(&contextualAt, "at", "", "time of day to suggest for (RFC3339 or HH:MM)")

	recommendCmd.AddCommand(personalizedCmd, similarCmd, bundleCmd, trendingCmd, contextualCmd)
	rootCmd.AddCommand(recommendCmd)
}
