package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand <query...>",
	Short: "Expand a search-box query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		return printJSON(application.Expansion.Expand(ctx, strings.Join(args, " "), modulePtr()))
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)
}
