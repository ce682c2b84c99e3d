package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
)

var (
	learnConfidence float64
	sessionID       string
	feedbackUser    string
	feedbackPos     int
	pruneEdges      bool
)

var learnCorrectionCmd = &cobra.Command{
	Use:   "learn-correction <misspelling> <correction>",
	Short: "Record that a misspelling should read as a correction",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		var confidence *float64
		if cmd.Flags().Changed("confidence") {
			confidence = &learnConfidence
		}
		if err := application.Corrections.LearnCorrection(ctx, args[0], args[1], confidence); err != nil {
			return err
		}

		stored, err := application.Corrections.Get(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(stored)
	},
}

var recordInteractionCmd = &cobra.Command{
	Use:   "record-interaction <user-id> <product-id> <view|add_to_cart|purchase|review>",
	Short: "Record a user interaction with a product",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		in := entities.InteractionInput{
			UserID:    args[0],
			ProductID: args[1],
			Kind:      entities.InteractionKind(args[2]),
			ModuleID:  modulePtr(),
		}
		if sessionID != "" {
			in.SessionID = &sessionID
		}
		if err := application.Interactions.Record(ctx, in); err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"recorded": true, "weight": in.Kind.Weight()})
	},
}

var interactionsCmd = &cobra.Command{
	Use:   "interactions <user-id>",
	Short: "List a user's interaction scores, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		rows, err := application.Interactions.History(ctx, args[0], modulePtr())
		if err != nil {
			return err
		}
		return printJSON(rows)
	},
}

var recordFeedbackCmd = &cobra.Command{
	Use:   "record-feedback <product-id> <recommendation-kind> <shown|clicked|purchased|dismissed>",
	Short: "Record what a user did with a recommendation",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		event := &entities.FeedbackEvent{
			ProductID:          args[0],
			RecommendationKind: entities.RecommendationKind(args[1]),
			Action:             entities.FeedbackAction(args[2]),
		}
		if feedbackUser != "" {
			event.UserID = &feedbackUser
		}
		if sessionID != "" {
			event.SessionID = &sessionID
		}
		if feedbackPos > 0 {
			event.Position = &feedbackPos
		}
		if err := application.Feedback.Record(ctx, event); err != nil {
			return err
		}
		return printJSON(event)
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute-similarity",
	Short: "Rebuild co-purchase and collaborative similarity edges once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		summaries, err := application.Similarity.RecomputeAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("recompute similarity: %w", err)
		}
		return printJSON(map[string]interface{}{
			"runs":     summaries,
			"duration": time.Since(start).String(),
		})
	},
}

func init() {
	learnCorrectionCmd.Flags().Float64Var(&learnConfidence, "confidence", entities.DefaultLearnedConfidence, "starting confidence for a new misspelling")
	recordInteractionCmd.Flags().StringVar(&sessionID, "session", "", "session ID")
	recordFeedbackCmd.Flags().StringVar(&sessionID, "session", "", "session ID")
	recordFeedbackCmd.Flags().StringVar(&feedbackUser, "user", "", "user ID")
	recordFeedbackCmd.Flags().IntVar(&feedbackPos, "position", 0, "1-based rank the product was shown at")
	recomputeCmd.Flags().BoolVar(&pruneEdges, "prune", false, "delete edges not refreshed by this run")

	rootCmd.AddCommand(learnCorrectionCmd, recordInteractionCmd, interactionsCmd, recordFeedbackCmd, recomputeCmd)
}
