package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scholarcheck/internal/feedback"
	"scholarcheck/internal/logger"
	"scholarcheck/internal/workspace"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <file>",
	Short: "Record whether an analysis result was accurate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accurate, _ := cmd.Flags().GetBool("accurate")
		comments, _ := cmd.Flags().GetString("comments")

		if _, err := workspace.EnsureAt(cfg.Workspace); err != nil {
			return err
		}
		sink := feedback.NewAsyncSink(cfg.DBPath, logger.Named("feedback"))
		err := sink.Submit(feedback.Feedback{Filename: args[0], IsAccurate: accurate, Comments: comments})
		sink.Close()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), feedback.Received)
		return nil
	},
}

func init() {
	feedbackCmd.Flags().Bool("accurate", false, "the analysis was accurate")
	feedbackCmd.Flags().String("comments", "", "free-form comments")

	rootCmd.AddCommand(feedbackCmd)
}
