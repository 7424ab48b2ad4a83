package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"scholarcheck/internal/config"
	"scholarcheck/internal/db"
	"scholarcheck/internal/logger"
	"scholarcheck/internal/report"
	"scholarcheck/internal/workspace"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyse a document and print the report",
	Long: `Analyze extracts text from a .txt, .md, .pdf, .docx or .csv file, runs every
detector over it and prints the decision. The report is stored in the workspace
database and as JSON under reports/ unless --no-save is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		noSave, _ := cmd.Flags().GetBool("no-save")
		return runAnalyze(cmd.Context(), cfg, args[0], asJSON, !noSave, cmd.OutOrStdout())
	},
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "print the full report as JSON")
	analyzeCmd.Flags().Bool("no-save", false, "do not store the report")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(ctx context.Context, cfg *config.Config, path string, asJSON, save bool, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Named("analyze")
	analyzer, err := newAnalyzer(cfg, log)
	if err != nil {
		return err
	}

	rep, err := analyzer.AnalyzeFile(ctx, path)
	if err != nil {
		return err
	}

	if save {
		if err := db.PersistReport(cfg.DBPath, rep); err != nil {
			return err
		}
		if err := report.Save(workspace.ReportPath(cfg.Workspace, rep.ID), rep); err != nil {
			return err
		}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	printReport(out, rep)
	return nil
}

func printReport(out io.Writer, rep *report.AnalysisReport) {
	fmt.Fprintf(out, "Report:    %s\n", rep.ID)
	fmt.Fprintf(out, "File:      %s\n", rep.File)
	fmt.Fprintf(out, "Decision:  %s (final probability %.3f)\n", rep.Decision(), rep.Scores.Final.FinalProbability)
	fmt.Fprintf(out, "Summary:   %s\n", rep.Summary)
	fmt.Fprintf(out, "AI method: %s\n", rep.Scores.AIScore.Metrics.Method)

	if e := rep.Eligibility; e != nil {
		status := "eligible"
		if !e.IsEligible {
			status = "not eligible"
		}
		fmt.Fprintf(out, "Scholarship: %s (integrity %.1f)\n", status, e.IntegrityScore)
		for _, r := range e.Reasons {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}
	if len(rep.Matches) > 0 {
		fmt.Fprintf(out, "Matched sentences: %d\n", len(rep.Matches))
	}
	if rep.ChatbotExplanation != "" {
		fmt.Fprintf(out, "\n%s\n", strings.TrimSpace(rep.ChatbotExplanation))
	}
}
