// Package main is the scholarcheck CLI: document analysis, the explainer
// chat, the HTTP API and feedback capture.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"scholarcheck/internal/aidetect"
	"scholarcheck/internal/classifier"
	"scholarcheck/internal/config"
	"scholarcheck/internal/logger"
	"scholarcheck/internal/pipeline"
	"scholarcheck/internal/plagiarism"
	"scholarcheck/internal/workspace"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "scholarcheck",
	Short: "Check academic submissions for AI-generated text, plagiarism and citation problems",
	Long: `scholarcheck analyses a submitted document with several independent detectors
(AI-likelihood, generative-model fingerprints, corpus plagiarism, citation density),
combines them into an Accept / Review Needed / Reject decision and explains the
result through a rule-based chat assistant.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := config.New()
		if err := v.BindPFlag("workspace", cmd.Flags().Lookup("workspace")); err != nil {
			return err
		}
		if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
			return err
		}
		cfgFile, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "scholarcheck"})
		if used := v.ConfigFileUsed(); used != "" {
			logger.Get().Debug().Str("file", used).Msg("config loaded")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholarcheck.yaml or ~/.config/scholarcheck/config.yaml)")
	rootCmd.PersistentFlags().String("workspace", "", "workspace directory (default: ~/"+workspace.BaseDirName+")")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
}

// newAnalyzer wires the detectors from cfg and makes sure the workspace exists.
func newAnalyzer(cfg *config.Config, log zerolog.Logger) (*pipeline.Analyzer, error) {
	if _, err := workspace.EnsureAt(cfg.Workspace); err != nil {
		return nil, err
	}
	det := aidetect.New(
		aidetect.Config{ClassifierTimeout: cfg.Classifier.Timeout},
		classifier.New(cfg.Classifier.URL, cfg.Classifier.Timeout),
		logger.Stage(log.With().Str("component", "aidetect").Logger()),
	)
	return pipeline.NewAnalyzer(det, plagiarism.DirCorpus{Dir: cfg.CorpusDir}, cfg.PipelineOptions(), log), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
