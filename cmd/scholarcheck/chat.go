package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"scholarcheck/internal/explainer"
	"scholarcheck/internal/report"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the explainer assistant about a report",
	Long: `Chat starts an interactive session with the explainer assistant on stdin.
Pass --report with a saved report JSON to ask about its scores. Type "exit" to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var analysis *report.AnalysisReport
		if path, _ := cmd.Flags().GetString("report"); path != "" {
			r, err := report.Load(path)
			if err != nil {
				return err
			}
			analysis = r
		}
		return chatLoop(cmd.InOrStdin(), cmd.OutOrStdout(), explainer.NewSessions(nil), analysis)
	},
}

func init() {
	chatCmd.Flags().String("report", "", "saved report JSON to discuss")

	rootCmd.AddCommand(chatCmd)
}

func chatLoop(in io.Reader, out io.Writer, sessions *explainer.Sessions, analysis *report.AnalysisReport) error {
	id := sessions.Attach("", analysis)
	defer sessions.Drop(id)

	fmt.Fprintf(out, "%s\n\n> ", explainer.Greeting())
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		msg := strings.TrimSpace(sc.Text())
		switch strings.ToLower(msg) {
		case "":
			fmt.Fprint(out, "> ")
			continue
		case "exit", "quit":
			return nil
		}
		_, resp := sessions.Chat(id, msg, nil)
		fmt.Fprintf(out, "\n%s\n\n> ", resp.Message)
	}
	return sc.Err()
}
