package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scholarcheck/internal/explainer"
	"scholarcheck/internal/feedback"
	"scholarcheck/internal/logger"
	"scholarcheck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		log := logger.Named("serve")
		analyzer, err := newAnalyzer(cfg, log)
		if err != nil {
			return err
		}

		sink := feedback.NewAsyncSink(cfg.DBPath, log)
		defer sink.Close()

		srv := server.New(server.Options{
			Addr:           cfg.Server.Addr,
			Workspace:      cfg.Workspace,
			DBPath:         cfg.DBPath,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			MaxUploadBytes: cfg.MaxUploadBytes(),
		}, analyzer, explainer.NewSessions(nil), sink, log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")

	rootCmd.AddCommand(serveCmd)
}
