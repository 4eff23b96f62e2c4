package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JamieCunliffe/rtags/internal/mcp"
	"github.com/JamieCunliffe/rtags/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the indexing daemon with its MCP stdio surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, resources, err := newIndexer(nil)
		if err != nil {
			return err
		}
		defer resources.Close()
		defer ix.Close()

		if len(cfg.WatchDirs) > 0 {
			w, err := watcher.New(ix, cfg.WatchDirs, log)
			if err != nil {
				return err
			}
			defer w.Close()
			log.Info().Strs("dirs", cfg.WatchDirs).Msg("watching")
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		errChan := make(chan error, 1)
		go func() {
			errChan <- mcp.NewServer(ix).Serve(ctx)
		}()

		log.Info().Str("dataDir", cfg.DataDir).Msg("rtagsd serving")

		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			return nil
		case err := <-errChan:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
