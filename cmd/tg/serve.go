package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskgraph-dev/tg/internal/config"
	"github.com/taskgraph-dev/tg/internal/httpapi"
	"github.com/taskgraph-dev/tg/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task graph over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(config.LogLevel(), config.LogFile())
		addr := config.HTTPAddr()

		srv := &http.Server{
			Addr:    addr,
			Handler: httpapi.NewServer(mgr, log).Handler(),
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("http server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sigCh:
			log.Info("shutting down http server")
		}

		shutdownCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
