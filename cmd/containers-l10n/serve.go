package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	containers "github.com/goliatone/go-cms-containers"
	"github.com/goliatone/go-cms-containers/internal/logging"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the localization endpoints",
		Example: `  containers-l10n serve --config containers.yaml
  CONTAINERS_UPSTREAM__URL=https://cms.local/typo3/ajax/records/localize/summary containers-l10n serve`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "listen address")
	cmd.Flags().String("base-path", "", "route prefix")
	cmd.Flags().String("upstream-url", "", "host localization summary endpoint")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	module, err := containers.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	logger := logging.HTTPLogger(module.Container().LoggerProvider())
	server := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           module.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http.server.start", "address", cfg.HTTP.Address, "base_path", cfg.HTTP.BasePath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("http.server.stop")
	return server.Shutdown(shutdownCtx)
}
