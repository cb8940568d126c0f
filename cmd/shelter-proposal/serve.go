package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/shelter-proposal/internal/config"
	"github.com/iwvelando/shelter-proposal/internal/logging"
	"github.com/iwvelando/shelter-proposal/internal/server"
	"github.com/iwvelando/shelter-proposal/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	*rootOptions
	serverConfig string
	address      string
	watch        bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive proposal web UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	cmd.Flags().StringVar(&opts.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&opts.address, "address", "", "listen address override")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the proposal configuration when the file changes")
	return cmd
}

func (o *serveOptions) run(cmd *cobra.Command) error {
	serverConf, err := server.LoadConfig(o.serverConfig)
	if err != nil {
		return err
	}
	if o.address != "" {
		serverConf.Address = o.address
	}
	if o.configPath == "" && serverConf.Proposal != "" {
		o.configPath = serverConf.ProposalPath()
	}
	watch := o.watch || serverConf.Watch

	path, err := o.resolveConfigPath()
	if err != nil {
		return err
	}
	loader := config.NewLoader(path)
	conf, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration at %q: %w", path, err)
	}

	// The server's logging block wins over the proposal's.
	loggingConf := conf.Logging
	if serverConf.Logging != (config.LoggingConfig{}) {
		loggingConf = serverConf.Logging
	}
	logger, err := logging.New(loggingConf, o.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	handler, err := server.NewHandler(logger, conf, serverConf.BodySizeBytes(), version)
	if err != nil {
		return err
	}

	if watch {
		err := loader.Watch(logger, func(updated *config.Configuration) {
			if err := handler.Update(updated); err != nil {
				logger.Warn("keeping previous proposal",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
			}
		})
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving proposal",
			zap.String("op", "main.serve"),
			zap.String("address", srv.Addr),
			zap.String("proposal", loader.Path()),
			zap.Bool("watch", watch),
		)
		errCh <- srv.ListenAndServe()
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
	logger.Info("shutting down", zap.String("op", "main.serve"))
	return srv.Shutdown(shutdownCtx)
}
