package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/iwvelando/shelter-proposal/internal/config"
	"github.com/iwvelando/shelter-proposal/internal/logging"
	"github.com/iwvelando/shelter-proposal/internal/recompute"
	"github.com/iwvelando/shelter-proposal/pkg/adapters"
	"github.com/iwvelando/shelter-proposal/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
	out        io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{out: out}

	rootCmd := &cobra.Command{
		Use:           "shelter-proposal",
		Short:         "Interactive dog shelter grant proposal",
		Long:          "Recompute the budget, donation impact and revenue plan of the dog shelter proposal.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		fmt.Sprintf("path to proposal configuration file (default %s if present, otherwise the built-in proposal)", constants.DefaultConfigFile))
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	report := newReportCmd(opts)
	rootCmd.RunE = report.RunE
	rootCmd.Flags().AddFlagSet(report.Flags())

	rootCmd.AddCommand(report, newServeCmd(opts), newTUICmd(opts), newValidateCmd(opts))
	return rootCmd
}

// resolveConfigPath returns the proposal file to load. An empty result
// selects the embedded default.
func (o *rootOptions) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	_, err := os.Stat(constants.DefaultConfigFile)
	switch {
	case err == nil:
		return constants.DefaultConfigFile, nil
	case errors.Is(err, fs.ErrNotExist):
		return "", nil
	}
	return "", fmt.Errorf("failed to stat %s: %w", constants.DefaultConfigFile, err)
}

// load reads the proposal and builds its logger and model.
func (o *rootOptions) load() (*config.Loader, *config.Configuration, *zap.Logger, recompute.Model, error) {
	path, err := o.resolveConfigPath()
	if err != nil {
		return nil, nil, nil, recompute.Model{}, err
	}

	loader := config.NewLoader(path)
	conf, err := loader.Load()
	if err != nil {
		return nil, nil, nil, recompute.Model{}, fmt.Errorf("failed to load configuration at %q: %w", path, err)
	}

	logger, err := logging.New(conf.Logging, o.logLevel)
	if err != nil {
		return nil, nil, nil, recompute.Model{}, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	model, err := adapters.ModelFromConfig(conf)
	if err != nil {
		return nil, nil, nil, recompute.Model{}, err
	}
	return loader, conf, logger, model, nil
}
