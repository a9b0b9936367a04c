package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sakanacore/internal/config"
	"sakanacore/internal/core"
	"sakanacore/internal/logging"
)

// app carries per-invocation state shared by the subcommands.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	configPath string
	verbose    bool
	trace      bool
	realData   bool
	strict     bool

	metricsPath   string
	metricsFormat string
	metrics       *metricsSink

	cfg     config.Config
	logger  *zap.Logger
	store   core.HistoryStore
	history *core.History
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "sakana",
		Short:         "Validate experiment records against empirical grounding rules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "sakana.yaml", "path to the YAML configuration file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&a.trace, "trace", false, "write JSON trace spans to stderr")
	pf.BoolVar(&a.realData, "real-data", true, "require references to named real datasets")
	pf.BoolVar(&a.strict, "strict", true, "treat advisory findings as violations")
	pf.StringVar(&a.metricsPath, "metrics", "", "write validator metrics to this file when done (- for stderr)")
	pf.StringVar(&a.metricsFormat, "metrics-format", metricsFormatPrometheus, "metrics output format: prometheus or json")

	root.AddCommand(
		newValidateCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newCatalogCmd(a),
		newEnhanceCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("real-data") {
		cfg.Validation.RealDataMandatory = a.realData
	}
	if flags.Changed("strict") {
		cfg.Validation.StrictMode = a.strict
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.New(cfg.Logging, a.stderr)
	if err != nil {
		return err
	}
	if a.metricsPath != "" {
		sink, err := newMetricsSink(a.metricsPath, a.metricsFormat)
		if err != nil {
			return err
		}
		a.metrics = sink
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("configuration loaded", zap.String("path", a.configPath))
	return nil
}

// openHistory opens the configured store once per invocation.
func (a *app) openHistory(ctx context.Context) (*core.History, error) {
	if a.history != nil {
		return a.history, nil
	}
	store, err := core.OpenHistoryStore(ctx, a.cfg.HistoryStoreConfig())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	h, err := core.LoadHistory(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	a.store, a.history = store, h
	return h, nil
}

func (a *app) newValidator(h *core.History) *core.Validator {
	opts := []core.Option{
		core.WithOptions(a.cfg.ValidatorOptions()),
		core.WithLogger(logging.Component(a.logger, "validator")),
	}
	if h != nil {
		opts = append(opts, core.WithHistory(h))
	}
	if a.trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(a.stderr)))
	}
	if a.metrics != nil {
		opts = append(opts, core.WithMetrics(a.metrics.recorder()))
	}
	return core.NewValidator(opts...)
}

func (a *app) close() {
	if a.metrics != nil {
		if err := a.metrics.flush(a.stderr); err != nil && a.logger != nil {
			a.logger.Warn("write metrics", zap.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.logger != nil {
			a.logger.Warn("close history store", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
