package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"sakanacore/internal/core"
)

const (
	metricsFormatPrometheus = "prometheus"
	metricsFormatJSON       = "json"
)

// metricsSink collects validator metrics for one invocation and writes them
// out when the command finishes.
type metricsSink struct {
	path   string
	format string
	reg    *prometheus.Registry
	prom   *core.PrometheusMetricsRecorder
	vars   *core.ExpvarMetricsRecorder
}

func newMetricsSink(path, format string) (*metricsSink, error) {
	switch format {
	case metricsFormatPrometheus, metricsFormatJSON:
	default:
		return nil, fmt.Errorf("unknown metrics format %q", format)
	}
	reg := prometheus.NewRegistry()
	prom, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return &metricsSink{
		path:   path,
		format: format,
		reg:    reg,
		prom:   prom,
		vars:   core.NewExpvarMetricsRecorder(""),
	}, nil
}

func (m *metricsSink) recorder() core.MetricsRecorder {
	return core.MultiRecorder{m.prom, m.vars}
}

// flush writes the metrics to the configured path; "-" means stderr.
func (m *metricsSink) flush(stderr io.Writer) error {
	if m.path == "-" {
		return m.write(stderr)
	}
	f, err := os.Create(m.path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	if err := m.write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (m *metricsSink) write(w io.Writer) error {
	if m.format == metricsFormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m.vars.Snapshot())
	}
	families, err := m.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
