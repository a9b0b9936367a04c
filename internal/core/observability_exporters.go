package core

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var expvarSeq uint64

// ExpvarMetricsRecorder publishes aggregate timings, operation outcomes and
// validation tallies via expvar.
type ExpvarMetricsRecorder struct {
	name       string
	mu         sync.Mutex
	durations  map[string]float64
	results    map[string]map[string]int64
	domains    map[string]map[string]int64
	violations map[string]int64
}

// ExpvarMetricsSnapshot captures a read-only view of the recorded metrics.
type ExpvarMetricsSnapshot struct {
	DurationsMS map[string]float64          `json:"durations_ms_total"`
	Results     map[string]map[string]int64 `json:"results_total"`
	// Domains counts validations per detected domain, split by compliance.
	Domains    map[string]map[string]int64 `json:"validations_total"`
	Violations map[string]int64            `json:"violations_total"`
	RecordedAt time.Time                   `json:"recorded_at"`
}

// NewExpvarMetricsRecorder constructs an expvar-backed recorder and publishes it
// under the supplied name. When name is empty, a unique identifier is generated.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("sakana_validator_metrics_%d", id)
	}
	rec := &ExpvarMetricsRecorder{
		name:       name,
		durations:  make(map[string]float64),
		results:    make(map[string]map[string]int64),
		domains:    make(map[string]map[string]int64),
		violations: make(map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarMetricsRecorder) Name() string {
	return r.name
}

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	durations := make(map[string]float64, len(r.durations))
	for op, total := range r.durations {
		durations[op] = total
	}
	violations := make(map[string]int64, len(r.violations))
	for code, count := range r.violations {
		violations[code] = count
	}

	return ExpvarMetricsSnapshot{
		DurationsMS: durations,
		Results:     copyNested(r.results),
		Domains:     copyNested(r.domains),
		Violations:  violations,
		RecordedAt:  time.Now().UTC(),
	}
}

func copyNested(in map[string]map[string]int64) map[string]map[string]int64 {
	out := make(map[string]map[string]int64, len(in))
	for key, counts := range in {
		cpy := make(map[string]int64, len(counts))
		for status, count := range counts {
			cpy[status] = count
		}
		out[key] = cpy
	}
	return out
}

// Observe records an operation outcome.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	ms := float64(duration) / float64(time.Millisecond)
	status := "error"
	if success {
		status = "success"
	}

	r.mu.Lock()
	r.durations[operation] += ms
	if _, ok := r.results[operation]; !ok {
		r.results[operation] = make(map[string]int64, 2)
	}
	r.results[operation][status]++
	r.mu.Unlock()
}

// ObserveValidation tallies the domain, compliance and violation codes of result.
func (r *ExpvarMetricsRecorder) ObserveValidation(_ context.Context, result ValidationResult) {
	key := string(result.DetectedDomain)
	status := "non_compliant"
	if result.Compliant {
		status = "compliant"
	}

	r.mu.Lock()
	if _, ok := r.domains[key]; !ok {
		r.domains[key] = make(map[string]int64, 2)
	}
	r.domains[key][status]++
	for _, v := range result.Violations {
		r.violations[string(v.Code)]++
	}
	r.mu.Unlock()
}

// PrometheusMetricsRecorder exports validator metrics as Prometheus collectors.
type PrometheusMetricsRecorder struct {
	operations  *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	validations *prometheus.CounterVec
	violations  *prometheus.CounterVec
	scores      prometheus.Histogram
}

// NewPrometheusMetricsRecorder registers the validator collectors with reg, or
// with the default registerer when reg is nil. Collectors that are already
// registered are reused.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rec := &PrometheusMetricsRecorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sakana",
			Name:      "operations_total",
			Help:      "Validator operations by outcome.",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sakana",
			Name:      "operation_duration_seconds",
			Help:      "Validator operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sakana",
			Name:      "validations_total",
			Help:      "Validated records by detected domain and compliance.",
		}, []string{"domain", "compliant"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sakana",
			Name:      "violations_total",
			Help:      "Reported violations by code and severity.",
		}, []string{"code", "severity"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sakana",
			Name:      "validation_score",
			Help:      "Distribution of validation confidence scores.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}

	var err error
	if rec.operations, err = registerOrReuse(reg, rec.operations); err != nil {
		return nil, err
	}
	if rec.durations, err = registerOrReuse(reg, rec.durations); err != nil {
		return nil, err
	}
	if rec.validations, err = registerOrReuse(reg, rec.validations); err != nil {
		return nil, err
	}
	if rec.violations, err = registerOrReuse(reg, rec.violations); err != nil {
		return nil, err
	}
	if rec.scores, err = registerOrReuse(reg, rec.scores); err != nil {
		return nil, err
	}
	return rec, nil
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.operations.WithLabelValues(operation, status).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveValidation implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) ObserveValidation(_ context.Context, result ValidationResult) {
	r.validations.WithLabelValues(string(result.DetectedDomain), strconv.FormatBool(result.Compliant)).Inc()
	for _, v := range result.Violations {
		r.violations.WithLabelValues(string(v.Code), string(v.Severity)).Inc()
	}
	for _, v := range result.Warnings {
		r.violations.WithLabelValues(string(v.Code), string(v.Severity)).Inc()
	}
	r.scores.Observe(result.Score)
}

// JSONTraceEntry represents a serialized trace span emitted by JSONTraceTracer.
type JSONTraceEntry struct {
	Operation  string    `json:"operation"`
	Status     string    `json:"status"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// JSONTraceTracer serializes spans to a writer and retains them for inspection.
type JSONTraceTracer struct {
	mu      sync.Mutex
	entries []JSONTraceEntry
	enc     *json.Encoder
}

// NewJSONTracer constructs a tracer that writes spans as JSON lines to the writer.
func NewJSONTracer(w io.Writer) *JSONTraceTracer {
	var enc *json.Encoder
	if w != nil {
		enc = json.NewEncoder(w)
	}
	return &JSONTraceTracer{
		enc: enc,
	}
}

// Entries returns a copy of all recorded spans.
func (t *JSONTraceTracer) Entries() []JSONTraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]JSONTraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Start implements the Tracer interface.
func (t *JSONTraceTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	span := &jsonTraceSpan{
		tracer:    t,
		operation: operation,
		started:   time.Now().UTC(),
	}
	return ctx, span
}

type jsonTraceSpan struct {
	tracer    *JSONTraceTracer
	operation string
	started   time.Time
}

func (s *jsonTraceSpan) End(err error) {
	status := "success"
	var errMsg string
	if err != nil {
		status = "error"
		errMsg = err.Error()
	}
	ended := time.Now().UTC()
	entry := JSONTraceEntry{
		Operation:  s.operation,
		Status:     status,
		DurationMS: float64(ended.Sub(s.started)) / float64(time.Millisecond),
		Error:      errMsg,
		StartedAt:  s.started,
		EndedAt:    ended,
	}

	s.tracer.mu.Lock()
	s.tracer.entries = append(s.tracer.entries, entry)
	if s.tracer.enc != nil {
		_ = s.tracer.enc.Encode(entry)
	}
	s.tracer.mu.Unlock()
}
