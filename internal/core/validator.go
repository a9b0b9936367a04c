package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"sakanacore/pkg/domain"
)

// Options toggles validator behaviour.
type Options struct {
	// RealDataMandatory enables the REAL_DATA_REQUIRED check.
	RealDataMandatory bool
	// StrictMode keeps advisory findings in Violations. When false they are
	// reported as Warnings and do not affect compliance.
	StrictMode bool
	// BoundaryMargin is the fraction of a range width that triggers near-boundary warnings.
	BoundaryMargin float64
	// ConsistencyBlocking makes DOMAIN_INCONSISTENCY a blocking violation.
	ConsistencyBlocking bool
}

// DefaultOptions returns real-data and strict mode enabled with a 20% margin.
func DefaultOptions() Options {
	return Options{
		RealDataMandatory: true,
		StrictMode:        true,
		BoundaryMargin:    DefaultBoundaryMargin,
	}
}

// Option configures a Validator.
type Option func(*Validator)

// WithOptions replaces the validator options.
func WithOptions(opts Options) Option {
	return func(v *Validator) { v.opts = opts }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(v *Validator) {
		if m != nil {
			v.metrics = m
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t Tracer) Option {
	return func(v *Validator) {
		if t != nil {
			v.tracer = t
		}
	}
}

// WithHistory makes the validator append every result to h.
func WithHistory(h *History) Option {
	return func(v *Validator) { v.history = h }
}

// WithCatalog replaces the constraint catalog.
func WithCatalog(c *Catalog) Option {
	return func(v *Validator) {
		if c != nil {
			v.catalog = c
		}
	}
}

// WithClassifier replaces the domain classifier.
func WithClassifier(c *Classifier) Option {
	return func(v *Validator) {
		if c != nil {
			v.classifier = c
		}
	}
}

// WithDomainRule registers an additional domain rule after the built-in ones.
func WithDomainRule(rule Rule) Option {
	return func(v *Validator) { v.extraRules = append(v.extraRules, rule) }
}

// Validator classifies records and runs the universal and domain rule sets.
// It is safe for concurrent use.
type Validator struct {
	opts        Options
	classifier  *Classifier
	catalog     *Catalog
	universal   *RulesEngine
	domainRules *RulesEngine
	extraRules  []Rule
	history     *History
	logger      *zap.Logger
	metrics     MetricsRecorder
	tracer      Tracer
}

// NewValidator builds a validator with DefaultOptions unless overridden.
func NewValidator(options ...Option) *Validator {
	v := &Validator{
		opts:       DefaultOptions(),
		classifier: NewClassifier(),
		catalog:    DefaultCatalog(),
		logger:     zap.NewNop(),
		metrics:    noopMetrics{},
		tracer:     noopTracer{},
	}
	for _, opt := range options {
		opt(v)
	}
	v.universal = NewUniversalRulesEngine(v.opts)
	v.domainRules = NewDomainRulesEngine(v.opts)
	for _, rule := range v.extraRules {
		v.domainRules.Register(rule)
	}
	return v
}

// Options returns the active options.
func (v *Validator) Options() Options { return v.opts }

// Catalog returns the constraint catalog in use.
func (v *Validator) Catalog() *Catalog { return v.catalog }

// Classifier returns the domain classifier in use.
func (v *Validator) Classifier() *Classifier { return v.classifier }

// History returns the attached history, or nil.
func (v *Validator) History() *History { return v.history }

// UniversalReport is the outcome of the domain-independent checks alone.
type UniversalReport struct {
	Passed     bool
	Violations []Violation
	Warnings   []Violation
}

// ValidateUniversal runs only the domain-independent checks. Passed is true when
// no violation remains after strict-mode filtering.
func (v *Validator) ValidateUniversal(ctx context.Context, record ExperimentRecord) UniversalReport {
	subject := domain.NewSubject(record, DomainUnknown, CatalogEntry{})
	collected := v.runEngine(ctx, v.universal, subject)
	violations, warnings := v.partition(collected.Violations)
	return UniversalReport{
		Passed:     len(violations) == 0,
		Violations: violations,
		Warnings:   warnings,
	}
}

// Validate produces the verdict for one record. It never panics and never
// returns an error: malformed input and rule failures become VALIDATION_ERROR
// violations.
func (v *Validator) Validate(ctx context.Context, record ExperimentRecord) ValidationResult {
	start := time.Now()
	ctx, span := v.tracer.Start(ctx, "validate")
	res := v.evaluate(ctx, record)

	var spanErr error
	if res.HasCode(domain.CodeValidationError) {
		spanErr = errors.New("validation error")
	}
	span.End(spanErr)
	v.metrics.Observe(ctx, "validate", spanErr == nil, time.Since(start))
	v.metrics.ObserveValidation(ctx, res)

	v.logger.Debug("record validated",
		zap.String("record_id", res.RecordID),
		zap.String("domain", string(res.DetectedDomain)),
		zap.Int("violations", len(res.Violations)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Bool("compliant", res.Compliant),
		zap.Float64("score", res.Score),
	)

	if v.history != nil {
		if err := v.history.Append(ctx, res); err != nil {
			v.logger.Warn("history append failed", zap.String("record_id", res.RecordID), zap.Error(err))
		}
	}
	return res
}

func (v *Validator) evaluate(ctx context.Context, record ExperimentRecord) (res ValidationResult) {
	detected := DomainUnknown
	var collected Result
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validation panicked", zap.String("record_id", record.ID), zap.Any("panic", r))
			collected.Add(validationErrorViolation(fmt.Sprintf("internal error: %v", r)))
			res = v.finish(record, detected, collected)
		}
	}()

	if err := checkRecord(record); err != nil {
		collected.Add(validationErrorViolation(err.Error()))
	}

	detected = v.classifier.Classify(record)
	entry, _ := v.catalog.Entry(detected)
	subject := domain.NewSubject(record, detected, entry)

	collected.Merge(v.runEngine(ctx, v.universal, subject))
	if detected == DomainUnknown {
		collected.Add(unknownDomainViolation(record))
	} else {
		collected.Merge(v.runEngine(ctx, v.domainRules, subject))
	}
	return v.finish(record, detected, collected)
}

func (v *Validator) runEngine(ctx context.Context, engine *RulesEngine, subject Subject) Result {
	res, err := engine.Evaluate(ctx, subject)
	if err != nil {
		v.logger.Warn("rule evaluation failed", zap.String("record_id", subject.Record.ID), zap.Error(err))
		res.Add(validationErrorViolation(strings.ReplaceAll(err.Error(), "\n", "; ")))
	}
	return res
}

func (v *Validator) finish(record ExperimentRecord, detected Domain, collected Result) ValidationResult {
	for _, adv := range collected.Advisory() {
		v.logger.Info("advisory finding",
			zap.String("record_id", record.ID),
			zap.String("code", string(adv.Code)),
			zap.String("detail", adv.Detail),
		)
	}
	violations, warnings := v.partition(collected.Violations)
	return ValidationResult{
		RecordID:        record.ID,
		DetectedDomain:  detected,
		Compliant:       len(violations) == 0,
		Score:           ConfidenceScore(collected),
		Violations:      violations,
		Warnings:        warnings,
		Recommendations: Recommendations(detected, violations, warnings),
	}
}

// partition splits findings by strict mode. Violations is never nil.
func (v *Validator) partition(all []Violation) ([]Violation, []Violation) {
	violations := make([]Violation, 0, len(all))
	var warnings []Violation
	for _, viol := range all {
		if v.opts.StrictMode || viol.Blocking() {
			violations = append(violations, viol)
			continue
		}
		warnings = append(warnings, viol)
	}
	return violations, warnings
}

// ConfidenceScore is 1 minus 0.2 per blocking and 0.05 per advisory finding,
// floored at zero.
func ConfidenceScore(res Result) float64 {
	blocking := len(res.Blocking())
	advisory := len(res.Advisory())
	score := 1 - 0.2*float64(blocking) - 0.05*float64(advisory)
	score = math.Round(score*1e6) / 1e6
	return math.Max(0, score)
}

func checkRecord(record ExperimentRecord) error {
	if strings.TrimSpace(record.ID) == "" {
		return domain.ValidationError{Reason: "missing id"}
	}
	for _, name := range sortedParameterNames(record.Parameters) {
		value, ok := domain.NumericValue(record.Parameters[name])
		if ok && !domain.Finite(value) {
			return domain.ValidationError{RecordID: record.ID, Reason: fmt.Sprintf("parameter %s is not a finite number", name)}
		}
	}
	return nil
}

func sortedParameterNames(params map[string]any) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validationErrorViolation(detail string) Violation {
	return Violation{
		Code:     domain.CodeValidationError,
		Detail:   detail,
		Severity: SeverityBlock,
		Rule:     ruleInputValidation,
	}
}

func unknownDomainViolation(record ExperimentRecord) Violation {
	detail := "no domain keywords matched"
	if declared := strings.TrimSpace(record.DeclaredDomain); declared != "" {
		detail = fmt.Sprintf("declared domain %q is not recognised", declared)
	}
	return Violation{
		Code:     domain.CodeUnknownDomain,
		Detail:   detail,
		Severity: SeverityBlock,
		Rule:     ruleClassification,
	}
}
