// Package domain defines the experiment records, violation model, and rule
// evaluation primitives used by sakanacore.
package domain

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// Domain identifies the scientific sub-field an experiment is validated against.
type Domain string

// Supported domains. Every domain except DomainUnknown owns one catalog entry.
const (
	DomainChemicalComposition  Domain = "chemical_composition"
	DomainParticleDynamics     Domain = "particle_dynamics"
	DomainSignalDetection      Domain = "signal_detection"
	DomainClimateResponse      Domain = "climate_response"
	DomainAtmosphericTransport Domain = "atmospheric_transport"
	DomainPolicyGovernance     Domain = "policy_governance"
	// DomainUnknown is assigned when no domain keyword matches.
	DomainUnknown Domain = "unknown"
)

var declaredDomains = []Domain{
	DomainChemicalComposition,
	DomainParticleDynamics,
	DomainSignalDetection,
	DomainClimateResponse,
	DomainAtmosphericTransport,
	DomainPolicyGovernance,
}

// Domains returns the classifiable domains in declaration order. The order is
// also the classifier's tie-break priority.
func Domains() []Domain {
	out := make([]Domain, len(declaredDomains))
	copy(out, declaredDomains)
	return out
}

// Known reports whether d is one of the classifiable domains.
func (d Domain) Known() bool {
	for _, candidate := range declaredDomains {
		if d == candidate {
			return true
		}
	}
	return false
}

// ParseDomain normalises a domain name. Unrecognised names map to DomainUnknown
// with ok=false.
func ParseDomain(name string) (Domain, bool) {
	d := Domain(strings.ToLower(strings.TrimSpace(name)))
	if d.Known() {
		return d, true
	}
	return DomainUnknown, false
}

// ExperimentRecord is the unit under validation.
type ExperimentRecord struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Methodology string `json:"methodology,omitempty" yaml:"methodology,omitempty"`
	Objectives  string `json:"objectives,omitempty" yaml:"objectives,omitempty"`
	FreeText    string `json:"free_text,omitempty" yaml:"free_text,omitempty"`
	// Parameters maps free-form names to numbers, strings, or booleans.
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	// DeclaredDomain optionally pins the domain instead of inferring it.
	DeclaredDomain string `json:"domain,omitempty" yaml:"domain,omitempty"`
}

// CanonicalText joins the descriptive fields in a fixed order. Parameter names
// and other structural fields never leak into the text used for keyword matching.
func (r ExperimentRecord) CanonicalText() string {
	fields := []string{r.Title, r.Description, r.Methodology, r.Objectives, r.FreeText}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if s := strings.TrimSpace(f); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// NumericParameter is a parameter whose value is numeric.
type NumericParameter struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// NumericParameters returns the numeric parameters sorted by name. Strings and
// booleans are skipped; numeric-looking strings are not coerced.
func (r ExperimentRecord) NumericParameters() []NumericParameter {
	out := make([]NumericParameter, 0, len(r.Parameters))
	for _, name := range sortedKeys(r.Parameters) {
		if v, ok := NumericValue(r.Parameters[name]); ok {
			out = append(out, NumericParameter{Name: name, Value: v})
		}
	}
	return out
}

// TextParameters returns the string parameter values sorted by parameter name.
func (r ExperimentRecord) TextParameters() []string {
	var out []string
	for _, name := range sortedKeys(r.Parameters) {
		if s, ok := r.Parameters[name].(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// NumericValue converts the numeric kinds produced by JSON and YAML decoding.
func NumericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine compliance and logging.
const (
	// SeverityBlock fails validation.
	SeverityBlock Severity = "block"
	// SeverityWarn is advisory; in strict mode it still appears as a violation.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// ViolationCode classifies a violation so callers can branch on it.
type ViolationCode string

// Violation codes emitted by the built-in rules.
const (
	CodeMissingEmpiricalEvidence  ViolationCode = "MISSING_EMPIRICAL_EVIDENCE"
	CodeMissingQuantitative       ViolationCode = "MISSING_QUANTITATIVE_PARAMETERS"
	CodeRealDataRequired          ViolationCode = "REAL_DATA_REQUIRED"
	CodeExtremeValue              ViolationCode = "EXTREME_VALUE"
	CodeZeroValue                 ViolationCode = "ZERO_VALUE"
	CodePlausibilityTrapRisk      ViolationCode = "PLAUSIBILITY_TRAP_RISK"
	CodeConservationViolation     ViolationCode = "CONSERVATION_VIOLATION"
	CodeUnrealisticEfficiency     ViolationCode = "UNREALISTIC_EFFICIENCY"
	CodeInstantaneousGlobalEffect ViolationCode = "INSTANTANEOUS_GLOBAL_EFFECT"
	CodeParameterOutOfRange       ViolationCode = "PARAMETER_OUT_OF_RANGE"
	CodeParameterNearBoundary     ViolationCode = "PARAMETER_NEAR_BOUNDARY"
	CodeMissingEvidence           ViolationCode = "MISSING_EVIDENCE"
	CodeDomainInconsistency       ViolationCode = "DOMAIN_INCONSISTENCY"
	CodeSignalUndetectable        ViolationCode = "SIGNAL_UNDETECTABLE"
	CodeSignalBelowMinimum        ViolationCode = "SIGNAL_BELOW_MINIMUM"
	CodeUnknownDomain             ViolationCode = "UNKNOWN_DOMAIN"
	CodeValidationError           ViolationCode = "VALIDATION_ERROR"
)

// Violation reports a failed check.
type Violation struct {
	Code     ViolationCode `json:"code"`
	Detail   string        `json:"detail,omitempty"`
	Severity Severity      `json:"severity"`
	Rule     string        `json:"rule,omitempty"`
}

// String renders the violation as CODE or CODE: detail.
func (v Violation) String() string {
	if v.Detail == "" {
		return string(v.Code)
	}
	return string(v.Code) + ": " + v.Detail
}

// Blocking reports whether the violation fails validation on its own.
func (v Violation) Blocking() bool {
	return v.Severity == SeverityBlock
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// Add appends a single violation.
func (r *Result) Add(v Violation) {
	r.Violations = append(r.Violations, v)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Blocking() {
			return true
		}
	}
	return false
}

// Blocking returns the blocking violations in order.
func (r Result) Blocking() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Blocking() {
			out = append(out, v)
		}
	}
	return out
}

// Advisory returns the non-blocking violations in order.
func (r Result) Advisory() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if !v.Blocking() {
			out = append(out, v)
		}
	}
	return out
}

// ValidationResult is the immutable outcome of validating one record.
type ValidationResult struct {
	RecordID       string      `json:"record_id"`
	DetectedDomain Domain      `json:"detected_domain"`
	Compliant      bool        `json:"compliant"`
	Score          float64     `json:"score"`
	Violations     []Violation `json:"violations"`
	// Warnings holds advisory findings kept out of Violations when strict mode is off.
	Warnings        []Violation `json:"warnings,omitempty"`
	Recommendations []string    `json:"recommendations"`
}

// HasCode reports whether any violation carries code.
func (r ValidationResult) HasCode(code ViolationCode) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the violation codes in order, including duplicates.
func (r ValidationResult) Codes() []ViolationCode {
	out := make([]ViolationCode, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, v.Code)
	}
	return out
}

// Clone returns a deep copy so stored results cannot be mutated through shared slices.
func (r ValidationResult) Clone() ValidationResult {
	cp := r
	cp.Violations = cloneViolations(r.Violations)
	cp.Warnings = cloneViolations(r.Warnings)
	if r.Recommendations != nil {
		cp.Recommendations = append(make([]string, 0, len(r.Recommendations)), r.Recommendations...)
	}
	return cp
}

func cloneViolations(in []Violation) []Violation {
	if in == nil {
		return nil
	}
	return append(make([]Violation, 0, len(in)), in...)
}

// ValidationError describes malformed input detected before rule evaluation.
type ValidationError struct {
	RecordID string
	Reason   string
}

func (e ValidationError) Error() string {
	if e.RecordID == "" {
		return "invalid record: " + e.Reason
	}
	return "invalid record " + e.RecordID + ": " + e.Reason
}
