package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Subject provides read-only access to a record for rule evaluation.
type Subject struct {
	Record ExperimentRecord
	Domain Domain
	// Entry is the zero value when Domain is DomainUnknown.
	Entry CatalogEntry
	// Text is the lower-cased canonical text of the record.
	Text string
	// ParameterText is the lower-cased concatenation of string parameter values.
	ParameterText string
	Numeric       []NumericParameter
}

// NewSubject derives the normalised views of a record.
func NewSubject(record ExperimentRecord, d Domain, entry CatalogEntry) Subject {
	return Subject{
		Record:        record,
		Domain:        d,
		Entry:         entry,
		Text:          strings.ToLower(record.CanonicalText()),
		ParameterText: strings.ToLower(strings.Join(record.TextParameters(), "\n")),
		Numeric:       record.NumericParameters(),
	}
}

// ScanText is the text searched by plausibility heuristics.
func (s Subject) ScanText() string {
	if s.ParameterText == "" {
		return s.Text
	}
	return s.Text + "\n" + s.ParameterText
}

// Rule defines a single check executed against a subject.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, subject Subject) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rules in evaluation order.
func (e *RulesEngine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate executes all registered rules and aggregates their results. A failing
// or panicking rule does not stop the others; its error is joined into the
// returned error.
func (e *RulesEngine) Evaluate(ctx context.Context, subject Subject) (Result, error) {
	var combined Result
	var errs []error
	for _, rule := range e.rules {
		res, err := evaluateRule(ctx, rule, subject)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rule.Name(), err))
			continue
		}
		combined.Merge(res)
	}
	return combined, errors.Join(errs...)
}

func evaluateRule(ctx context.Context, rule Rule, subject Subject) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rule.Evaluate(ctx, subject)
}

// ScopedTo restricts rule to subjects classified into d.
func ScopedTo(d Domain, rule Rule) Rule {
	return scopedRule{domain: d, rule: rule}
}

type scopedRule struct {
	domain Domain
	rule   Rule
}

func (s scopedRule) Name() string { return s.rule.Name() }

func (s scopedRule) Evaluate(ctx context.Context, subject Subject) (Result, error) {
	if subject.Domain != s.domain {
		return Result{}, nil
	}
	return s.rule.Evaluate(ctx, subject)
}
