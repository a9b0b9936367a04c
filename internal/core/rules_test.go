package core

import (
	"context"
	"testing"

	"sakanacore/pkg/domain"
)

func subjectFor(record domain.ExperimentRecord, d Domain) domain.Subject {
	entry, _ := DefaultCatalog().Entry(d)
	return domain.NewSubject(record, d, entry)
}

func evaluateRule(t *testing.T, rule domain.Rule, subject domain.Subject) []ViolationCode {
	t.Helper()
	res, err := rule.Evaluate(context.Background(), subject)
	if err != nil {
		t.Fatalf("%s: %v", rule.Name(), err)
	}
	return codesOf(res.Violations)
}

func hasCode(codes []ViolationCode, want ViolationCode) bool {
	for _, c := range codes {
		if c == want {
			return true
		}
	}
	return false
}

func TestUniversalRulesOnScenarioB(t *testing.T) {
	subject := subjectFor(scenarioB(), DomainUnknown)
	engine := NewUniversalRulesEngine(DefaultOptions())
	res, err := engine.Evaluate(context.Background(), subject)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	codes := codesOf(res.Violations)
	for _, want := range []ViolationCode{
		domain.CodeMissingEmpiricalEvidence,
		domain.CodeMissingQuantitative,
		domain.CodeRealDataRequired,
		domain.CodePlausibilityTrapRisk,
	} {
		if !hasCode(codes, want) {
			t.Fatalf("expected %s in %v", want, codes)
		}
	}
}

func TestRealDataRuleRespectsOption(t *testing.T) {
	opts := DefaultOptions()
	opts.RealDataMandatory = false
	for _, rule := range NewUniversalRulesEngine(opts).Rules() {
		if rule.Name() == ruleRealData {
			t.Fatalf("real data rule registered while disabled")
		}
	}
	codes := evaluateRule(t, NewRealDataRule(), subjectFor(scenarioA(), DomainChemicalComposition))
	if len(codes) != 0 {
		t.Fatalf("GLENS reference should satisfy real data rule, got %v", codes)
	}
}

func TestParameterMagnitudeRule(t *testing.T) {
	rec := domain.ExperimentRecord{Parameters: map[string]any{
		"mass_tg":         2e10,
		"negative_flux":   -3e11,
		"offset":          0,
		"snr_threshold":   0.0,
		"count":           12,
		"label":           "zero",
		"unit_error_test": 1e10,
	}}
	codes := evaluateRule(t, NewParameterMagnitudeRule(), subjectFor(rec, DomainUnknown))
	want := []ViolationCode{domain.CodeExtremeValue, domain.CodeExtremeValue, domain.CodeZeroValue}
	if len(codes) != len(want) {
		t.Fatalf("expected %v, got %v", want, codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, codes)
		}
	}
}

func TestRequiredEvidenceRule(t *testing.T) {
	rec := domain.ExperimentRecord{FreeText: "particle counts from balloon data"}
	res, err := NewRequiredEvidenceRule().Evaluate(context.Background(), subjectFor(rec, DomainParticleDynamics))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 1 || res.Violations[0].Detail != "size distribution" {
		t.Fatalf("expected missing size distribution, got %+v", res.Violations)
	}
}

func TestDomainConsistencyRuleSeverity(t *testing.T) {
	rec := domain.ExperimentRecord{Parameters: map[string]any{"h2so4_concentration": 85.0, "temperature_k": 250.0}}
	subject := subjectFor(rec, DomainChemicalComposition)
	checker := NewPlausibilityChecker(DefaultBoundaryMargin)

	res, _ := NewDomainConsistencyRule(checker, false).Evaluate(context.Background(), subject)
	if len(res.Violations) != 1 || res.Violations[0].Severity != SeverityWarn {
		t.Fatalf("expected advisory inconsistency, got %+v", res.Violations)
	}
	res, _ = NewDomainConsistencyRule(checker, true).Evaluate(context.Background(), subject)
	if len(res.Violations) != 1 || res.Violations[0].Severity != SeverityBlock {
		t.Fatalf("expected blocking inconsistency, got %+v", res.Violations)
	}
}

func TestPhysicalConstraintsRuleReportsNothing(t *testing.T) {
	codes := evaluateRule(t, NewPhysicalConstraintsRule(), subjectFor(scenarioA(), DomainChemicalComposition))
	if len(codes) != 0 {
		t.Fatalf("expected no findings, got %v", codes)
	}
}

func TestSNRThresholdExactness(t *testing.T) {
	rule := NewSNRThresholdRule()
	cases := []struct {
		value float64
		want  []ViolationCode
	}{
		{-20, []ViolationCode{domain.CodeSignalUndetectable}},
		{-15.54, []ViolationCode{domain.CodeSignalUndetectable}},
		{-15.53, []ViolationCode{domain.CodeSignalBelowMinimum}},
		{-0.01, []ViolationCode{domain.CodeSignalBelowMinimum}},
		{0, nil},
		{12, nil},
	}
	for _, tc := range cases {
		codes := evaluateRule(t, rule, subjectFor(signalRecord("snr", tc.value), DomainSignalDetection))
		if len(codes) != len(tc.want) || (len(codes) == 1 && codes[0] != tc.want[0]) {
			t.Fatalf("snr %v: expected %v, got %v", tc.value, tc.want, codes)
		}
	}
}

func TestSNRThresholdMatchesAliases(t *testing.T) {
	rec := domain.ExperimentRecord{Parameters: map[string]any{
		"signal_to_noise":    -16.0,
		"snr_threshold_db":   -1.0,
		"unrelated_noise_db": -40.0,
	}}
	codes := evaluateRule(t, NewSNRThresholdRule(), subjectFor(rec, DomainSignalDetection))
	if len(codes) != 2 || !hasCode(codes, domain.CodeSignalUndetectable) || !hasCode(codes, domain.CodeSignalBelowMinimum) {
		t.Fatalf("unexpected codes %v", codes)
	}
}

func TestSNRRuleScopedToSignalDetection(t *testing.T) {
	engine := NewDomainRulesEngine(DefaultOptions())
	rec := scenarioA()
	rec.Parameters["snr_db"] = -20.0
	res, err := engine.Evaluate(context.Background(), subjectFor(rec, DomainChemicalComposition))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	codes := codesOf(res.Violations)
	if hasCode(codes, domain.CodeSignalUndetectable) || hasCode(codes, domain.CodeSignalBelowMinimum) {
		t.Fatalf("snr rule fired outside signal detection: %v", codes)
	}
}
