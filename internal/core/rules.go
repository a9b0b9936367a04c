package core

import "sakanacore/pkg/domain"

// Rule names reported in Violation.Rule.
const (
	ruleEmpiricalEvidence   = "empirical_evidence"
	ruleQuantitative        = "quantitative_parameters"
	ruleRealData            = "real_data"
	ruleParameterMagnitude  = "parameter_magnitude"
	rulePlausibility        = "plausibility"
	ruleParameterRanges     = "parameter_ranges"
	ruleRequiredEvidence    = "required_evidence"
	ruleDomainConsistency   = "domain_consistency"
	rulePhysicalConstraints = "physical_constraints"
	ruleSNRThreshold        = "snr_threshold"
	ruleClassification      = "classification"
	ruleInputValidation     = "input_validation"
)

// NewUniversalRulesEngine builds the domain-independent checks applied to every record.
func NewUniversalRulesEngine(opts Options) *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewEmpiricalEvidenceRule())
	engine.Register(NewQuantitativeParametersRule())
	if opts.RealDataMandatory {
		engine.Register(NewRealDataRule())
	}
	engine.Register(NewParameterMagnitudeRule())
	engine.Register(NewPlausibilityRule(NewPlausibilityChecker(opts.BoundaryMargin)))
	return engine
}

// NewDomainRulesEngine builds the checks that depend on the detected domain's
// catalog entry. They are only run for recognised domains.
func NewDomainRulesEngine(opts Options) *RulesEngine {
	checker := NewPlausibilityChecker(opts.BoundaryMargin)
	engine := domain.NewRulesEngine()
	engine.Register(NewParameterRangeRule(checker))
	engine.Register(NewRequiredEvidenceRule())
	engine.Register(NewDomainConsistencyRule(checker, opts.ConsistencyBlocking))
	engine.Register(NewPhysicalConstraintsRule())
	engine.Register(domain.ScopedTo(DomainSignalDetection, NewSNRThresholdRule()))
	return engine
}
