package core

import "sakanacore/pkg/domain"

type (
	Domain           = domain.Domain
	ExperimentRecord = domain.ExperimentRecord
	NumericParameter = domain.NumericParameter
	Severity         = domain.Severity
	ViolationCode    = domain.ViolationCode
	Violation        = domain.Violation
	Result           = domain.Result
	ValidationResult = domain.ValidationResult
	CatalogEntry     = domain.CatalogEntry
	ParameterRange   = domain.ParameterRange
	Subject          = domain.Subject
	Rule             = domain.Rule
	RulesEngine      = domain.RulesEngine
	HistoryStore     = domain.HistoryStore
)

const (
	DomainChemicalComposition  = domain.DomainChemicalComposition
	DomainParticleDynamics     = domain.DomainParticleDynamics
	DomainSignalDetection      = domain.DomainSignalDetection
	DomainClimateResponse      = domain.DomainClimateResponse
	DomainAtmosphericTransport = domain.DomainAtmosphericTransport
	DomainPolicyGovernance     = domain.DomainPolicyGovernance
	DomainUnknown              = domain.DomainUnknown
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)
