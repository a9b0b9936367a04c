package core

import "sakanacore/pkg/domain"

var recommendationByCode = map[ViolationCode]string{
	domain.CodeMissingEmpiricalEvidence:  "Include reference to real datasets (e.g. GLENS, CMIP6, ERA5)",
	domain.CodeMissingQuantitative:       "Provide quantitative parameters with units",
	domain.CodeRealDataRequired:          "Ground the experiment in a named real-world dataset such as GLENS, MERRA-2 or SAGE",
	domain.CodeExtremeValue:              "Check parameter units; values above 1e10 usually indicate a unit error",
	domain.CodeZeroValue:                 "Confirm zero-valued parameters are intentional physical quantities",
	domain.CodePlausibilityTrapRisk:      "Balance theoretical sophistication with empirical evidence",
	domain.CodeConservationViolation:     "Remove claims that violate conservation of energy or mass",
	domain.CodeUnrealisticEfficiency:     "Replace idealised efficiency claims with measured or bounded values",
	domain.CodeInstantaneousGlobalEffect: "Describe realistic timescales for global effects",
	domain.CodeParameterNearBoundary:     "Justify parameters close to the edge of their documented range",
	domain.CodeMissingEvidence:           "Add the evidence types required for the detected domain",
	domain.CodeDomainInconsistency:       "Reconcile related parameters so they describe a physically consistent state",
	domain.CodeSignalUndetectable:        "Increase integration time or sensitivity; the signal is below the detectability floor",
	domain.CodeSignalBelowMinimum:        "Raise signal-to-noise above 0 dB before claiming a detection",
	domain.CodeUnknownDomain:             "Describe the experiment with domain-specific terminology or declare its domain",
	domain.CodeValidationError:           "Fix malformed record fields and re-run validation",
}

var outOfRangeByDomain = map[Domain]string{
	DomainChemicalComposition:  "Keep concentrations, temperatures and pressures within stratospheric chemistry ranges",
	DomainParticleDynamics:     "Use particle radii and number densities consistent with observed aerosol size distributions",
	DomainSignalDetection:      "Use SNR, probabilities and bandwidths within instrument-realistic ranges",
	DomainClimateResponse:      "Keep temperature anomalies and forcing within ranges supported by climate model ensembles",
	DomainAtmosphericTransport: "Use injection altitudes and lifetimes consistent with stratospheric transport",
	DomainPolicyGovernance:     "Use costs, timelines and participation figures within documented policy ranges",
}

const outOfRangeFallback = "Bring parameters within their documented physical ranges"

// Recommendations maps the fired violation codes to suggestions, one per code,
// in order of first appearance across violations then warnings.
func Recommendations(d Domain, violations, warnings []Violation) []string {
	out := make([]string, 0)
	seen := make(map[ViolationCode]struct{})
	for _, group := range [][]Violation{violations, warnings} {
		for _, v := range group {
			if _, ok := seen[v.Code]; ok {
				continue
			}
			seen[v.Code] = struct{}{}
			if rec := recommendationFor(d, v.Code); rec != "" {
				out = append(out, rec)
			}
		}
	}
	return out
}

func recommendationFor(d Domain, code ViolationCode) string {
	if code == domain.CodeParameterOutOfRange {
		if rec, ok := outOfRangeByDomain[d]; ok {
			return rec
		}
		return outOfRangeFallback
	}
	return recommendationByCode[code]
}
