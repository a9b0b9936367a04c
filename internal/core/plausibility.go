package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sakanacore/pkg/domain"
)

// DefaultBoundaryMargin is the fraction of a range's width treated as "near" an end.
const DefaultBoundaryMargin = 0.2

// Consistency constants for cross-parameter checks.
const (
	AcidConcentrationLimitPercent  = 80.0
	StratosphericTemperatureLimitK = 240.0
	ClimateSensitivityKPerWm2      = 0.8
	ClimateResponseToleranceK      = 2.0
	// TrapSophisticationThreshold is the count of sophistication terms above
	// which a record without empirical terms is flagged.
	TrapSophisticationThreshold = 2
)

var sophisticationTerms = []string{
	"novel", "elegant", "sophisticated", "breakthrough", "revolutionary",
	"paradigm", "groundbreaking", "unprecedented", "transformative", "profound",
}

var empiricalTerms = []string{
	"data", "measurement", "measured", "observation", "observed",
	"experiment", "dataset", "sample", "statistical", "empirical",
}

var efficiencyClaims = []string{
	"100% efficient", "100% efficiency", "perfect efficiency", "zero loss", "lossless", "infinite",
}

var conservationClaims = []string{
	"perpetual motion", "energy creation", "creates energy from nothing", "free energy", "violates conservation",
}

// PlausibilityChecker detects out-of-range parameters, implausible claims and
// cross-parameter inconsistencies.
type PlausibilityChecker struct {
	margin float64
}

// NewPlausibilityChecker returns a checker using margin for near-boundary
// warnings. A non-positive margin disables them.
func NewPlausibilityChecker(margin float64) PlausibilityChecker {
	return PlausibilityChecker{margin: margin}
}

// Margin returns the configured boundary margin.
func (p PlausibilityChecker) Margin() float64 { return p.margin }

// CheckParameterRanges matches each finite parameter against the first range of
// entry whose key fragments occur in its name.
func (p PlausibilityChecker) CheckParameterRanges(params []NumericParameter, entry CatalogEntry) []Violation {
	var out []Violation
	for _, param := range params {
		if !domain.Finite(param.Value) {
			continue
		}
		r, ok := entry.MatchRange(param.Name)
		if !ok {
			continue
		}
		switch {
		case !r.Contains(param.Value):
			out = append(out, Violation{
				Code:     domain.CodeParameterOutOfRange,
				Detail:   fmt.Sprintf("%s=%s outside [%s, %s]", param.Name, formatFloat(param.Value), formatFloat(r.Min), formatFloat(r.Max)),
				Severity: SeverityBlock,
				Rule:     ruleParameterRanges,
			})
		case r.NearBoundary(param.Value, p.margin):
			out = append(out, Violation{
				Code:     domain.CodeParameterNearBoundary,
				Detail:   fmt.Sprintf("%s=%s near edge of [%s, %s]", param.Name, formatFloat(param.Value), formatFloat(r.Min), formatFloat(r.Max)),
				Severity: SeverityWarn,
				Rule:     ruleParameterRanges,
			})
		}
	}
	return out
}

// CheckPlausibilityTrap flags text dense with sophistication language that
// never mentions empirical grounding.
func (p PlausibilityChecker) CheckPlausibilityTrap(text string) []Violation {
	lower := strings.ToLower(text)
	sophistication := countTerms(lower, sophisticationTerms)
	if sophistication <= TrapSophisticationThreshold || countTerms(lower, empiricalTerms) > 0 {
		return nil
	}
	return []Violation{{
		Code:     domain.CodePlausibilityTrapRisk,
		Detail:   fmt.Sprintf("%d sophistication terms without empirical grounding", sophistication),
		Severity: SeverityBlock,
		Rule:     rulePlausibility,
	}}
}

// CheckPlausibilityPatterns flags claims that contradict basic physics.
func (p PlausibilityChecker) CheckPlausibilityPatterns(text string) []Violation {
	lower := strings.ToLower(text)
	var out []Violation
	if phrase, ok := firstContained(lower, efficiencyClaims); ok {
		out = append(out, Violation{
			Code:     domain.CodeUnrealisticEfficiency,
			Detail:   fmt.Sprintf("claim %q", phrase),
			Severity: SeverityWarn,
			Rule:     rulePlausibility,
		})
	}
	if phrase, ok := firstContained(lower, conservationClaims); ok {
		out = append(out, Violation{
			Code:     domain.CodeConservationViolation,
			Detail:   fmt.Sprintf("claim %q", phrase),
			Severity: SeverityBlock,
			Rule:     rulePlausibility,
		})
	}
	if strings.Contains(lower, "global") && strings.Contains(lower, "instantaneous") {
		out = append(out, Violation{
			Code:     domain.CodeInstantaneousGlobalEffect,
			Detail:   "global effect claimed to be instantaneous",
			Severity: SeverityWarn,
			Rule:     rulePlausibility,
		})
	}
	return out
}

// CheckDomainConsistency reports whether related parameters agree with each
// other. Domains without a consistency relation are always consistent.
func (p PlausibilityChecker) CheckDomainConsistency(params []NumericParameter, d Domain) (bool, string) {
	switch d {
	case DomainChemicalComposition:
		conc, okConc := findParameter(params, "concentration", "acid")
		temp, okTemp := findParameter(params, "temperature", "temp")
		if okConc && okTemp && conc.Value > AcidConcentrationLimitPercent && temp.Value > StratosphericTemperatureLimitK {
			return false, fmt.Sprintf("%s=%s with %s=%s is not a stable stratospheric state",
				conc.Name, formatFloat(conc.Value), temp.Name, formatFloat(temp.Value))
		}
	case DomainClimateResponse:
		dt, okT := findParameter(params, "temperature")
		forcing, okF := findParameter(params, "forcing")
		if okT && okF {
			expected := ClimateSensitivityKPerWm2 * forcing.Value
			if math.Abs(dt.Value-expected) > ClimateResponseToleranceK {
				return false, fmt.Sprintf("%s=%s differs from %s K expected for %s=%s",
					dt.Name, formatFloat(dt.Value), formatFloat(expected), forcing.Name, formatFloat(forcing.Value))
			}
		}
	}
	return true, ""
}

func findParameter(params []NumericParameter, fragments ...string) (NumericParameter, bool) {
	for _, param := range params {
		if !domain.Finite(param.Value) {
			continue
		}
		name := strings.ToLower(param.Name)
		for _, frag := range fragments {
			if strings.Contains(name, frag) {
				return param, true
			}
		}
	}
	return NumericParameter{}, false
}

func countTerms(lower string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			n++
		}
	}
	return n
}

func firstContained(lower string, phrases []string) (string, bool) {
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return phrase, true
		}
	}
	return "", false
}

func containsAny(lower string, terms []string) bool {
	_, ok := firstContained(lower, terms)
	return ok
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
