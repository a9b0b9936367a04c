package core

import (
	"context"
	"fmt"
	"math"
	"strings"

	"sakanacore/pkg/domain"
)

// ExtremeValueLimit is the magnitude above which a parameter is rejected outright.
const ExtremeValueLimit = 1e10

// namedDatasets are the real-world data sources accepted as grounding.
var namedDatasets = []string{
	"glens", "cmip6", "cmip", "merra-2", "merra2", "era5",
	"sage", "calipso", "modis", "omps", "pinatubo",
}

var evidenceIndicators = append([]string{"data", "measurement", "observation", "experiment"}, namedDatasets...)

// NewEmpiricalEvidenceRule requires the record text to reference data,
// measurements, observations, experiments or a named dataset.
func NewEmpiricalEvidenceRule() domain.Rule {
	return empiricalEvidenceRule{}
}

type empiricalEvidenceRule struct{}

func (empiricalEvidenceRule) Name() string { return ruleEmpiricalEvidence }

func (empiricalEvidenceRule) Evaluate(_ context.Context, subject domain.Subject) (domain.Result, error) {
	res := domain.Result{}
	if !containsAny(subject.Text, evidenceIndicators) {
		res.Add(domain.Violation{
			Code:     domain.CodeMissingEmpiricalEvidence,
			Detail:   "no reference to data, measurements, observations or a named dataset",
			Severity: domain.SeverityBlock,
			Rule:     ruleEmpiricalEvidence,
		})
	}
	return res, nil
}

// NewQuantitativeParametersRule requires at least one numeric parameter.
func NewQuantitativeParametersRule() domain.Rule {
	return quantitativeParametersRule{}
}

type quantitativeParametersRule struct{}

func (quantitativeParametersRule) Name() string { return ruleQuantitative }

func (quantitativeParametersRule) Evaluate(_ context.Context, subject domain.Subject) (domain.Result, error) {
	res := domain.Result{}
	if len(subject.Numeric) == 0 {
		res.Add(domain.Violation{
			Code:     domain.CodeMissingQuantitative,
			Detail:   "record has no numeric parameters",
			Severity: domain.SeverityBlock,
			Rule:     ruleQuantitative,
		})
	}
	return res, nil
}

// NewRealDataRule requires the record text to name a real dataset.
func NewRealDataRule() domain.Rule {
	return realDataRule{}
}

type realDataRule struct{}

func (realDataRule) Name() string { return ruleRealData }

func (realDataRule) Evaluate(_ context.Context, subject domain.Subject) (domain.Result, error) {
	res := domain.Result{}
	if !containsAny(subject.Text, namedDatasets) {
		res.Add(domain.Violation{
			Code:     domain.CodeRealDataRequired,
			Detail:   "no named dataset such as " + strings.ToUpper(strings.Join(namedDatasets[:3], ", ")),
			Severity: domain.SeverityBlock,
			Rule:     ruleRealData,
		})
	}
	return res, nil
}

// NewParameterMagnitudeRule rejects extreme magnitudes and warns on zero values.
// Parameters named as thresholds may legitimately be zero.
func NewParameterMagnitudeRule() domain.Rule {
	return parameterMagnitudeRule{}
}

type parameterMagnitudeRule struct{}

func (parameterMagnitudeRule) Name() string { return ruleParameterMagnitude }

func (parameterMagnitudeRule) Evaluate(_ context.Context, subject domain.Subject) (domain.Result, error) {
	res := domain.Result{}
	for _, param := range subject.Numeric {
		if !domain.Finite(param.Value) {
			continue
		}
		switch {
		case math.Abs(param.Value) > ExtremeValueLimit:
			res.Add(domain.Violation{
				Code:     domain.CodeExtremeValue,
				Detail:   fmt.Sprintf("%s=%s", param.Name, formatFloat(param.Value)),
				Severity: domain.SeverityBlock,
				Rule:     ruleParameterMagnitude,
			})
		case param.Value == 0 && !strings.Contains(strings.ToLower(param.Name), "threshold"):
			res.Add(domain.Violation{
				Code:     domain.CodeZeroValue,
				Detail:   param.Name + "=0",
				Severity: domain.SeverityWarn,
				Rule:     ruleParameterMagnitude,
			})
		}
	}
	return res, nil
}
