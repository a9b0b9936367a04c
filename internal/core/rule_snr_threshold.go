package core

import (
	"context"
	"fmt"
	"strings"

	"sakanacore/pkg/domain"
)

var snrParameterNames = []string{"snr_db", "signal_to_noise", "snr_threshold"}

// NewSNRThresholdRule enforces the detectability thresholds of the signal
// detection catalog entry on SNR parameters.
func NewSNRThresholdRule() domain.Rule {
	return snrThresholdRule{}
}

type snrThresholdRule struct{}

func (snrThresholdRule) Name() string { return ruleSNRThreshold }

func (snrThresholdRule) Evaluate(_ context.Context, subject domain.Subject) (domain.Result, error) {
	undetectable, minimum := UndetectableLimitDB, MinimumDetectableDB
	if v, ok := subject.Entry.CriticalThresholds[ThresholdUndetectableLimit]; ok {
		undetectable = v
	}
	if v, ok := subject.Entry.CriticalThresholds[ThresholdMinimumDetectable]; ok {
		minimum = v
	}

	res := domain.Result{}
	for _, param := range subject.Numeric {
		if !domain.Finite(param.Value) || !isSNRParameter(param.Name) {
			continue
		}
		switch {
		case param.Value <= undetectable:
			res.Add(domain.Violation{
				Code:     domain.CodeSignalUndetectable,
				Detail:   fmt.Sprintf("%s=%s dB at or below %s dB", param.Name, formatFloat(param.Value), formatFloat(undetectable)),
				Severity: domain.SeverityBlock,
				Rule:     ruleSNRThreshold,
			})
		case param.Value < minimum:
			res.Add(domain.Violation{
				Code:     domain.CodeSignalBelowMinimum,
				Detail:   fmt.Sprintf("%s=%s dB below %s dB", param.Name, formatFloat(param.Value), formatFloat(minimum)),
				Severity: domain.SeverityBlock,
				Rule:     ruleSNRThreshold,
			})
		}
	}
	return res, nil
}

func isSNRParameter(name string) bool {
	lower := strings.ToLower(name)
	for _, candidate := range snrParameterNames {
		if strings.Contains(lower, candidate) {
			return true
		}
	}
	return false
}
