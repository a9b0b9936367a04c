package core

import (
	"context"

	"sakanacore/pkg/domain"
)

// NewParameterRangeRule checks numeric parameters against the domain's catalog ranges.
func NewParameterRangeRule(checker PlausibilityChecker) domain.Rule {
	return parameterRangeRule{checker: checker}
}

type parameterRangeRule struct {
	checker PlausibilityChecker
}

func (parameterRangeRule) Name() string { return ruleParameterRanges }

func (r parameterRangeRule) Evaluate(_ context.Context, subject domain.Subject) (domain.Result, error) {
	return domain.Result{Violations: r.checker.CheckParameterRanges(subject.Numeric, subject.Entry)}, nil
}
