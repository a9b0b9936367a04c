package core

import (
	"context"

	"sakanacore/pkg/domain"
)

// NewPlausibilityRule applies the trap heuristic and the physics-claim patterns
// to the record text and its string parameters.
func NewPlausibilityRule(checker PlausibilityChecker) domain.Rule {
	return plausibilityRule{checker: checker}
}

type plausibilityRule struct {
	checker PlausibilityChecker
}

func (plausibilityRule) Name() string { return rulePlausibility }

func (r plausibilityRule) Evaluate(_ context.Context, subject domain.Subject) (domain.Result, error) {
	text := subject.ScanText()
	res := domain.Result{}
	res.Violations = append(res.Violations, r.checker.CheckPlausibilityTrap(text)...)
	res.Violations = append(res.Violations, r.checker.CheckPlausibilityPatterns(text)...)
	return res, nil
}
