package core

import (
	"context"

	"sakanacore/pkg/domain"
)

// NewDomainConsistencyRule reports parameter combinations that contradict each
// other. The finding is advisory unless blocking is set.
func NewDomainConsistencyRule(checker PlausibilityChecker, blocking bool) domain.Rule {
	return domainConsistencyRule{checker: checker, blocking: blocking}
}

type domainConsistencyRule struct {
	checker  PlausibilityChecker
	blocking bool
}

func (domainConsistencyRule) Name() string { return ruleDomainConsistency }

func (r domainConsistencyRule) Evaluate(_ context.Context, subject domain.Subject) (domain.Result, error) {
	res := domain.Result{}
	ok, detail := r.checker.CheckDomainConsistency(subject.Numeric, subject.Domain)
	if ok {
		return res, nil
	}
	severity := domain.SeverityWarn
	if r.blocking {
		severity = domain.SeverityBlock
	}
	res.Add(domain.Violation{
		Code:     domain.CodeDomainInconsistency,
		Detail:   detail,
		Severity: severity,
		Rule:     ruleDomainConsistency,
	})
	return res, nil
}
