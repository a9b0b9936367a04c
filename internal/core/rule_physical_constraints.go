package core

import (
	"context"

	"sakanacore/pkg/domain"
)

// NewPhysicalConstraintsRule is the evaluation point for the catalog's
// PhysicalConstraints tags. No tag has a concrete check yet, so it reports nothing.
func NewPhysicalConstraintsRule() domain.Rule {
	return physicalConstraintsRule{}
}

type physicalConstraintsRule struct{}

func (physicalConstraintsRule) Name() string { return rulePhysicalConstraints }

func (physicalConstraintsRule) Evaluate(context.Context, domain.Subject) (domain.Result, error) {
	return domain.Result{}, nil
}
