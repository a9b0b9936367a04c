package core

import (
	"context"
	"strings"

	"sakanacore/pkg/domain"
)

// NewRequiredEvidenceRule requires every evidence tag of the domain to appear in
// the record text. Underscores in tags match spaces.
func NewRequiredEvidenceRule() domain.Rule {
	return requiredEvidenceRule{}
}

type requiredEvidenceRule struct{}

func (requiredEvidenceRule) Name() string { return ruleRequiredEvidence }

func (requiredEvidenceRule) Evaluate(_ context.Context, subject domain.Subject) (domain.Result, error) {
	res := domain.Result{}
	for _, tag := range subject.Entry.RequiredEvidence {
		phrase := strings.ToLower(strings.ReplaceAll(tag, "_", " "))
		if phrase == "" || strings.Contains(subject.Text, phrase) {
			continue
		}
		res.Add(domain.Violation{
			Code:     domain.CodeMissingEvidence,
			Detail:   tag,
			Severity: domain.SeverityBlock,
			Rule:     ruleRequiredEvidence,
		})
	}
	return res, nil
}
