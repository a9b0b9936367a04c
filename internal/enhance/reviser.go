package enhance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sakanacore/pkg/domain"
)

// ErrEmptyRevision is returned when the generator produces no text.
var ErrEmptyRevision = errors.New("text generator returned an empty revision")

const revisionSystemPrompt = "You revise experiment descriptions so every claim is backed by quantitative, " +
	"real-data-referenced evidence. Keep the author's intent and only fix the listed problems."

// Reviser asks a text generator to rewrite a non-compliant record.
type Reviser struct {
	gen       domain.TextGenerator
	maxTokens int
}

// NewReviser wraps gen. maxTokens bounds each generation.
func NewReviser(gen domain.TextGenerator, maxTokens int) *Reviser {
	return &Reviser{gen: gen, maxTokens: maxTokens}
}

// Revise returns revised text for a non-compliant result, or "" when the
// result is already compliant.
func (r *Reviser) Revise(ctx context.Context, record domain.ExperimentRecord, result domain.ValidationResult) (string, error) {
	if result.Compliant {
		return "", nil
	}
	system, user := RevisionPrompt(record, result)
	out, err := r.gen.Generate(ctx, system, user, r.maxTokens)
	if err != nil {
		return "", fmt.Errorf("generate revision for %s: %w", record.ID, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyRevision
	}
	return out, nil
}

// RevisionPrompt renders the system and user prompts for a revision request.
func RevisionPrompt(record domain.ExperimentRecord, result domain.ValidationResult) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Domain: %s\n\nExperiment:\n%s\n", result.DetectedDomain, record.CanonicalText())
	for _, p := range record.NumericParameters() {
		fmt.Fprintf(&b, "- %s = %g\n", p.Name, p.Value)
	}
	b.WriteString("\nProblems:\n")
	for _, v := range result.Violations {
		fmt.Fprintf(&b, "- %s\n", v.String())
	}
	if len(result.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}
	return revisionSystemPrompt, b.String()
}
