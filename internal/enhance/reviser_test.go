package enhance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sakanacore/pkg/domain"
)

type fakeGenerator struct {
	out       string
	err       error
	system    string
	user      string
	maxTokens int
	calls     int
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	f.calls++
	f.system, f.user, f.maxTokens = systemPrompt, userPrompt, maxTokens
	return f.out, f.err
}

func nonCompliant() (domain.ExperimentRecord, domain.ValidationResult) {
	rec := domain.ExperimentRecord{
		ID:          "bad-1",
		Description: "A novel elegant framework",
		Parameters:  map[string]any{"radius_um": 25.0},
	}
	res := domain.ValidationResult{
		RecordID:       "bad-1",
		DetectedDomain: domain.DomainParticleDynamics,
		Violations: []domain.Violation{{
			Code:     domain.CodeMissingEmpiricalEvidence,
			Detail:   "no evidence indicators",
			Severity: domain.SeverityBlock,
		}},
		Recommendations: []string{"Include reference to real datasets (e.g. GLENS, CMIP6, ERA5)"},
	}
	return rec, res
}

func TestReviseBuildsPromptFromFindings(t *testing.T) {
	gen := &fakeGenerator{out: "  revised text \n"}
	rec, res := nonCompliant()

	out, err := NewReviser(gen, 512).Revise(context.Background(), rec, res)
	require.NoError(t, err)
	assert.Equal(t, "revised text", out)
	assert.Equal(t, 512, gen.maxTokens)
	assert.Equal(t, revisionSystemPrompt, gen.system)
	assert.Contains(t, gen.user, "particle_dynamics")
	assert.Contains(t, gen.user, "radius_um = 25")
	assert.Contains(t, gen.user, "MISSING_EMPIRICAL_EVIDENCE")
	assert.Contains(t, gen.user, "GLENS")
}

func TestReviseSkipsCompliantResults(t *testing.T) {
	gen := &fakeGenerator{out: "unused"}
	out, err := NewReviser(gen, 10).Revise(context.Background(), testRecord(), testResult(1))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, gen.calls)
}

func TestReviseErrors(t *testing.T) {
	rec, res := nonCompliant()

	_, err := NewReviser(&fakeGenerator{err: errors.New("quota")}, 10).Revise(context.Background(), rec, res)
	assert.ErrorContains(t, err, "bad-1")
	assert.ErrorContains(t, err, "quota")

	_, err = NewReviser(&fakeGenerator{out: "   "}, 10).Revise(context.Background(), rec, res)
	assert.ErrorIs(t, err, ErrEmptyRevision)
}
