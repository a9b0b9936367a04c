package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sakanacore/pkg/domain"
)

func TestClassifyScenarios(t *testing.T) {
	c := NewClassifier()
	cases := []struct {
		name   string
		record domain.ExperimentRecord
		want   Domain
	}{
		{"chemical", scenarioA(), DomainChemicalComposition},
		{"signal", scenarioC(), DomainSignalDetection},
		{"no keywords", scenarioD(), DomainUnknown},
		{"declared overrides text", domain.ExperimentRecord{FreeText: "aerosol particle size", DeclaredDomain: "Policy_Governance"}, DomainPolicyGovernance},
		{"unrecognised declared domain", domain.ExperimentRecord{FreeText: "aerosol particle size", DeclaredDomain: "astrology"}, DomainUnknown},
		{"empty", domain.ExperimentRecord{}, DomainUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.record))
		})
	}
}

func TestClassifyIgnoresParameterNames(t *testing.T) {
	c := NewClassifier()
	rec := domain.ExperimentRecord{
		FreeText:   "generic text",
		Parameters: map[string]any{"aerosol_particle_radius": 1.0, "note": "aerosol"},
	}
	assert.Equal(t, DomainUnknown, c.Classify(rec))
}

func TestClassifyTieBreaksByDeclarationOrder(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, DomainSignalDetection, c.ClassifyText("signal climate"))
	assert.Equal(t, DomainChemicalComposition, c.ClassifyText("chemical temperature"))
	assert.Equal(t, DomainClimateResponse, c.ClassifyText("climate policy"))
}

func TestClassifyMatchesSubstrings(t *testing.T) {
	c := NewClassifier()
	scores := c.Scores("Sophisticated")
	assert.Equal(t, 1, scores[DomainChemicalComposition], "ph is matched inside words")
}

func TestClassifierMonotonicity(t *testing.T) {
	c := NewClassifier()
	text := "aerosol particle"
	assert.Equal(t, DomainParticleDynamics, c.ClassifyText(text))
	for _, kw := range c.Keywords(DomainParticleDynamics) {
		text += " " + kw
		if got := c.ClassifyText(text); got != DomainParticleDynamics {
			t.Fatalf("adding %q switched classification to %s", kw, got)
		}
	}
}

func TestKeywordsReturnsCopy(t *testing.T) {
	c := NewClassifier()
	kws := c.Keywords(DomainPolicyGovernance)
	kws[0] = "mutated"
	assert.NotEqual(t, "mutated", c.Keywords(DomainPolicyGovernance)[0])
	for _, d := range domain.Domains() {
		n := len(c.Keywords(d))
		assert.True(t, n >= 5 && n <= 10, "domain %s has %d keywords", d, n)
		for _, kw := range c.Keywords(d) {
			assert.Equal(t, strings.ToLower(kw), kw)
		}
	}
}
