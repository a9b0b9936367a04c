package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sakanacore/pkg/domain"
)

func TestDefaultCatalogCoversEveryDomain(t *testing.T) {
	c := DefaultCatalog()
	for _, d := range domain.Domains() {
		entry, ok := c.Entry(d)
		require.True(t, ok, "missing entry for %s", d)
		assert.Equal(t, d, entry.Domain)
		assert.NotEmpty(t, entry.Ranges)
		assert.NotEmpty(t, entry.RequiredEvidence)
		for _, r := range entry.Ranges {
			assert.LessOrEqual(t, r.Min, r.Max, "range %s", r.Key)
		}
	}
	_, ok := c.Entry(DomainUnknown)
	assert.False(t, ok)
	assert.Len(t, c.Entries(), len(domain.Domains()))
}

func TestCriticalThresholdsForSignalDetection(t *testing.T) {
	c := DefaultCatalog()
	th := c.CriticalThresholdsFor(DomainSignalDetection)
	assert.Equal(t, -15.54, th[ThresholdUndetectableLimit])
	assert.Equal(t, 0.0, th[ThresholdMinimumDetectable])
	assert.Empty(t, c.CriticalThresholdsFor(DomainClimateResponse))
	assert.NotNil(t, c.CriticalThresholdsFor(DomainUnknown))
}

func TestCatalogLookupsReturnCopies(t *testing.T) {
	c := DefaultCatalog()
	ranges := c.RangesFor(DomainChemicalComposition)
	ranges[0].Max = -1
	c.CriticalThresholdsFor(DomainSignalDetection)[ThresholdUndetectableLimit] = 99
	evidence := c.RequiredEvidenceFor(DomainChemicalComposition)
	evidence[0] = "mutated"

	assert.Equal(t, 100.0, c.RangesFor(DomainChemicalComposition)[0].Max)
	assert.Equal(t, UndetectableLimitDB, c.CriticalThresholdsFor(DomainSignalDetection)[ThresholdUndetectableLimit])
	assert.Equal(t, []string{"concentration", "measurement"}, c.RequiredEvidenceFor(DomainChemicalComposition))
}

func TestNewCatalogSkipsUnknownDomains(t *testing.T) {
	c := NewCatalog([]CatalogEntry{
		{Domain: DomainUnknown, Ranges: []ParameterRange{{Key: "x", Max: 1}}},
		{Domain: "astrology"},
		{Domain: DomainPolicyGovernance, RequiredEvidence: []string{"first"}},
		{Domain: DomainPolicyGovernance, RequiredEvidence: []string{"second"}},
	})
	assert.Len(t, c.Entries(), 1)
	assert.Equal(t, []string{"second"}, c.RequiredEvidenceFor(DomainPolicyGovernance))
}

func TestCatalogRangeMatching(t *testing.T) {
	entry, _ := DefaultCatalog().Entry(DomainChemicalComposition)
	r, ok := entry.MatchRange("h2so4_concentration")
	require.True(t, ok)
	assert.Equal(t, "concentration_percent", r.Key)
	r, ok = entry.MatchRange("temperature_k")
	require.True(t, ok)
	assert.Equal(t, "temperature_k", r.Key)
	_, ok = entry.MatchRange("snr_db")
	assert.False(t, ok)
}

func TestCatalogRangeKeysResolveToThemselves(t *testing.T) {
	for _, entry := range DefaultCatalog().Entries() {
		for _, want := range entry.Ranges {
			got, ok := entry.MatchRange(want.Key)
			require.True(t, ok, "%s/%s", entry.Domain, want.Key)
			assert.Equal(t, want.Key, got.Key, "domain %s", entry.Domain)
		}
	}
}
