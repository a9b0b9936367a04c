package enhance

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sakanacore/pkg/domain"
)

var testCorpus = []domain.Snippet{
	{Content: "Stratospheric sulfate aerosol measurements after Pinatubo", Source: "sage"},
	{Content: "Aerosol particle size distribution observed by lidar", Source: "calipso"},
	{Content: "Policy frameworks for international governance", Source: "policy-review"},
}

func TestKeywordLookupRanksByOverlap(t *testing.T) {
	lookup := NewKeywordLookup(testCorpus)

	hits, err := lookup.Search(context.Background(), "stratospheric aerosol measurements", 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "sage", hits[0].Source)
	assert.InDelta(t, 1.0, hits[0].RelevanceScore, 1e-12)
	assert.Equal(t, "calipso", hits[1].Source)
	assert.InDelta(t, 1.0/3, hits[1].RelevanceScore, 1e-12)
}

func TestKeywordLookupLimitsAndIgnoresShortTerms(t *testing.T) {
	lookup := NewKeywordLookup(testCorpus)

	hits, err := lookup.Search(context.Background(), "aerosol", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "sage", hits[0].Source, "ties keep corpus order")

	hits, err = lookup.Search(context.Background(), "of a to", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = lookup.Search(context.Background(), "aerosol", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestKeywordLookupHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewKeywordLookup(testCorpus).Search(ctx, "aerosol", 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadCorpus(t *testing.T) {
	input := `
- content: ERA5 reanalysis temperature record
  source: era5
- content: "   "
  source: blank
- content: GLENS ensemble output
  source: glens
`
	corpus, err := LoadCorpus(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, corpus, 2)
	assert.Equal(t, "era5", corpus[0].Source)
	assert.Equal(t, "glens", corpus[1].Source)

	empty, err := LoadCorpus(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = LoadCorpus(strings.NewReader("content: [unterminated"))
	assert.Error(t, err)
}
