package enhance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightTables(t *testing.T) {
	tables := DefaultWeightTables()
	require.Contains(t, tables, LevelBasic)
	require.Contains(t, tables, LevelComprehensive)

	assert.InDelta(t, 0.30, tables[LevelBasic][SourceValidator], 1e-12)
	assert.InDelta(t, 0.40, tables[LevelBasic][SourceLiterature], 1e-12)
	assert.InDelta(t, 0.45, tables[LevelComprehensive][SourceLiterature], 1e-12)
	for level, table := range tables {
		sum := 0.0
		for _, w := range table {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "level %s", level)
		assert.NoError(t, table.Validate())
	}
}

func TestWeightTableValidate(t *testing.T) {
	assert.Error(t, WeightTable{}.Validate())
	assert.Error(t, WeightTable{SourceValidator: -0.1, SourceWeb: 1}.Validate())
	assert.Error(t, WeightTable{SourceValidator: math.NaN()}.Validate())
	assert.Error(t, WeightTable{SourceValidator: 0, SourceWeb: 0}.Validate())
	assert.NoError(t, WeightTable{SourceValidator: 2, SourceWeb: 1}.Validate())
}

func TestCombineIsWeightedSum(t *testing.T) {
	got := Combine(0.8, []WeightedScore{{Weight: 0.4, Score: 0.5}, {Weight: 0.3, Score: 1}})
	// 0.3*0.8 + 0.4*0.5 + 0.3*1
	assert.InDelta(t, 0.74, got, 1e-9)
}

func TestCombineTreatsUnusableScoresAsWeightZero(t *testing.T) {
	got := Combine(0.6, []WeightedScore{
		{Weight: 0.4, Score: math.NaN()},
		{Weight: 0.3, Score: 1},
		{Weight: -1, Score: 1},
	})
	assert.InDelta(t, 0.7*0.6+0.3*1, got, 1e-9)

	assert.InDelta(t, 0.6, Combine(0.6, nil), 1e-12)
}

func TestCombineRenormalisesAndClamps(t *testing.T) {
	got := Combine(0.1, []WeightedScore{{Weight: 1, Score: 0.5}, {Weight: 1, Score: 1}})
	assert.InDelta(t, 0.75, got, 1e-9)

	assert.Equal(t, 1.0, Combine(1.7, nil))
	assert.Equal(t, 0.0, Combine(-3, nil))
}

func TestWeightTableCombine(t *testing.T) {
	table := DefaultWeightTables()[LevelBasic]

	all := table.Combine(map[Source]float64{SourceValidator: 1, SourceLiterature: 0.5, SourceWeb: 0})
	assert.InDelta(t, 0.30+0.20, all, 1e-9)

	// web missing: validator and literature renormalised over 0.7
	partial := table.Combine(map[Source]float64{SourceValidator: 1, SourceLiterature: 0.5})
	assert.InDelta(t, (0.30+0.20)/0.70, partial, 1e-9)

	assert.Equal(t, 0.0, table.Combine(nil))
}

func TestWeightedAverageEmpty(t *testing.T) {
	assert.Equal(t, 0.0, WeightedAverage(nil))
	assert.Equal(t, 0.0, WeightedAverage([]WeightedScore{{Weight: 0, Score: 1}}))
}
