// Package enhance combines validator scores with external knowledge-lookup
// signals using configurable weight tables.
package enhance

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Source names a score contributor.
type Source string

const (
	SourceValidator  Source = "validator"
	SourceLiterature Source = "literature"
	SourceWeb        Source = "web"
)

// Level selects a weight table.
type Level string

const (
	LevelBasic         Level = "basic"
	LevelComprehensive Level = "comprehensive"
)

// WeightTable maps each source to its weight. Weights need not sum to one;
// Combine renormalises over the sources that are present.
type WeightTable map[Source]float64

// DefaultWeightTables returns the built-in levels.
func DefaultWeightTables() map[Level]WeightTable {
	return map[Level]WeightTable{
		LevelBasic:         {SourceValidator: 0.30, SourceLiterature: 0.40, SourceWeb: 0.30},
		LevelComprehensive: {SourceValidator: 0.25, SourceLiterature: 0.45, SourceWeb: 0.30},
	}
}

// Validate rejects negative or non-finite weights and tables without weight.
func (t WeightTable) Validate() error {
	if len(t) == 0 {
		return errors.New("weight table is empty")
	}
	total := 0.0
	for src, w := range t {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("weight for %s must be a non-negative number, got %v", src, w)
		}
		total += w
	}
	if total == 0 {
		return errors.New("weight table has no positive weight")
	}
	return nil
}

// Sources returns the table's sources sorted by name.
func (t WeightTable) Sources() []Source {
	out := make([]Source, 0, len(t))
	for src := range t {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Combine averages scores weighted by the table. Sources missing from scores,
// or with non-finite scores, contribute weight zero.
func (t WeightTable) Combine(scores map[Source]float64) float64 {
	parts := make([]WeightedScore, 0, len(t))
	for _, src := range t.Sources() {
		if s, ok := scores[src]; ok {
			parts = append(parts, WeightedScore{Weight: t[src], Score: s})
		}
	}
	return WeightedAverage(parts)
}

// WeightedScore is one contribution to a combined score. Score is expected in [0,1].
type WeightedScore struct {
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

// Combine folds external scores into base. The base weight is whatever the
// external weights leave of 1, so with external weights summing to at most one
// the result is a plain weighted sum. The result is clamped to [0,1].
func Combine(base float64, external []WeightedScore) float64 {
	externalWeight := 0.0
	for _, e := range external {
		if usable(e) {
			externalWeight += e.Weight
		}
	}
	parts := append([]WeightedScore{{Weight: math.Max(0, 1-externalWeight), Score: base}}, external...)
	return WeightedAverage(parts)
}

// WeightedAverage returns the clamped weighted mean of the usable parts, or 0
// when no part carries weight.
func WeightedAverage(parts []WeightedScore) float64 {
	sum, weights := 0.0, 0.0
	for _, p := range parts {
		if !usable(p) {
			continue
		}
		sum += p.Weight * p.Score
		weights += p.Weight
	}
	if weights == 0 {
		return 0
	}
	return clamp01(sum / weights)
}

func usable(p WeightedScore) bool {
	return p.Weight > 0 && !math.IsInf(p.Weight, 0) && !math.IsNaN(p.Score) && !math.IsInf(p.Score, 0)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
