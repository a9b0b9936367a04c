package domain

import "strings"

// ParameterRange is an inclusive numeric interval keyed by a range name such as
// "concentration_percent".
type ParameterRange struct {
	Key string  `json:"key" yaml:"key"`
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies within [Min, Max].
func (r ParameterRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// NearBoundary reports whether an in-range v lies within margin (a fraction of
// the range width) of either end.
func (r ParameterRange) NearBoundary(v, margin float64) bool {
	if !r.Contains(v) || margin <= 0 {
		return false
	}
	band := (r.Max - r.Min) * margin
	return v-r.Min < band || r.Max-v < band
}

// Fragments splits the key on underscores. Single-character fragments such as
// unit suffixes ("k", "s") are dropped because they would match almost any name.
func (r ParameterRange) Fragments() []string {
	var out []string
	for _, part := range strings.Split(strings.ToLower(r.Key), "_") {
		if len(part) >= 2 {
			out = append(out, part)
		}
	}
	return out
}

// MatchesParameter reports whether any key fragment occurs in the parameter name.
func (r ParameterRange) MatchesParameter(name string) bool {
	return r.matchCount(strings.ToLower(name)) > 0
}

func (r ParameterRange) matchCount(lower string) int {
	n := 0
	for _, frag := range r.Fragments() {
		if strings.Contains(lower, frag) {
			n++
		}
	}
	return n
}

// CatalogEntry holds the static constraints owned by one domain.
type CatalogEntry struct {
	Domain Domain `json:"domain" yaml:"domain"`
	// Ranges are ranked by MatchRange; order breaks ties.
	Ranges           []ParameterRange `json:"ranges" yaml:"ranges"`
	RequiredEvidence []string         `json:"required_evidence" yaml:"required_evidence"`
	// PhysicalConstraints are advisory tags; no rule evaluates them yet.
	PhysicalConstraints []string           `json:"physical_constraints" yaml:"physical_constraints"`
	CriticalThresholds  map[string]float64 `json:"critical_thresholds,omitempty" yaml:"critical_thresholds,omitempty"`
}

// MatchRange returns the range for name: an exact key match, else the range
// with the most key fragments found in name. Earlier ranges win ties.
func (e CatalogEntry) MatchRange(name string) (ParameterRange, bool) {
	lower := strings.ToLower(name)
	best, bestCount := -1, 0
	for i, r := range e.Ranges {
		if strings.ToLower(r.Key) == lower {
			return r, true
		}
		if n := r.matchCount(lower); n > bestCount {
			best, bestCount = i, n
		}
	}
	if best < 0 {
		return ParameterRange{}, false
	}
	return e.Ranges[best], true
}
