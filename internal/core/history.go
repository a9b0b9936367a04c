package core

import (
	"context"
	"fmt"
	"sync"
)

// History is an append-only log of validation results, optionally mirrored to
// a HistoryStore. It is safe for concurrent use.
type History struct {
	mu      sync.Mutex
	entries []ValidationResult
	store   HistoryStore
}

// NewHistory returns an empty history. store may be nil for a purely in-memory log.
func NewHistory(store HistoryStore) *History {
	return &History{store: store}
}

// LoadHistory returns a history seeded with the results already held by store.
func LoadHistory(ctx context.Context, store HistoryStore) (*History, error) {
	h := NewHistory(store)
	if store == nil {
		return h, nil
	}
	existing, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	for _, res := range existing {
		h.entries = append(h.entries, res.Clone())
	}
	return h, nil
}

// Append records res. When a store is attached it is written first; a store
// failure leaves the in-memory log unchanged.
func (h *History) Append(ctx context.Context, res ValidationResult) error {
	cp := res.Clone()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.store != nil {
		if err := h.store.Append(ctx, cp); err != nil {
			return fmt.Errorf("append %s: %w", res.RecordID, err)
		}
	}
	h.entries = append(h.entries, cp)
	return nil
}

// Entries returns copies of all results in append order.
func (h *History) Entries() []ValidationResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ValidationResult, len(h.entries))
	for i, res := range h.entries {
		out[i] = res.Clone()
	}
	return out
}

// Len returns the number of recorded results.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Stats computes aggregate statistics over the recorded results.
func (h *History) Stats() HistoryStats {
	return ComputeStats(h.Entries())
}

// HistoryStats summarises a set of validation results.
type HistoryStats struct {
	Total              int                   `json:"total"`
	Compliant          int                   `json:"compliant"`
	SuccessRate        float64               `json:"success_rate"`
	MeanViolations     float64               `json:"mean_violations"`
	DomainDistribution map[Domain]int        `json:"domain_distribution"`
	ViolationCounts    map[ViolationCode]int `json:"violation_counts"`
}

// ComputeStats aggregates results. Rates are zero for an empty input.
func ComputeStats(results []ValidationResult) HistoryStats {
	stats := HistoryStats{
		Total:              len(results),
		DomainDistribution: make(map[Domain]int),
		ViolationCounts:    make(map[ViolationCode]int),
	}
	violations := 0
	for _, res := range results {
		if res.Compliant {
			stats.Compliant++
		}
		stats.DomainDistribution[res.DetectedDomain]++
		violations += len(res.Violations)
		for _, v := range res.Violations {
			stats.ViolationCounts[v.Code]++
		}
	}
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Compliant) / float64(stats.Total)
		stats.MeanViolations = float64(violations) / float64(stats.Total)
	}
	return stats
}
