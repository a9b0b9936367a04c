package enhance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sakanacore/pkg/domain"
)

// DefaultTopK is the number of snippets averaged into a support score.
const DefaultTopK = 5

const maxQueryBytes = 240

// Report is the outcome of enhancing one validation result.
type Report struct {
	RecordID     string             `json:"record_id"`
	Level        Level              `json:"level"`
	Compliant    bool               `json:"compliant"`
	BaseScore    float64            `json:"base_score"`
	SourceScores map[Source]float64 `json:"source_scores"`
	// Missing lists sources whose lookup failed; they carry weight zero.
	Missing      []Source `json:"missing,omitempty"`
	OverallScore float64  `json:"overall_score"`
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithWeightTables replaces the weight tables.
func WithWeightTables(tables map[Level]WeightTable) Option {
	return func(e *Enhancer) {
		if len(tables) > 0 {
			e.tables = tables
		}
	}
}

// WithLookup attaches a knowledge lookup as the provider for source.
func WithLookup(source Source, lookup domain.KnowledgeLookup) Option {
	return func(e *Enhancer) { e.lookups[source] = lookup }
}

// WithTopK sets how many snippets feed a support score.
func WithTopK(k int) Option {
	return func(e *Enhancer) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Enhancer) {
		if l != nil {
			e.logger = l
		}
	}
}

// Enhancer queries knowledge lookups and combines their support with the
// validator score.
type Enhancer struct {
	tables  map[Level]WeightTable
	lookups map[Source]domain.KnowledgeLookup
	topK    int
	logger  *zap.Logger
}

// New builds an Enhancer with the default weight tables and no lookups.
func New(opts ...Option) *Enhancer {
	e := &Enhancer{
		tables:  DefaultWeightTables(),
		lookups: make(map[Source]domain.KnowledgeLookup),
		topK:    DefaultTopK,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enhance scores result at level. Only an unknown level is an error; lookup
// failures are logged and reported in Report.Missing.
func (e *Enhancer) Enhance(ctx context.Context, result domain.ValidationResult, record domain.ExperimentRecord, level Level) (Report, error) {
	table, ok := e.tables[level]
	if !ok {
		return Report{}, fmt.Errorf("unknown enhancement level %q", level)
	}
	report := Report{
		RecordID:     result.RecordID,
		Level:        level,
		Compliant:    result.Compliant,
		BaseScore:    result.Score,
		SourceScores: map[Source]float64{SourceValidator: result.Score},
	}

	query := Query(record, result)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range table.Sources() {
		if src == SourceValidator {
			continue
		}
		lookup, ok := e.lookups[src]
		if !ok {
			mu.Lock()
			report.Missing = append(report.Missing, src)
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			snippets, err := lookup.Search(gctx, query, e.topK)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				e.logger.Warn("knowledge lookup failed", zap.String("source", string(src)), zap.Error(err))
				report.Missing = append(report.Missing, src)
				return nil
			}
			report.SourceScores[src] = SupportScore(snippets, e.topK)
			return nil
		})
	}
	_ = g.Wait()
	sortSources(report.Missing)

	report.OverallScore = table.Combine(report.SourceScores)
	e.logger.Debug("enhanced validation",
		zap.String("record_id", report.RecordID),
		zap.String("level", string(level)),
		zap.Float64("overall", report.OverallScore),
	)
	return report, nil
}

// SupportScore is the mean relevance of the first k snippets, clamped to [0,1].
// No snippets means no support.
func SupportScore(snippets []domain.Snippet, k int) float64 {
	if k <= 0 || len(snippets) == 0 {
		return 0
	}
	if len(snippets) > k {
		snippets = snippets[:k]
	}
	sum := 0.0
	for _, s := range snippets {
		sum += clamp01(s.RelevanceScore)
	}
	return sum / float64(len(snippets))
}

// Query builds the lookup query from the record's descriptive text and domain.
func Query(record domain.ExperimentRecord, result domain.ValidationResult) string {
	text := strings.TrimSpace(record.Title)
	if text == "" {
		text = strings.TrimSpace(record.CanonicalText())
	}
	if len(text) > maxQueryBytes {
		cut := maxQueryBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	if result.DetectedDomain != "" && result.DetectedDomain != domain.DomainUnknown {
		text += " " + strings.ReplaceAll(string(result.DetectedDomain), "_", " ")
	}
	return text
}

func sortSources(s []Source) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
