package enhance

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"sakanacore/pkg/domain"
)

var _ domain.KnowledgeLookup = (*KeywordLookup)(nil)

// KeywordLookup ranks an in-memory corpus by query-term overlap.
type KeywordLookup struct {
	corpus []domain.Snippet
}

// NewKeywordLookup copies corpus into a lookup.
func NewKeywordLookup(corpus []domain.Snippet) *KeywordLookup {
	return &KeywordLookup{corpus: append([]domain.Snippet(nil), corpus...)}
}

// LoadCorpus decodes a YAML (or JSON) list of snippets.
func LoadCorpus(r io.Reader) ([]domain.Snippet, error) {
	var raw []struct {
		Content string `yaml:"content"`
		Source  string `yaml:"source"`
	}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	out := make([]domain.Snippet, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s.Content) == "" {
			continue
		}
		out = append(out, domain.Snippet{Content: s.Content, Source: s.Source})
	}
	return out, nil
}

// Search scores each snippet by the fraction of distinct query terms it
// contains. Ties keep corpus order.
func (k *KeywordLookup) Search(ctx context.Context, query string, maxResults int) ([]domain.Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := queryTerms(query)
	if len(terms) == 0 || maxResults <= 0 {
		return nil, nil
	}
	var hits []domain.Snippet
	for _, snip := range k.corpus {
		content := strings.ToLower(snip.Content)
		matched := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		snip.RelevanceScore = float64(matched) / float64(len(terms))
		hits = append(hits, snip)
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].RelevanceScore > hits[j].RelevanceScore })
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	return hits, nil
}

// queryTerms returns distinct lower-case words of three or more letters.
func queryTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
