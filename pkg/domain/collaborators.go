package domain

import "context"

// Snippet is a ranked knowledge-lookup hit.
type Snippet struct {
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
	// RelevanceScore is normalised to [0,1].
	RelevanceScore float64 `json:"relevance_score"`
}

// KnowledgeLookup returns ranked snippets for a query. Implementations may be
// literature indexes, vector stores, or web search; the engine treats them as
// opaque.
type KnowledgeLookup interface {
	Search(ctx context.Context, query string, maxResults int) ([]Snippet, error)
}

// TextGenerator is the prompt-in/text-out contract used by paper-generation
// orchestration built on top of the validator.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}
