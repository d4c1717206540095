package ai

import (
	"context"

	"github.com/poiesic/docquery/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Answerer synthesizes a natural-language answer from retrieved evidence.
// Implementations must be thread-safe for concurrent use.
type Answerer interface {
	// Answer generates a response to the query grounded in the given
	// evidence. The evidence route selects how sources are framed for the
	// model (document-only, web-only, or both).
	// Returns an error if generation fails.
	Answer(ctx context.Context, query string, evidence *core.MergedEvidence) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Answerer instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Answerer returns the answer synthesis service.
	// The returned Answerer is safe for concurrent use.
	Answerer() Answerer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
