package ingestion

import "errors"

var (
	// ErrEvidenceRepositoryRequired is returned when an evidence repository is not provided.
	ErrEvidenceRepositoryRequired = errors.New("evidence repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmbeddingCountMismatch is returned when the embedder yields a
	// different number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
