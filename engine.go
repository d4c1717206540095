// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package docquery is a retrieval-augmented question answering engine over
// uploaded documents and the web. Documents are chunked into evidence
// units, embedded, and stored; queries are routed to the document index,
// the web, or both, and the merged evidence drives answer synthesis.
package docquery

import (
	"context"
	"log/slog"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/ai/openai"
	"github.com/poiesic/docquery/chunker"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/ingestion"
	"github.com/poiesic/docquery/retrieval"
	"github.com/poiesic/docquery/router"
	"github.com/poiesic/docquery/storage"
	"github.com/poiesic/docquery/storage/badger"
)

// Answer is the result of one question: the synthesized text plus the
// routing decision and evidence that produced it.
type Answer struct {
	Text     string
	Decision core.RouteDecision
	Evidence *core.MergedEvidence
}

// Engine wires storage, AI services, chunking, routing, and retrieval into
// one question answering facade.
type Engine struct {
	backend   *badger.Backend
	evidence  storage.EvidenceRepository
	provider  ai.AIProvider
	chunker   *chunker.Chunker
	router    *router.Router
	retriever *retrieval.Retriever
	pipeline  *ingestion.Pipeline
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	inMemory    bool
	aiConfig    *ai.Config
	provider    ai.AIProvider
	web         retrieval.WebSearcher
	chunkerOpts []chunker.Option
	routerOpts  []router.Option
}

// WithInMemory opens the evidence store in memory instead of on disk.
// Intended for tests and ephemeral sessions.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithAIConfig sets the AI service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built AI provider, bypassing the OpenAI
// client construction. Used in tests with mock providers.
func WithAIProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithWebSearcher enables web evidence. Without it the engine runs
// document-only and degrades per route.
func WithWebSearcher(web retrieval.WebSearcher) EngineOption {
	return func(o *engineOptions) {
		o.web = web
	}
}

// WithChunkerOptions customizes document chunking.
func WithChunkerOptions(opts ...chunker.Option) EngineOption {
	return func(o *engineOptions) {
		o.chunkerOpts = opts
	}
}

// WithRouterOptions customizes query routing thresholds.
func WithRouterOptions(opts ...router.Option) EngineOption {
	return func(o *engineOptions) {
		o.routerOpts = opts
	}
}

// Open creates an Engine backed by a BadgerDB store at filePath.
func Open(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	evidence, err := badger.NewEvidenceRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			evidence.Close()
			backend.Close()
			return nil, err
		}
	}

	chk := chunker.New(options.chunkerOpts...)

	retrieverOpts := []retrieval.Option{}
	if options.web != nil {
		retrieverOpts = append(retrieverOpts, retrieval.WithWebSearcher(options.web))
	}
	retriever, err := retrieval.NewRetriever(
		&documentIndex{evidence: evidence, embedder: provider.Embedder()},
		retrieverOpts...,
	)
	if err != nil {
		provider.Close()
		evidence.Close()
		backend.Close()
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(evidence, provider, ingestion.WithChunker(chk))
	if err != nil {
		retriever.Release()
		provider.Close()
		evidence.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:   backend,
		evidence:  evidence,
		provider:  provider,
		chunker:   chk,
		router:    router.New(options.routerOpts...),
		retriever: retriever,
		pipeline:  pipeline,
		logger:    slog.Default(),
	}, nil
}

// Close releases all engine resources.
func (e *Engine) Close() error {
	e.pipeline.Release()
	e.retriever.Release()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.evidence.Close(); err != nil {
		e.logger.Error("error closing evidence repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// EvidenceRepository exposes the underlying evidence store.
func (e *Engine) EvidenceRepository() storage.EvidenceRepository {
	return e.evidence
}

// WebAvailable reports whether web evidence is configured.
func (e *Engine) WebAvailable() bool {
	return e.retriever.WebAvailable()
}

// IngestDocument chunks, embeds, and stores one document.
func (e *Engine) IngestDocument(ctx context.Context, source ingestion.PageTextSource) (*ingestion.Result, error) {
	return e.pipeline.Ingest(ctx, source)
}

// IngestDocuments ingests multiple documents concurrently.
func (e *Engine) IngestDocuments(ctx context.Context, sources ...ingestion.PageTextSource) ([]*ingestion.Result, error) {
	return e.pipeline.IngestAll(ctx, sources...)
}

// RouteQuery decides which evidence sources a query should hit.
func (e *Engine) RouteQuery(ctx context.Context, query string) (core.RouteDecision, error) {
	count, err := e.evidence.Count(ctx)
	if err != nil {
		return core.RouteDecision{}, err
	}
	return e.router.Route(query, count > 0), nil
}

// ExplainRoute renders a user-facing explanation for a routing decision.
func (e *Engine) ExplainRoute(decision core.RouteDecision) string {
	return e.router.Explain(decision)
}

// Retrieve gathers evidence for a query according to a routing decision.
func (e *Engine) Retrieve(ctx context.Context, query string, decision core.RouteDecision) (*core.MergedEvidence, error) {
	return e.retriever.Retrieve(ctx, query, decision)
}

// Ask routes the query, gathers evidence, and synthesizes an answer.
func (e *Engine) Ask(ctx context.Context, query string) (*Answer, error) {
	decision, err := e.RouteQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	evidence, err := e.retriever.Retrieve(ctx, query, decision)
	if err != nil {
		return nil, err
	}

	text, err := e.provider.Answerer().Answer(ctx, query, evidence)
	if err != nil {
		return nil, err
	}

	return &Answer{
		Text:     text,
		Decision: decision,
		Evidence: evidence,
	}, nil
}

// EvidenceCount returns the number of stored evidence units.
func (e *Engine) EvidenceCount(ctx context.Context) (int, error) {
	return e.evidence.Count(ctx)
}

// ClearDocuments removes all stored evidence.
func (e *Engine) ClearDocuments(ctx context.Context) error {
	return e.evidence.Clear(ctx)
}

// documentIndex adapts the evidence repository plus an embedder into the
// retrieval.DocumentSearcher interface: it embeds the query text and runs
// a vector search.
type documentIndex struct {
	evidence storage.EvidenceRepository
	embedder ai.Embedder
}

var _ retrieval.DocumentSearcher = (*documentIndex)(nil)

func (d *documentIndex) Search(ctx context.Context, query string, k int) ([]core.ScoredUnit, error) {
	vector, err := d.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	return d.evidence.Search(ctx, vector, k)
}
