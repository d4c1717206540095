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


// Package ingestion turns documents into stored, embedded evidence units.
package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/chunker"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// PageTextSource yields the page texts of one document.
type PageTextSource interface {
	// Filename is the source name stored on every emitted evidence unit.
	Filename() string

	// Pages returns the document's page texts in page order.
	Pages(ctx context.Context) ([]core.Page, error)
}

// Result summarizes the ingestion of one document.
type Result struct {
	Filename string
	Units    int
}

// Pipeline orchestrates chunking, embedding, and storage of documents.
type Pipeline struct {
	evidence storage.EvidenceRepository
	embedder ai.Embedder
	chunker  *chunker.Chunker
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithChunker sets a custom chunker.
// Default is chunker.New().
func WithChunker(c *chunker.Chunker) Option {
	return func(p *Pipeline) error {
		if c == nil {
			c = chunker.New()
		}
		p.chunker = c
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent document ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	evidence storage.EvidenceRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if evidence == nil {
		return nil, ErrEvidenceRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		evidence: evidence,
		embedder: provider.Embedder(),
		chunker:  chunker.New(),
		pool:     pool,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			pool.Release()
			return nil, err
		}
	}

	return p, nil
}

// Ingest chunks one document, embeds its chunks in a single batch, and
// stores the resulting evidence units. A document that yields no chunks is
// a valid empty result, not an error.
func (p *Pipeline) Ingest(ctx context.Context, source PageTextSource) (*Result, error) {
	filename := source.Filename()

	pages, err := source.Pages(ctx)
	if err != nil {
		p.logger.Error("error reading document pages", "filename", filename, "err", err)
		return nil, err
	}

	units := p.chunker.Chunk(pages, filename)
	if len(units) == 0 {
		p.logger.Info("document yielded no evidence units", "filename", filename)
		return &Result{Filename: filename}, nil
	}

	contents := make([]string, len(units))
	for i := range units {
		contents[i] = units[i].Content
	}

	vectors, err := p.embedder.EmbedTexts(ctx, contents)
	if err != nil {
		p.logger.Error("error embedding chunks", "filename", filename, "chunks", len(contents), "err", err)
		return nil, err
	}
	if len(vectors) != len(units) {
		p.logger.Error("embedder returned wrong vector count",
			"filename", filename, "want", len(units), "got", len(vectors))
		return nil, ErrEmbeddingCountMismatch
	}

	stored := make([]*core.EvidenceUnit, len(units))
	for i := range units {
		units[i].Vector = vectors[i]
		stored[i] = &units[i]
	}

	if _, err := p.evidence.AddEvidenceUnits(ctx, stored...); err != nil {
		p.logger.Error("error storing evidence units", "filename", filename, "err", err)
		return nil, err
	}

	p.logger.Info("document ingested", "filename", filename, "units", len(units))
	return &Result{Filename: filename, Units: len(units)}, nil
}

// IngestAll ingests multiple documents concurrently on the worker pool.
// Results are returned in input order. The first error wins; remaining
// documents still run to completion.
func (p *Pipeline) IngestAll(ctx context.Context, sources ...PageTextSource) ([]*Result, error) {
	results := make([]*Result, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = p.Ingest(ctx, source)
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
