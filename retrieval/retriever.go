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


// Package retrieval gathers evidence for a routed query from the document
// index, the web, or both, and merges it into a single source-tagged list.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docquery/core"
)

const (
	// DefaultDocumentK is the document hit count for a document-only route.
	DefaultDocumentK = 3

	// DefaultHybridK is the document hit count for a hybrid route, kept
	// smaller because web results share the evidence budget.
	DefaultHybridK = 2

	defaultPoolSize = 2

	// User-facing sentinel messages for empty outcomes. These are results,
	// not errors, so downstream synthesis can explain the gap.
	msgNoEvidenceNoWeb = "I couldn't find relevant information in your documents and web search is not available. Please upload more documents or enable web search."
	msgWebUnavailable  = "Web search is currently unavailable. Please enable it in your environment to allow web-based answers."
)

// DocumentSearcher finds evidence units similar to a query.
type DocumentSearcher interface {
	Search(ctx context.Context, query string, k int) ([]core.ScoredUnit, error)
}

// WebSearcher finds web results for a query.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]core.WebResult, error)
}

// Retriever executes routing decisions against the configured evidence
// sources. The web searcher is optional; the retriever degrades per route
// when it is absent.
type Retriever struct {
	documents DocumentSearcher
	web       WebSearcher
	documentK int
	hybridK   int
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithWebSearcher enables the web evidence source.
// Default is no web source.
func WithWebSearcher(web WebSearcher) Option {
	return func(r *Retriever) error {
		r.web = web
		return nil
	}
}

// WithDocumentK sets the document hit count for a document-only route.
// Default is DefaultDocumentK.
func WithDocumentK(k int) Option {
	return func(r *Retriever) error {
		if k < 1 {
			k = DefaultDocumentK
		}
		r.documentK = k
		return nil
	}
}

// WithHybridK sets the document hit count for a hybrid route.
// Default is DefaultHybridK.
func WithHybridK(k int) Option {
	return func(r *Retriever) error {
		if k < 1 {
			k = DefaultHybridK
		}
		r.hybridK = k
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent hybrid legs.
// Default is 2, one worker per evidence source.
func WithPoolSize(size int) Option {
	return func(r *Retriever) error {
		if size < 1 {
			size = defaultPoolSize
		}

		if r.pool != nil {
			r.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever over the given document searcher.
func NewRetriever(documents DocumentSearcher, opts ...Option) (*Retriever, error) {
	if documents == nil {
		return nil, ErrDocumentSearcherRequired
	}

	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	r := &Retriever{
		documents: documents,
		documentK: DefaultDocumentK,
		hybridK:   DefaultHybridK,
		pool:      pool,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			pool.Release()
			return nil, err
		}
	}

	return r, nil
}

// WebAvailable reports whether a web evidence source is configured.
func (r *Retriever) WebAvailable() bool {
	return r.web != nil
}

// Release releases the worker pool. The retriever should not be used after
// calling Release.
func (r *Retriever) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Retrieve gathers evidence for a query according to a routing decision.
func (r *Retriever) Retrieve(ctx context.Context, query string, decision core.RouteDecision) (*core.MergedEvidence, error) {
	return r.RetrieveWithMonitor(ctx, query, decision, nil)
}

// RetrieveWithMonitor gathers evidence with monitoring. The monitor
// receives callbacks at each stage of the retrieval process.
//
// Collaborator errors propagate wrapped with a stage sentinel
// (ErrDocumentSearchFailed or ErrWebSearchFailed). Zero results are a
// valid outcome, never an error: on a document route they trigger a web
// fallback when available, and otherwise an explicit sentinel message.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query string, decision core.RouteDecision, monitor Monitor) (*core.MergedEvidence, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query, decision)

	var evidence *core.MergedEvidence
	var err error

	switch decision.Route {
	case core.RouteWeb:
		evidence, err = r.retrieveWeb(ctx, query, monitor)
	case core.RouteHybrid:
		evidence, err = r.retrieveHybrid(ctx, query, monitor)
	default:
		evidence, err = r.retrieveDocument(ctx, query, monitor)
	}
	if err != nil {
		return nil, err
	}

	evidence.Route = decision.Route
	monitor.Finish(evidence)
	return evidence, nil
}

func (r *Retriever) retrieveDocument(ctx context.Context, query string, monitor Monitor) (*core.MergedEvidence, error) {
	units, err := r.documents.Search(ctx, query, r.documentK)
	if err != nil {
		r.logger.Error("error searching documents", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrDocumentSearchFailed, err)
	}
	monitor.AfterDocumentSearch(units)

	if len(units) > 0 {
		return &core.MergedEvidence{
			Items:        documentItems(units),
			WebAvailable: r.WebAvailable(),
		}, nil
	}

	// Nothing in the corpus matched. Fall back to the web when we can,
	// otherwise report the gap as a message rather than an empty list.
	if !r.WebAvailable() {
		return &core.MergedEvidence{
			WebAvailable: false,
			Message:      msgNoEvidenceNoWeb,
		}, nil
	}

	monitor.FallbackToWeb(query)
	r.logger.Info("no document evidence, falling back to web", "query", query)

	results, err := r.web.Search(ctx, query)
	if err != nil {
		r.logger.Error("error searching web", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrWebSearchFailed, err)
	}
	monitor.AfterWebSearch(results)

	return &core.MergedEvidence{
		Items:        webItems(results),
		WebAvailable: true,
	}, nil
}

func (r *Retriever) retrieveWeb(ctx context.Context, query string, monitor Monitor) (*core.MergedEvidence, error) {
	if !r.WebAvailable() {
		return &core.MergedEvidence{
			WebAvailable: false,
			Message:      msgWebUnavailable,
		}, nil
	}

	results, err := r.web.Search(ctx, query)
	if err != nil {
		r.logger.Error("error searching web", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrWebSearchFailed, err)
	}
	monitor.AfterWebSearch(results)

	return &core.MergedEvidence{
		Items:        webItems(results),
		WebAvailable: true,
	}, nil
}

// retrieveHybrid runs both legs concurrently. An absent web source is not
// an error; the merge degrades to document-only evidence and the caller
// sees WebAvailable false.
func (r *Retriever) retrieveHybrid(ctx context.Context, query string, monitor Monitor) (*core.MergedEvidence, error) {
	var (
		wg      sync.WaitGroup
		units   []core.ScoredUnit
		results []core.WebResult
		docErr  error
		webErr  error
	)

	wg.Add(1)
	if err := r.pool.Submit(func() {
		defer wg.Done()
		units, docErr = r.documents.Search(ctx, query, r.hybridK)
	}); err != nil {
		wg.Done()
		return nil, err
	}

	if r.WebAvailable() {
		wg.Add(1)
		if err := r.pool.Submit(func() {
			defer wg.Done()
			results, webErr = r.web.Search(ctx, query)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	wg.Wait()

	if docErr != nil {
		r.logger.Error("error searching documents", "query", query, "err", docErr)
		return nil, fmt.Errorf("%w: %w", ErrDocumentSearchFailed, docErr)
	}
	monitor.AfterDocumentSearch(units)

	if webErr != nil {
		r.logger.Error("error searching web", "query", query, "err", webErr)
		return nil, fmt.Errorf("%w: %w", ErrWebSearchFailed, webErr)
	}
	if r.WebAvailable() {
		monitor.AfterWebSearch(results)
	}

	// Document evidence first, then web, each in its source's own order.
	items := documentItems(units)
	items = append(items, webItems(results)...)

	return &core.MergedEvidence{
		Items:        items,
		WebAvailable: r.WebAvailable(),
	}, nil
}

func documentItems(units []core.ScoredUnit) []core.EvidenceItem {
	items := make([]core.EvidenceItem, 0, len(units))
	for _, unit := range units {
		items = append(items, core.EvidenceItem{
			Source:   core.SourceDocument,
			Unit:     unit.Unit,
			Distance: unit.Distance,
		})
	}
	return items
}

func webItems(results []core.WebResult) []core.EvidenceItem {
	items := make([]core.EvidenceItem, 0, len(results))
	for _, result := range results {
		items = append(items, core.EvidenceItem{
			Source: core.SourceWeb,
			Web:    &result,
		})
	}
	return items
}
