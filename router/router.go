// Package router decides, per query, which evidence sources to consult:
// the local document corpus, the open web, or both. Routing is a pure
// scoring function over the query string; it never fails and holds no
// state between queries.
package router

import (
	"strings"

	"github.com/poiesic/docquery/core"
)

// Default decision thresholds. The asymmetry (0.7 web vs 0.6 document)
// biases ambiguous queries toward the user's own corpus.
const (
	DefaultWebThreshold      = 0.7
	DefaultDocumentThreshold = 0.6
	DefaultHybridFloor       = 0.4

	defaultConfidence = 0.5
)

// Fixed, branch-specific reason strings.
const (
	reasonNoDocuments = "No documents available"
	reasonWeb         = "Query suggests need for current/external information"
	reasonDocument    = "Query appears to reference document content"
	reasonHybrid      = "Query could benefit from both sources"
	reasonDefault     = "Default to document search"
)

// Router scores queries against the web and document heuristics and picks
// a route. Safe for concurrent use.
type Router struct {
	webThreshold      float64
	documentThreshold float64
	hybridFloor       float64
}

// Option configures a Router.
type Option func(*Router)

// WithWebThreshold overrides the score above which a query routes to the web.
func WithWebThreshold(threshold float64) Option {
	return func(r *Router) {
		r.webThreshold = threshold
	}
}

// WithDocumentThreshold overrides the score above which a query routes to
// the document corpus.
func WithDocumentThreshold(threshold float64) Option {
	return func(r *Router) {
		r.documentThreshold = threshold
	}
}

// WithHybridFloor overrides the floor both scores must clear for a hybrid
// route.
func WithHybridFloor(floor float64) Option {
	return func(r *Router) {
		r.hybridFloor = floor
	}
}

// New creates a router with the default thresholds, then applies options.
func New(opts ...Option) *Router {
	r := &Router{
		webThreshold:      DefaultWebThreshold,
		documentThreshold: DefaultDocumentThreshold,
		hybridFloor:       DefaultHybridFloor,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route decides the evidence source strategy for a query. It is total and
// deterministic: every input yields exactly one decision with confidence
// in [0, 1].
func (r *Router) Route(query string, corpusNonEmpty bool) core.RouteDecision {
	// Nothing to search locally.
	if !corpusNonEmpty {
		return core.RouteDecision{
			Route:      core.RouteWeb,
			Confidence: 1.0,
			Reason:     reasonNoDocuments,
		}
	}

	lower := strings.ToLower(query)
	webScore := webScore(lower)
	documentScore := documentScore(lower)

	switch {
	case webScore > r.webThreshold:
		return core.RouteDecision{
			Route:      core.RouteWeb,
			Confidence: webScore,
			Reason:     reasonWeb,
		}
	case documentScore > r.documentThreshold:
		return core.RouteDecision{
			Route:      core.RouteDocument,
			Confidence: documentScore,
			Reason:     reasonDocument,
		}
	case webScore > r.hybridFloor && documentScore > r.hybridFloor:
		return core.RouteDecision{
			Route:      core.RouteHybrid,
			Confidence: (webScore + documentScore) / 2,
			Reason:     reasonHybrid,
		}
	default:
		return core.RouteDecision{
			Route:      core.RouteDocument,
			Confidence: defaultConfidence,
			Reason:     reasonDefault,
		}
	}
}

// Explain renders a user-facing explanation for a decision.
func (r *Router) Explain(decision core.RouteDecision) string {
	switch decision.Route {
	case core.RouteWeb:
		return "I'll search the web because this query involves current information, comparisons, or general knowledge that may not be in your documents."
	case core.RouteHybrid:
		return "I'll search both your documents and the web to provide a comprehensive answer combining your specific content with current information."
	default:
		return "I'll search your uploaded documents because this query appears to be asking about specific content you've provided."
	}
}

// webScore measures how strongly a query calls for current or external
// information. Capped at 1.
func webScore(query string) float64 {
	var score float64

	for _, category := range webKeywordCategories {
		hits := 0
		for _, keyword := range category.keywords {
			if strings.Contains(query, keyword) {
				hits++
			}
		}
		fraction := float64(hits) / float64(len(category.keywords))
		if fraction > 1 {
			fraction = 1
		}
		score += fraction * categoryWeight
	}

	for _, pattern := range questionPatterns {
		if pattern.MatchString(query) {
			score += questionBonus
			break
		}
	}

	for _, pattern := range recencyPatterns {
		if pattern.MatchString(query) {
			score += recencyBonus
			break
		}
	}

	return capScore(score)
}

// documentScore measures how strongly a query references the uploaded
// corpus. Increments accumulate; capped at 1.
func documentScore(query string) float64 {
	var score float64

	for _, keyword := range documentKeywords {
		if strings.Contains(query, keyword) {
			score += documentKeywordInc
		}
	}

	for _, pattern := range documentPatterns {
		if pattern.MatchString(query) {
			score += documentPatternInc
		}
	}

	for _, pattern := range contentQueryPatterns {
		if pattern.MatchString(query) {
			score += contentQueryInc
		}
	}

	return capScore(score)
}

func capScore(score float64) float64 {
	if score > 1 {
		return 1
	}
	return score
}
