package router

import (
	"testing"

	"github.com/poiesic/docquery/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute_NoCorpusShortcut(t *testing.T) {
	r := New()

	queries := []string{
		"",
		"anything at all",
		"According to the document, what is mentioned in section 3?",
		"What is the latest stock price of Acme Corp?",
	}
	for _, query := range queries {
		decision := r.Route(query, false)
		assert.Equal(t, core.RouteWeb, decision.Route, "query %q", query)
		assert.Equal(t, 1.0, decision.Confidence, "query %q", query)
	}
}

func TestRoute_Decisions(t *testing.T) {
	r := New()

	tests := []struct {
		name      string
		query     string
		wantRoute core.Route
	}{
		{
			name:      "recency and market terms route to web",
			query:     "What is the latest stock price of Acme Corp?",
			wantRoute: core.RouteWeb,
		},
		{
			name:      "explicit document references route to documents",
			query:     "According to the document, what is mentioned in section 3?",
			wantRoute: core.RouteDocument,
		},
		{
			name:      "mixed signals land in the hybrid band",
			query:     "the latest figures as states that in the summary",
			wantRoute: core.RouteHybrid,
		},
		{
			name:      "neutral query defaults to documents",
			query:     "tell me about the project",
			wantRoute: core.RouteDocument,
		},
		{
			name:      "current year routes to web",
			query:     "how does the market look in 2026",
			wantRoute: core.RouteWeb,
		},
		{
			name:      "page reference routes to documents",
			query:     "summarize the table on page 12 from the file",
			wantRoute: core.RouteDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := r.Route(tt.query, true)
			assert.Equal(t, tt.wantRoute, decision.Route)
			assert.NotEmpty(t, decision.Reason)
		})
	}
}

func TestRoute_ExampleScenarioConfidences(t *testing.T) {
	r := New()

	web := r.Route("What is the latest stock price of Acme Corp?", true)
	require.Equal(t, core.RouteWeb, web.Route)
	assert.Greater(t, web.Confidence, 0.7)

	doc := r.Route("According to the document, what is mentioned in section 3?", true)
	require.Equal(t, core.RouteDocument, doc.Route)
	assert.Greater(t, doc.Confidence, 0.6)
}

func TestRoute_DefaultConfidence(t *testing.T) {
	r := New()

	decision := r.Route("tell me about the project", true)
	require.Equal(t, core.RouteDocument, decision.Route)
	assert.Equal(t, 0.5, decision.Confidence)
}

func TestRoute_HybridConfidenceIsAverage(t *testing.T) {
	r := New()

	decision := r.Route("the latest figures as states that in the summary", true)
	require.Equal(t, core.RouteHybrid, decision.Route)
	assert.Greater(t, decision.Confidence, 0.4)
	assert.Less(t, decision.Confidence, 0.7)
}

func TestRoute_TotalAndDeterministic(t *testing.T) {
	r := New()

	queries := []string{
		"",
		"?",
		"ALL CAPS SHOUTING QUERY",
		"latest latest latest latest",
		"according to according to according to",
		"emoji \U0001F600 and unicode éèê",
		"What is the latest stock price of Acme Corp?",
	}

	for _, query := range queries {
		for _, corpusNonEmpty := range []bool{true, false} {
			first := r.Route(query, corpusNonEmpty)
			second := r.Route(query, corpusNonEmpty)

			assert.Equal(t, first, second, "routing must be deterministic for %q", query)
			require.NoError(t, core.ValidateRouteDecision(&first),
				"query %q, corpusNonEmpty %v", query, corpusNonEmpty)
		}
	}
}

func TestRoute_ThresholdOverrides(t *testing.T) {
	// With a zero web threshold, any web signal at all wins.
	r := New(WithWebThreshold(0))
	decision := r.Route("what is a kumquat", true)
	assert.Equal(t, core.RouteWeb, decision.Route)

	// With an unreachable web threshold and a zero document threshold,
	// any document signal wins.
	r = New(WithWebThreshold(2), WithDocumentThreshold(0))
	decision = r.Route("according to the appendix", true)
	assert.Equal(t, core.RouteDocument, decision.Route)

	// Raising the hybrid floor above both scores drops to the default.
	r = New(WithHybridFloor(2))
	decision = r.Route("the latest figures as states that in the summary", true)
	assert.Equal(t, core.RouteDocument, decision.Route)
	assert.Equal(t, 0.5, decision.Confidence)
}

func TestExplain(t *testing.T) {
	r := New()

	for _, route := range []core.Route{core.RouteDocument, core.RouteWeb, core.RouteHybrid} {
		explanation := r.Explain(core.RouteDecision{Route: route})
		assert.NotEmpty(t, explanation)
	}

	assert.Contains(t, r.Explain(core.RouteDecision{Route: core.RouteWeb}), "web")
	assert.Contains(t, r.Explain(core.RouteDecision{Route: core.RouteHybrid}), "both")
}
