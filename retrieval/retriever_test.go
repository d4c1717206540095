package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/docquery/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDocumentSearcher struct {
	calls int
	lastK int
	units []core.ScoredUnit
	err   error
}

func (s *stubDocumentSearcher) Search(_ context.Context, _ string, k int) ([]core.ScoredUnit, error) {
	s.calls++
	s.lastK = k
	return s.units, s.err
}

type stubWebSearcher struct {
	calls   int
	results []core.WebResult
	err     error
}

func (s *stubWebSearcher) Search(_ context.Context, _ string) ([]core.WebResult, error) {
	s.calls++
	return s.results, s.err
}

func scoredUnits(contents ...string) []core.ScoredUnit {
	units := make([]core.ScoredUnit, 0, len(contents))
	for i, content := range contents {
		units = append(units, core.ScoredUnit{
			Unit: &core.EvidenceUnit{
				Content:        content,
				SourceFilename: "report.pdf",
				PageStart:      1,
				PageEnd:        1,
				SequenceIndex:  i,
			},
			Distance: float32(i) * 0.1,
		})
	}
	return units
}

func webResults(titles ...string) []core.WebResult {
	results := make([]core.WebResult, 0, len(titles))
	for _, title := range titles {
		results = append(results, core.WebResult{
			Title:      title,
			URL:        "https://example.com",
			Snippet:    "snippet for " + title,
			SourceKind: core.WebSourceWeb,
		})
	}
	return results
}

func TestNewRetriever_RequiresDocumentSearcher(t *testing.T) {
	_, err := NewRetriever(nil)
	assert.ErrorIs(t, err, ErrDocumentSearcherRequired)
}

func TestRetrieve_DocumentRoute(t *testing.T) {
	docs := &stubDocumentSearcher{units: scoredUnits("alpha", "beta")}
	r, err := NewRetriever(docs)
	require.NoError(t, err)
	defer r.Release()

	evidence, err := r.Retrieve(context.Background(), "query",
		core.RouteDecision{Route: core.RouteDocument, Confidence: 0.8, Reason: "test"})
	require.NoError(t, err)

	assert.Equal(t, DefaultDocumentK, docs.lastK)
	assert.Equal(t, core.RouteDocument, evidence.Route)
	require.Len(t, evidence.Items, 2)
	for _, item := range evidence.Items {
		assert.Equal(t, core.SourceDocument, item.Source)
	}
	assert.Equal(t, "alpha", evidence.Items[0].Unit.Content)
	assert.Equal(t, "beta", evidence.Items[1].Unit.Content)
	assert.Empty(t, evidence.Message)
}

func TestRetrieve_DocumentRouteFallsBackToWeb(t *testing.T) {
	docs := &stubDocumentSearcher{}
	web := &stubWebSearcher{results: webResults("fresh news")}
	r, err := NewRetriever(docs, WithWebSearcher(web))
	require.NoError(t, err)
	defer r.Release()

	evidence, err := r.Retrieve(context.Background(), "query",
		core.RouteDecision{Route: core.RouteDocument, Confidence: 0.8, Reason: "test"})
	require.NoError(t, err)

	assert.Equal(t, 1, docs.calls)
	assert.Equal(t, 1, web.calls, "web fallback must run exactly once")
	require.Len(t, evidence.Items, 1)
	assert.Equal(t, core.SourceWeb, evidence.Items[0].Source)
	assert.Equal(t, "fresh news", evidence.Items[0].Web.Title)
	assert.True(t, evidence.WebAvailable)
}

func TestRetrieve_DocumentRouteNoEvidenceNoWeb(t *testing.T) {
	docs := &stubDocumentSearcher{}
	r, err := NewRetriever(docs)
	require.NoError(t, err)
	defer r.Release()

	evidence, err := r.Retrieve(context.Background(), "query",
		core.RouteDecision{Route: core.RouteDocument, Confidence: 0.5, Reason: "test"})
	require.NoError(t, err)

	assert.True(t, evidence.Empty())
	assert.False(t, evidence.WebAvailable)
	assert.NotEmpty(t, evidence.Message)
}

func TestRetrieve_WebRoute(t *testing.T) {
	docs := &stubDocumentSearcher{units: scoredUnits("unused")}
	web := &stubWebSearcher{results: webResults("first", "second")}
	r, err := NewRetriever(docs, WithWebSearcher(web))
	require.NoError(t, err)
	defer r.Release()

	evidence, err := r.Retrieve(context.Background(), "query",
		core.RouteDecision{Route: core.RouteWeb, Confidence: 0.9, Reason: "test"})
	require.NoError(t, err)

	assert.Zero(t, docs.calls)
	require.Len(t, evidence.Items, 2)
	assert.Equal(t, "first", evidence.Items[0].Web.Title)
	assert.Equal(t, "second", evidence.Items[1].Web.Title)
}

func TestRetrieve_WebRouteUnavailable(t *testing.T) {
	docs := &stubDocumentSearcher{units: scoredUnits("unused")}
	r, err := NewRetriever(docs)
	require.NoError(t, err)
	defer r.Release()

	evidence, err := r.Retrieve(context.Background(), "query",
		core.RouteDecision{Route: core.RouteWeb, Confidence: 1.0, Reason: "test"})
	require.NoError(t, err)

	assert.True(t, evidence.Empty())
	assert.False(t, evidence.WebAvailable)
	assert.NotEmpty(t, evidence.Message)
}

func TestRetrieve_HybridMergesDocumentFirst(t *testing.T) {
	docs := &stubDocumentSearcher{units: scoredUnits("alpha", "beta")}
	web := &stubWebSearcher{results: webResults("gamma")}
	r, err := NewRetriever(docs, WithWebSearcher(web))
	require.NoError(t, err)
	defer r.Release()

	evidence, err := r.Retrieve(context.Background(), "query",
		core.RouteDecision{Route: core.RouteHybrid, Confidence: 0.5, Reason: "test"})
	require.NoError(t, err)

	assert.Equal(t, DefaultHybridK, docs.lastK)
	assert.Equal(t, 1, web.calls)
	require.Len(t, evidence.Items, 3)
	assert.Equal(t, core.SourceDocument, evidence.Items[0].Source)
	assert.Equal(t, core.SourceDocument, evidence.Items[1].Source)
	assert.Equal(t, core.SourceWeb, evidence.Items[2].Source)
	assert.Equal(t, "alpha", evidence.Items[0].Unit.Content)
	assert.Equal(t, "gamma", evidence.Items[2].Web.Title)
	assert.True(t, evidence.WebAvailable)
}

func TestRetrieve_HybridDegradesWithoutWeb(t *testing.T) {
	docs := &stubDocumentSearcher{units: scoredUnits("alpha")}
	r, err := NewRetriever(docs)
	require.NoError(t, err)
	defer r.Release()

	evidence, err := r.Retrieve(context.Background(), "query",
		core.RouteDecision{Route: core.RouteHybrid, Confidence: 0.5, Reason: "test"})
	require.NoError(t, err)

	require.Len(t, evidence.Items, 1)
	assert.Equal(t, core.SourceDocument, evidence.Items[0].Source)
	assert.False(t, evidence.WebAvailable)
	assert.Empty(t, evidence.Message)
}

func TestRetrieve_DocumentErrorIsTagged(t *testing.T) {
	cause := errors.New("index offline")
	docs := &stubDocumentSearcher{err: cause}
	r, err := NewRetriever(docs)
	require.NoError(t, err)
	defer r.Release()

	for _, route := range []core.Route{core.RouteDocument, core.RouteHybrid} {
		_, err := r.Retrieve(context.Background(), "query",
			core.RouteDecision{Route: route, Confidence: 0.5, Reason: "test"})
		assert.ErrorIs(t, err, ErrDocumentSearchFailed, "route %s", route)
		assert.ErrorIs(t, err, cause, "route %s", route)
	}
}

func TestRetrieve_WebErrorIsTagged(t *testing.T) {
	cause := errors.New("quota exceeded")
	docs := &stubDocumentSearcher{}
	web := &stubWebSearcher{err: cause}
	r, err := NewRetriever(docs, WithWebSearcher(web))
	require.NoError(t, err)
	defer r.Release()

	for _, route := range []core.Route{core.RouteWeb, core.RouteHybrid, core.RouteDocument} {
		_, err := r.Retrieve(context.Background(), "query",
			core.RouteDecision{Route: route, Confidence: 0.5, Reason: "test"})
		assert.ErrorIs(t, err, ErrWebSearchFailed, "route %s", route)
		assert.ErrorIs(t, err, cause, "route %s", route)
	}
}

type recordingMonitor struct {
	started  bool
	docUnits int
	webHits  int
	fellBack bool
	finished bool
}

func (m *recordingMonitor) Start(_ string, _ core.RouteDecision)    { m.started = true }
func (m *recordingMonitor) AfterDocumentSearch(u []core.ScoredUnit) { m.docUnits = len(u) }
func (m *recordingMonitor) AfterWebSearch(r []core.WebResult)       { m.webHits = len(r) }
func (m *recordingMonitor) FallbackToWeb(_ string)                  { m.fellBack = true }
func (m *recordingMonitor) Finish(_ *core.MergedEvidence)           { m.finished = true }

func TestRetrieveWithMonitor(t *testing.T) {
	docs := &stubDocumentSearcher{}
	web := &stubWebSearcher{results: webResults("hit")}
	r, err := NewRetriever(docs, WithWebSearcher(web))
	require.NoError(t, err)
	defer r.Release()

	monitor := &recordingMonitor{}
	_, err = r.RetrieveWithMonitor(context.Background(), "query",
		core.RouteDecision{Route: core.RouteDocument, Confidence: 0.5, Reason: "test"}, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.True(t, monitor.fellBack)
	assert.Equal(t, 0, monitor.docUnits)
	assert.Equal(t, 1, monitor.webHits)
	assert.True(t, monitor.finished)
}
