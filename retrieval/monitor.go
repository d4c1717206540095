package retrieval

import "github.com/poiesic/docquery/core"

// Monitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during evidence gathering.
type Monitor interface {
	Start(query string, decision core.RouteDecision)
	AfterDocumentSearch(units []core.ScoredUnit)
	AfterWebSearch(results []core.WebResult)
	FallbackToWeb(query string)
	Finish(evidence *core.MergedEvidence)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ core.RouteDecision)    {}
func (n *noopMonitor) AfterDocumentSearch(_ []core.ScoredUnit) {}
func (n *noopMonitor) AfterWebSearch(_ []core.WebResult)       {}
func (n *noopMonitor) FallbackToWeb(_ string)                  {}
func (n *noopMonitor) Finish(_ *core.MergedEvidence)           {}
