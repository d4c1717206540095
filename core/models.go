package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Page is one page of extracted document text, as supplied by a page text
// source. Number is 1-based.
type Page struct {
	Number int
	Text   string
}

// EvidenceUnit is one retrievable chunk of a source document, carrying
// section and page provenance. Units are created once by the chunker and
// never mutated afterwards; ownership transfers to the evidence index on
// ingestion.
type EvidenceUnit struct {
	Id             ID
	Content        string // trimmed chunk text, never empty
	SectionTitle   string // best-effort structural section label
	SourceFilename string
	PageStart      int       // 1-based, PageStart <= PageEnd
	PageEnd        int
	SequenceIndex  int       // emission order within one document, gap-free from 0
	ByteLength     int       // len(Content), informational
	Vector         []float32 // embedding, populated by ingestion
	InsertedAt     time.Time // set by storage
}

// Fingerprint returns a string that uniquely identifies the unit within a
// corpus: source, position, and content. Used for content-addressed IDs.
func (u *EvidenceUnit) Fingerprint() string {
	return fmt.Sprintf("%s#%d:%s", u.SourceFilename, u.SequenceIndex, u.Content)
}

// Route identifies the evidence source strategy chosen for a query.
type Route int

const (
	// RouteDocument searches the local document corpus.
	RouteDocument Route = iota + 1
	// RouteWeb searches the open web.
	RouteWeb
	// RouteHybrid combines both sources.
	RouteHybrid
)

// String returns the wire name of the route.
func (r Route) String() string {
	switch r {
	case RouteDocument:
		return "document"
	case RouteWeb:
		return "web"
	case RouteHybrid:
		return "hybrid"
	default:
		return fmt.Sprintf("route(%d)", int(r))
	}
}

// RouteDecision is the router's output for one query. It is ephemeral:
// produced and consumed within a single query handling cycle.
type RouteDecision struct {
	Route      Route
	Confidence float64 // in [0, 1]
	Reason     string  // diagnostic only, not parsed
}

// WebSourceKind classifies where a web result came from within the
// search provider's response.
type WebSourceKind string

const (
	WebSourceWeb            WebSourceKind = "web"
	WebSourceAnswerBox      WebSourceKind = "answer_box"
	WebSourceKnowledgeGraph WebSourceKind = "knowledge_graph"
	WebSourceNews           WebSourceKind = "news"
	WebSourceImage          WebSourceKind = "image"
)

// WebResult is one result from the web search provider, consumed as given.
type WebResult struct {
	Title      string
	URL        string
	Snippet    string
	SourceKind WebSourceKind
	Date       string // news results only
	ImageURL   string // image results only
}

// ScoredUnit is one document search hit: an evidence unit with the
// relevance distance reported by the index (lower is more relevant).
// The order returned by the index is preserved downstream; this layer
// never re-ranks.
type ScoredUnit struct {
	Unit     *EvidenceUnit
	Distance float32
}

// EvidenceSource tags which collaborator produced an evidence item.
type EvidenceSource int

const (
	// SourceDocument marks evidence retrieved from the document index.
	SourceDocument EvidenceSource = iota + 1
	// SourceWeb marks evidence retrieved from the web search provider.
	SourceWeb
)

// String returns the tag name of the source.
func (s EvidenceSource) String() string {
	switch s {
	case SourceDocument:
		return "document"
	case SourceWeb:
		return "web"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// EvidenceItem is one entry of a merged evidence list. Exactly one of
// Unit or Web is set, according to Source.
type EvidenceItem struct {
	Source   EvidenceSource
	Unit     *EvidenceUnit // set when Source == SourceDocument
	Distance float32       // index distance, document items only
	Web      *WebResult    // set when Source == SourceWeb
}

// MergedEvidence is the retrieval orchestrator's output: source-tagged
// evidence items in merge order (document items first when both sources
// contributed), plus the flags the synthesis layer needs to explain gaps.
type MergedEvidence struct {
	Route        Route
	Items        []EvidenceItem
	WebAvailable bool   // false when the web capability was absent
	Message      string // set only for structured "no evidence" outcomes
}

// DocumentItems returns the document-tagged items in merge order.
func (m *MergedEvidence) DocumentItems() []EvidenceItem {
	return m.itemsBySource(SourceDocument)
}

// WebItems returns the web-tagged items in merge order.
func (m *MergedEvidence) WebItems() []EvidenceItem {
	return m.itemsBySource(SourceWeb)
}

func (m *MergedEvidence) itemsBySource(source EvidenceSource) []EvidenceItem {
	var items []EvidenceItem
	for _, item := range m.Items {
		if item.Source == source {
			items = append(items, item)
		}
	}
	return items
}

// Empty reports whether the merged evidence contains no items.
func (m *MergedEvidence) Empty() bool {
	return len(m.Items) == 0
}
