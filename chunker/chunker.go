// Package chunker turns extracted page text into evidence units with
// section and page provenance. Documents are segmented along detected
// structural headers first, then each section is split into
// length-bounded, overlapping chunks that avoid cutting mid-sentence.
package chunker

import (
	"strconv"
	"strings"

	"github.com/poiesic/docquery/core"
)

const (
	// DefaultChunkSize is the target chunk length in runes.
	DefaultChunkSize = 1000
	// DefaultOverlap is the overlap between consecutive chunks of a section.
	DefaultOverlap = 200

	defaultSectionTitle = "Introduction"

	// A header only starts a new section once the current one holds more
	// than this much trimmed content. Prevents spurious splits from stray
	// capitalized lines.
	minSectionRunes = 50

	// Backward search window for sentence-terminal breaks.
	sentenceWindow = 200

	// Head/tail sample length for page attribution.
	pageSampleRunes = 100
)

// Chunker converts page text into ordered evidence units.
// A Chunker is stateless after construction and safe for concurrent use.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in runes.
// Values below 1 fall back to DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between consecutive chunks in runes.
// Negative values fall back to DefaultOverlap; an overlap that is not
// smaller than the chunk size is clamped to a fifth of it.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a chunker with the default chunk size and overlap,
// then applies the provided options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.chunkSize < 1 {
		c.chunkSize = DefaultChunkSize
	}
	if c.overlap < 0 {
		c.overlap = DefaultOverlap
	}
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 5
	}
	return c
}

// ChunkSize returns the configured target chunk size in runes.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured chunk overlap in runes.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk converts the ordered pages of one document into evidence units.
// Unit SequenceIndex matches emission order, increasing gap-free from 0.
// Units with empty trimmed content are never emitted; zero pages or zero
// text yield nil.
func (c *Chunker) Chunk(pages []core.Page, sourceFilename string) []core.EvidenceUnit {
	if len(pages) == 0 {
		return nil
	}

	sections := splitSections(joinPages(pages))

	var units []core.EvidenceUnit
	for _, sec := range sections {
		for _, text := range c.splitRecursive(sec.text) {
			content := strings.TrimSpace(text)
			if content == "" {
				continue
			}
			pageStart, pageEnd := attributePages(content, pages)
			units = append(units, core.EvidenceUnit{
				Content:        content,
				SectionTitle:   sec.title,
				SourceFilename: sourceFilename,
				PageStart:      pageStart,
				PageEnd:        pageEnd,
				SequenceIndex:  len(units),
				ByteLength:     len(content),
			})
		}
	}
	return units
}

// joinPages concatenates page texts with page markers retained so that
// section text keeps a trace of page boundaries. Pages with no visible
// text are skipped so markers alone never become section content.
func joinPages(pages []core.Page) string {
	var sb strings.Builder
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		sb.WriteString("\n[Page ")
		sb.WriteString(strconv.Itoa(page.Number))
		sb.WriteString("]\n")
		sb.WriteString(page.Text)
	}
	return sb.String()
}
