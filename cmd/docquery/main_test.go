package main

import (
	"testing"

	"github.com/poiesic/docquery/core"
	"github.com/stretchr/testify/assert"
)

func TestSourceLine(t *testing.T) {
	t.Run("document item", func(t *testing.T) {
		line := sourceLine(0, core.EvidenceItem{
			Source: core.SourceDocument,
			Unit: &core.EvidenceUnit{
				SourceFilename: "report.pdf",
				SectionTitle:   "Summary",
				PageStart:      3,
				PageEnd:        4,
			},
		})
		assert.Equal(t, "  1. report.pdf (page 3, Summary)", line)
	})

	t.Run("web item", func(t *testing.T) {
		line := sourceLine(1, core.EvidenceItem{
			Source: core.SourceWeb,
			Web: &core.WebResult{
				Title: "Acme Corp",
				URL:   "https://example.com/acme",
			},
		})
		assert.Equal(t, "  2. Acme Corp — https://example.com/acme", line)
	})

	t.Run("empty item", func(t *testing.T) {
		assert.Empty(t, sourceLine(0, core.EvidenceItem{}))
	})
}
