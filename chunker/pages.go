package chunker

import (
	"strings"

	"github.com/poiesic/docquery/core"
)

// attributePages finds the page span of a chunk by substring containment:
// the earliest page containing the chunk's head sample and the latest page
// containing its tail sample. O(chunks x pages), acceptable because a
// document is chunked once at upload.
//
// A sample that recurs verbatim across pages (running headers, footers)
// can mis-attribute; the first/last containment wins in that case.
func attributePages(content string, pages []core.Page) (pageStart, pageEnd int) {
	head := strings.TrimSpace(headRunes(content, pageSampleRunes))
	tail := strings.TrimSpace(tailRunes(content, pageSampleRunes))

	for _, page := range pages {
		if pageStart == 0 && head != "" && strings.Contains(page.Text, head) {
			pageStart = page.Number
		}
		if tail != "" && strings.Contains(page.Text, tail) {
			pageEnd = page.Number
		}
	}

	if pageStart == 0 {
		pageStart = 1
	}
	if pageEnd < pageStart {
		pageEnd = pageStart
	}
	return pageStart, pageEnd
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
