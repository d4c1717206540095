package chunker

import (
	"strings"
	"unicode/utf8"
)

// sentenceTerminators mark acceptable break points, searched backward from
// the target boundary. The latest match wins.
var sentenceTerminators = []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}

// splitRecursive splits section text into chunks of at most chunkSize
// runes, overlapping consecutive chunks by the configured overlap. The
// next chunk start is clamped to always advance, so progress is
// guaranteed even when the overlap reaches the remaining length.
func (c *Chunker) splitRecursive(text string) []string {
	runes := []rune(text)
	if len(runes) <= c.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		breakPoint := findSentenceBreak(runes, start, end)
		if breakPoint == -1 {
			breakPoint = end
		}
		chunks = append(chunks, string(runes[start:breakPoint]))

		next := breakPoint - c.overlap
		if next < 0 {
			next = 0
		}
		if next <= start {
			next = breakPoint
		}
		start = next
	}
	return chunks
}

// findSentenceBreak returns the rune index just past the best
// sentence-terminal punctuation in the last sentenceWindow runes before
// end, or -1 when the window holds none.
func findSentenceBreak(runes []rune, start, end int) int {
	searchStart := end - sentenceWindow
	if searchStart < start {
		searchStart = start
	}
	window := string(runes[searchStart:end])

	best := -1
	for _, term := range sentenceTerminators {
		pos := strings.LastIndex(window, term)
		if pos == -1 {
			continue
		}
		// Byte offset back to rune offset within the window.
		candidate := searchStart + utf8.RuneCountInString(window[:pos]) + len(term)
		if candidate > best {
			best = candidate
		}
	}
	return best
}
