package chunker

import (
	"regexp"
	"strings"
)

// section is a contiguous stretch of document text under one structural
// header.
type section struct {
	title string
	text  string
}

// headerPatterns is the ordered table of line shapes treated as structural
// headers. Kept as data so the set can be tuned without touching the scan.
var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z\s]{3,}$`),                         // ALL CAPS lines
	regexp.MustCompile(`^\d+\.\s+[A-Z].*$`),                     // numbered headings
	regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*:?\s*$`), // Title Case lines
	regexp.MustCompile(`^\*\*.*\*\*$`),                          // bold markdown
	regexp.MustCompile(`^#+\s+.*$`),                             // markdown headings
}

func isHeader(line string) bool {
	for _, pattern := range headerPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

// splitSections scans the document line by line and groups content under
// detected headers. The first section defaults to a generic title when no
// header preceded it; blank lines are kept as paragraph breaks.
func splitSections(text string) []section {
	var sections []section
	current := section{title: defaultSectionTitle}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			current.text += "\n"
			continue
		}

		if isHeader(line) && len([]rune(strings.TrimSpace(current.text))) > minSectionRunes {
			sections = append(sections, current)
			current = section{title: line}
			continue
		}
		current.text += line + "\n"
	}

	if strings.TrimSpace(current.text) != "" {
		sections = append(sections, current)
	}
	return sections
}
