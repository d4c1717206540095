package router

import "regexp"

// The routing heuristics are tables, not control flow: ordered lists of
// keywords and patterns with fixed weights, so categories can be tuned or
// extended without touching the scoring loop.

// keywordCategory is one class of web-leaning terms. Each category
// contributes the fraction of its keywords found in the query, capped at
// 1, times categoryWeight.
type keywordCategory struct {
	name     string
	keywords []string
}

var webKeywordCategories = []keywordCategory{
	{
		name:     "temporal",
		keywords: []string{"latest", "recent", "current", "today", "now", "2024", "2025", "this year"},
	},
	{
		name:     "explanatory",
		keywords: []string{"explain", "how does", "what is", "why does", "how to"},
	},
	{
		name:     "comparative",
		keywords: []string{"vs", "versus", "compare", "comparison", "alternative", "better than"},
	},
	{
		name:     "current_data",
		keywords: []string{"price", "cost", "stock", "market", "trend", "news", "update"},
	},
	{
		name:     "general_knowledge",
		keywords: []string{"define", "definition", "meaning", "who is", "what are"},
	},
}

// questionPatterns match interrogative openings that usually need external
// knowledge. Only the first match contributes.
var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bhow\s+(?:to|do|does|can)\b`),
	regexp.MustCompile(`\bwhat\s+(?:is|are|does)\b`),
	regexp.MustCompile(`\bwhy\s+(?:is|are|does|do)\b`),
	regexp.MustCompile(`\bwhen\s+(?:is|are|was|were)\b`),
	regexp.MustCompile(`\bwhere\s+(?:is|are|can)\b`),
}

// recencyPatterns match explicit cues for current information, including
// a data-encoded window of recent years. Only the first match contributes.
var recencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(today|now|currently|this\s+(?:year|month|week))\b`),
	regexp.MustCompile(`\b202[4-9]\b`),
	regexp.MustCompile(`\b(?:latest|recent|new|updated)\b`),
}

// documentKeywords are explicit references to uploaded material. Every
// occurrence accumulates.
var documentKeywords = []string{
	"according to", "in the document", "from the file", "mentioned in",
	"states that", "document says", "written in", "specified in",
}

// documentPatterns match positional references into the corpus. Every
// matching pattern accumulates.
var documentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bin\s+(?:the|this|that)\s+(?:document|file|pdf|report)\b`),
	regexp.MustCompile(`\baccording\s+to\b`),
	regexp.MustCompile(`\bmentioned\s+(?:in|above|below)\b`),
	regexp.MustCompile(`\bsection\s+\d+\b`),
	regexp.MustCompile(`\bpage\s+\d+\b`),
	regexp.MustCompile(`\bchapter\s+\d+\b`),
}

// contentQueryPatterns match requests about the corpus content itself.
// Every matching pattern accumulates.
var contentQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bwhat\s+does\s+(?:the|this)\s+document\s+say\b`),
	regexp.MustCompile(`\bfind\s+(?:in|from)\s+(?:the|this)\b`),
	regexp.MustCompile(`\bsummarize\s+(?:the|this)\b`),
	regexp.MustCompile(`\blist\s+(?:all|the)\b`),
}

// Scoring weights.
const (
	categoryWeight     = 0.2
	questionBonus      = 0.3
	recencyBonus       = 0.4
	documentKeywordInc = 0.5
	documentPatternInc = 0.3
	contentQueryInc    = 0.4
)
