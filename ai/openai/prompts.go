package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/docquery/core"
)

const documentPromptTemplate = `You are a helpful assistant that answers questions based on provided document content.

Context from documents:
%s

Question: %s

Instructions:
- Answer the question using ONLY the information provided in the document context
- If the information is not available in the documents, say so clearly
- Cite specific documents and page numbers when possible
- Be comprehensive but concise
- If multiple documents contain relevant information, synthesize them appropriately

Answer:`

const webPromptTemplate = `You are a helpful assistant that answers questions based on web search results.

Web search results:
%s

Question: %s

Instructions:
- Answer the question using the information from the web search results
- Synthesize information from multiple sources when relevant
- Be factual and cite sources appropriately
- If the search results don't contain sufficient information, mention this
- Provide a comprehensive but concise answer

Answer:`

const hybridPromptTemplate = `You are a helpful assistant that answers questions using both document content and web information.

Document Context:
%s

Web Information:
%s

Question: %s

Instructions:
- Combine information from both documents and web sources to provide a comprehensive answer
- Clearly distinguish between information from documents vs. web sources
- If there are conflicts between sources, mention this
- Prioritize document content for specific details about uploaded materials
- Use web information for context, current data, or additional explanations
- Be comprehensive but well-organized

Answer:`

// buildPrompt selects the prompt template matching the evidence route and
// fills it with the formatted evidence context.
func buildPrompt(query string, evidence *core.MergedEvidence) string {
	switch evidence.Route {
	case core.RouteWeb:
		return fmt.Sprintf(webPromptTemplate, formatWebContext(evidence.WebItems()), query)
	case core.RouteHybrid:
		return fmt.Sprintf(hybridPromptTemplate,
			formatDocumentContext(evidence.DocumentItems()),
			formatWebContext(evidence.WebItems()),
			query)
	default:
		return fmt.Sprintf(documentPromptTemplate, formatDocumentContext(evidence.DocumentItems()), query)
	}
}

// formatDocumentContext renders document evidence for the prompt, one
// numbered block per chunk with its provenance.
func formatDocumentContext(items []core.EvidenceItem) string {
	if len(items) == 0 {
		return "No document content available."
	}

	var parts []string
	for i, item := range items {
		unit := item.Unit
		parts = append(parts, fmt.Sprintf("\nDocument %d: %s (Page %d, Section: %s)\nContent: %s\n",
			i+1, unit.SourceFilename, unit.PageStart, unit.SectionTitle, unit.Content))
	}
	return strings.Join(parts, "\n")
}

// formatWebContext renders web evidence for the prompt.
func formatWebContext(items []core.EvidenceItem) string {
	if len(items) == 0 {
		return "No web information available."
	}

	var parts []string
	for i, item := range items {
		result := item.Web
		parts = append(parts, fmt.Sprintf("\nSource %d: %s (%s)\nURL: %s\nContent: %s\n",
			i+1, result.Title, result.SourceKind, result.URL, result.Snippet))
	}
	return strings.Join(parts, "\n")
}
