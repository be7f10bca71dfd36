package chunker

import "strings"

// CountTokens approximates the model token count of text by counting
// whitespace-delimited fields. The approximation only has to be
// consistent: the same counter sizes chunks at build time and enforces
// the context budget at query time, so budgets stay comparable.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}

// splitParagraphs splits text on blank lines, trimming each paragraph
// and dropping empty ones.
func splitParagraphs(text string) []string {
	var paras []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// splitSentences splits text into sentences on common terminators.
// Used only when a single paragraph exceeds the chunk target.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
