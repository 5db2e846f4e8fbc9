package relevance

import "strings"

// RefineExcerpt cleans a section's raw text for output: line-break artifacts
// collapse into single spaces and the result is truncated to maxChars at a
// sentence boundary where possible, falling back to a word boundary.
func RefineExcerpt(text string, maxChars int) string {
	text = strings.Join(strings.Fields(text), " ")
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}

	var out strings.Builder
	for _, sent := range splitSentences(text) {
		if out.Len() > 0 && out.Len()+len(sent)+1 > maxChars {
			break
		}
		if out.Len()+len(sent) > maxChars {
			// First sentence alone exceeds the bound: cut at a word.
			out.WriteString(truncateWords(sent, maxChars))
			break
		}
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(sent)
	}
	return strings.TrimSpace(out.String()) + "..."
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by a space.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}
	return sentences
}

func truncateWords(text string, maxChars int) string {
	words := strings.Fields(text)
	var out strings.Builder
	for _, w := range words {
		if out.Len()+len(w)+1 > maxChars {
			break
		}
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(w)
	}
	return out.String()
}
