package answer

import (
	"fmt"
	"strings"

	dretr "github.com/volna-cloud/kontext/internal/domain/retrieval"
)

const systemPreamble = `You are a support assistant. Answer the user's question using only the numbered excerpts below. Cite excerpt numbers like [1] where relevant. If the excerpts do not contain the answer, say you do not know.

Excerpts:
`

// buildSystemPrompt stitches the fused passages into a numbered excerpt
// block. Each excerpt is capped at maxRunes runes so one oversized passage
// cannot crowd out the rest of the context window.
func buildSystemPrompt(passages []dretr.Passage, maxRunes int) string {
	var b strings.Builder
	b.WriteString(systemPreamble)
	for i, p := range passages {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, truncateRunes(p.Payload().Text(), maxRunes))
	}
	return b.String()
}

// truncateRunes cuts s to at most n runes, never splitting a multi-byte
// character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
