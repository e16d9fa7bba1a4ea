package ingest

import "strings"

// Chunking defaults, in words.
const (
	DefaultChunkWords   = 800
	DefaultOverlapWords = 120
)

// chunkWords splits text into overlapping word windows. The overlap keeps
// sentences that straddle a window boundary retrievable from both sides.
func chunkWords(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkWords
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
