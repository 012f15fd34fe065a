package ingestion

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Chunker splits text into token-bounded chunks with optional overlap
type Chunker struct {
	enc     *tiktoken.Tiktoken
	size    int
	overlap int
}

// NewChunker creates a chunker for the given tiktoken encoding
func NewChunker(encoding string, size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d", overlap)
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", encoding, err)
	}

	return &Chunker{
		enc:     enc,
		size:    size,
		overlap: overlap,
	}, nil
}

// Chunk splits text into pieces of at most size tokens, each sharing
// overlap tokens with its predecessor
func (c *Chunker) Chunk(text string) []string {
	tokens := c.enc.Encode(text, nil, nil)

	var chunks []string
	for _, w := range tokenWindows(len(tokens), c.size, c.overlap) {
		chunks = append(chunks, c.enc.Decode(tokens[w[0]:w[1]]))
	}
	return chunks
}

// tokenWindows computes [start, end) slices covering n tokens with
// windows of at most size tokens overlapping by overlap
func tokenWindows(n, size, overlap int) [][2]int {
	if n == 0 {
		return nil
	}

	step := size - overlap
	var windows [][2]int
	for start := 0; start < n; start += step {
		end := start + size
		if end > n {
			end = n
		}
		windows = append(windows, [2]int{start, end})
		if end == n {
			break
		}
	}
	return windows
}

// TokenCount returns the number of tokens in the text
func (c *Chunker) TokenCount(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}
