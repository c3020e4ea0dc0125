// Package chunk splits normalized text into bounded-size pieces for a
// size-limited backend. Splitting is a fixed-width partition by character
// (rune) count with no overlap, so concatenating the chunks in order
// reproduces the input exactly.
package chunk

import (
	"iter"
	"unicode/utf8"

	"github.com/gaurav-prasanna/pagesift/core"
)

// DefaultMaxLength is the chunk bound used when none is configured.
const DefaultMaxLength = 6000

// Chunker splits text into chunks of at most MaxLength characters.
type Chunker struct {
	MaxLength int
}

// New creates a Chunker with the given bound.
// Defaults to DefaultMaxLength if maxLength is 0; negative bounds are
// rejected later by Chunk.
func New(maxLength int) *Chunker {
	if maxLength == 0 {
		maxLength = DefaultMaxLength
	}
	return &Chunker{MaxLength: maxLength}
}

// Chunk splits the input text into slices of at most MaxLength characters.
func (c *Chunker) Chunk(text string) ([]string, error) {
	return Split(text, c.MaxLength)
}

// Split partitions text into contiguous slices of at most maxLength
// characters. The last slice may be shorter. Empty text yields no chunks.
func Split(text string, maxLength int) ([]string, error) {
	seq, err := Chunks(text, maxLength)
	if err != nil {
		return nil, err
	}
	chunks := make([]string, 0, Count(text, maxLength))
	for c := range seq {
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// Chunks returns a lazy sequence over the chunks of text. The sequence can
// be ranged over any number of times and always yields the same chunks.
func Chunks(text string, maxLength int) (iter.Seq[string], error) {
	if maxLength <= 0 {
		return nil, core.InvalidArg("chunk", "max length must be positive, got %d", maxLength)
	}
	return func(yield func(string) bool) {
		start, n := 0, 0
		for i := range text {
			if n == maxLength {
				if !yield(text[start:i]) {
					return
				}
				start, n = i, 0
			}
			n++
		}
		if start < len(text) {
			yield(text[start:])
		}
	}, nil
}

// Count returns the number of chunks Split would produce, or 0 for a
// non-positive bound.
func Count(text string, maxLength int) int {
	if maxLength <= 0 {
		return 0
	}
	n := utf8.RuneCountInString(text)
	return (n + maxLength - 1) / maxLength
}
