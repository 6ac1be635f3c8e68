package text

import (
	"github.com/tmc/langchaingo/textsplitter"
)

// RecursiveSplitter splits on structural boundaries (paragraphs, lines,
// sentences) before falling back to hard cuts. The separator list includes
// full-width and ideographic punctuation so that CJK notes split on sentence
// boundaries too.
type RecursiveSplitter struct {
	inner textsplitter.RecursiveCharacter
}

func NewRecursiveSplitter(size, overlap int) RecursiveSplitter {
	return RecursiveSplitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators([]string{
				"\n\n",
				"\n",
				" ",
				".",
				",",
				"​", // zero-width space
				"，", // full-width comma
				"、", // ideographic comma
				"．", // full-width full stop
				"。", // ideographic full stop
				"",
			}),
		),
	}
}

func (r RecursiveSplitter) Chunk(text string) ([]string, error) {
	return r.inner.SplitText(text)
}
