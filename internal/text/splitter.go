package text

import "iter"

// Chunk is one window of a split document.
type Chunk struct {
	Index int
	Text  string
}

// Splitter cuts text into fixed-size windows with overlapping context.
// Size and Overlap are measured in runes; Overlap must be smaller than Size
// (config validation enforces this).
type Splitter struct {
	Size    int
	Overlap int
}

// Split yields the windows lazily. The sequence is restartable: iterating it
// again re-splits from the start. Text shorter than Size yields exactly one
// chunk; empty text yields none.
func (s Splitter) Split(text string) iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		runes := []rune(text)
		if len(runes) == 0 {
			return
		}

		step := s.Size - s.Overlap
		index := 0
		for start := 0; start < len(runes); start += step {
			end := start + s.Size
			if end > len(runes) {
				end = len(runes)
			}
			if !yield(Chunk{Index: index, Text: string(runes[start:end])}) {
				return
			}
			if end == len(runes) {
				return
			}
			index++
		}
	}
}

func (s Splitter) SplitAll(text string) []Chunk {
	var chunks []Chunk
	for chunk := range s.Split(text) {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// Chunk implements the pipeline's chunker contract.
func (s Splitter) Chunk(text string) ([]string, error) {
	var out []string
	for chunk := range s.Split(text) {
		out = append(out, chunk.Text)
	}
	return out, nil
}
