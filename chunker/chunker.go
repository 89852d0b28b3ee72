package chunker

import (
	"fmt"
	"iter"
	"maps"
	"strings"

	"github.com/poiesic/hrchat/core"
)

const (
	// DefaultSize is the default maximum chunk length in runes.
	DefaultSize = 500
	// DefaultOverlap is the default number of runes shared by consecutive chunks.
	DefaultOverlap = 50
)

// DefaultSeparators lists split points from coarsest to finest. The empty
// separator allows a cut between any two runes.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter divides document text into overlapping, length-bounded chunks.
// A Splitter is immutable and safe for concurrent use.
type Splitter struct {
	size       int
	overlap    int
	separators [][]rune
}

// Option configures a Splitter.
type Option func(*Splitter) error

// WithSeparators replaces the separator priority list. The empty separator
// is appended when missing so every piece can be cut down to size.
func WithSeparators(separators ...string) Option {
	return func(s *Splitter) error {
		if len(separators) == 0 {
			return fmt.Errorf("%w: separator list is empty", core.ErrChunkConfig)
		}
		s.separators = s.separators[:0]
		hasEmpty := false
		for _, sep := range separators {
			if sep == "" {
				hasEmpty = true
			}
			s.separators = append(s.separators, []rune(sep))
		}
		if !hasEmpty {
			s.separators = append(s.separators, nil)
		}
		return nil
	}
}

// New creates a Splitter producing chunks of at most size runes, where
// consecutive chunks share exactly overlap runes.
// Returns core.ErrChunkConfig when size <= 0, overlap < 0 or overlap >= size.
func New(size, overlap int, opts ...Option) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", core.ErrChunkConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap %d cannot be negative", core.ErrChunkConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			core.ErrChunkConfig, overlap, size)
	}

	s := &Splitter{size: size, overlap: overlap}
	for _, sep := range DefaultSeparators {
		s.separators = append(s.separators, []rune(sep))
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Size returns the maximum chunk length in runes.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the number of runes shared by consecutive chunks.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the chunks of doc in reading order. Chunks are computed
// lazily as the sequence is consumed.
//
// Each chunk is a verbatim slice of the document text no longer than Size.
// Chunk i+1 begins with the last Overlap runes of chunk i. Chunk ends are
// placed after the coarsest separator that fits in the window; finer
// separators are only used when no coarser one does.
func (s *Splitter) Split(doc core.Document) iter.Seq[core.Chunk] {
	return func(yield func(core.Chunk) bool) {
		text := []rune(doc.Text)
		n := len(text)
		metadata := chunkMetadata(doc)

		index := 0
		start := 0
		for start < n {
			end := n
			if n-start > s.size {
				end = s.nextEnd(text, start)
			}

			overlap := 0
			if index > 0 {
				overlap = s.overlap
			}
			piece := string(text[start:end])
			if strings.TrimSpace(piece) != "" {
				chunk := core.Chunk{
					Text:     piece,
					Source:   doc.Source,
					Index:    index,
					Start:    start,
					Overlap:  overlap,
					Metadata: metadata,
				}
				if !yield(chunk) {
					return
				}
				index++
			}

			if end == n {
				return
			}
			start = end - s.overlap
		}
	}
}

// SplitAll concatenates the chunk sequences of docs.
func (s *Splitter) SplitAll(docs []core.Document) iter.Seq[core.Chunk] {
	return func(yield func(core.Chunk) bool) {
		for _, doc := range docs {
			for chunk := range s.Split(doc) {
				if !yield(chunk) {
					return
				}
			}
		}
	}
}

// nextEnd picks the end of the chunk beginning at start. The end always
// leaves at least one rune of new content past the overlap region and is
// never more than size runes after start.
func (s *Splitter) nextEnd(text []rune, start int) int {
	maxEnd := min(start+s.size, len(text))
	minEnd := start + s.overlap + 1

	for _, sep := range s.separators {
		if len(sep) == 0 {
			return maxEnd
		}
		for end := maxEnd; end >= minEnd; end-- {
			if endsWith(text[:end], sep) {
				return end
			}
		}
	}
	return maxEnd
}

func endsWith(text, suffix []rune) bool {
	if len(suffix) > len(text) {
		return false
	}
	offset := len(text) - len(suffix)
	for i, r := range suffix {
		if text[offset+i] != r {
			return false
		}
	}
	return true
}

// chunkMetadata copies the document metadata, adding its title when set.
func chunkMetadata(doc core.Document) map[string]string {
	if len(doc.Metadata) == 0 && doc.Title == "" {
		return nil
	}
	metadata := make(map[string]string, len(doc.Metadata)+1)
	maps.Copy(metadata, doc.Metadata)
	if doc.Title != "" {
		metadata["title"] = doc.Title
	}
	return metadata
}
