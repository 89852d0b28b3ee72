// Package chunker splits documents into overlapping, length-bounded chunks.
//
// Splitting works on runes. Chunk boundaries fall after the coarsest
// separator available inside the size window (paragraph break, then line
// break, then space, then any rune), and consecutive chunks of a document
// share exactly the configured overlap:
//
//	s, err := chunker.New(chunker.DefaultSize, chunker.DefaultOverlap)
//	if err != nil {
//	    return err // errors.Is(err, core.ErrChunkConfig)
//	}
//	for chunk := range s.Split(doc) {
//	    ...
//	}
package chunker
