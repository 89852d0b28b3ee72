package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for indexed entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Role identifies the author of a transcript message.
type Role int

const (
	// RoleHuman represents the user asking questions.
	RoleHuman Role = iota + 1
	// RoleAI represents the assistant answering them.
	RoleAI
)

// String returns the role name used in transcripts.
func (r Role) String() string {
	switch r {
	case RoleHuman:
		return "user"
	case RoleAI:
		return "assistant"
	default:
		return "unknown"
	}
}

// Document is a loaded source page. Documents are immutable once loaded.
type Document struct {
	Text     string
	Source   string            // Path of the file relative to the corpus root
	Title    string            // HTML <title>, if present
	Metadata map[string]string // Optional extra metadata
}

// Chunk is a contiguous, length-bounded slice of a Document's text.
type Chunk struct {
	Text     string
	Source   string
	Index    int // Ordinal of the chunk within its document
	Start    int // Rune offset of the chunk within the document text
	Overlap  int // Number of leading runes shared with the previous chunk
	Metadata map[string]string
}

// IndexEntry pairs an embedding vector with the chunk it was computed from.
type IndexEntry struct {
	Id     ID
	Chunk  Chunk
	Vector []float32
}

// NewIndexEntry creates an entry whose ID is derived from the chunk's
// source, position and text.
func NewIndexEntry(chunk Chunk, vector []float32) IndexEntry {
	return IndexEntry{
		Id:     IDFromContent(chunk.Source + "\x00" + strconv.Itoa(chunk.Start) + "\x00" + chunk.Text),
		Chunk:  chunk,
		Vector: vector,
	}
}

// ChatTurn is a single question and answer exchange.
type ChatTurn struct {
	Question string
	Answer   string
	AskedAt  time.Time
}

// ChatHistory is the ordered sequence of turns within one session.
type ChatHistory []ChatTurn

// Message is one line of a visible chat transcript.
type Message struct {
	Role    Role
	Content string
}

// ScoredChunk is a chunk returned from a similarity query along with its score.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// RetrievalResult holds ranked chunks for a question, highest score first.
type RetrievalResult struct {
	Question string
	Chunks   []ScoredChunk
}

// Texts returns the chunk texts in ranked order.
func (r RetrievalResult) Texts() []string {
	texts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		texts[i] = c.Chunk.Text
	}
	return texts
}

// QueryResponse is the outcome of answering one question.
type QueryResponse struct {
	Question           string // Question as asked
	StandaloneQuestion string // Question after condensing against history
	Answer             string
	Retrieval          RetrievalResult
}

// Sources returns the distinct chunk sources used for the answer, in rank order.
func (q QueryResponse) Sources() []string {
	seen := make(map[string]bool, len(q.Retrieval.Chunks))
	sources := make([]string, 0, len(q.Retrieval.Chunks))
	for _, c := range q.Retrieval.Chunks {
		if c.Chunk.Source == "" || seen[c.Chunk.Source] {
			continue
		}
		seen[c.Chunk.Source] = true
		sources = append(sources, c.Chunk.Source)
	}
	return sources
}
