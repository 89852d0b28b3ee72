package chat

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used by OpenAI chat models.
const DefaultEncoding = "cl100k_base"

// TokenCounter counts the tokens a model would see for a piece of text.
type TokenCounter interface {
	Count(text string) int
}

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a counter for the named tiktoken encoding.
// The encoding tables are fetched and cached on first use.
func NewTiktokenCounter(encoding string) (TokenCounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encoding, err)
	}
	return &tiktokenCounter{encoding: enc}, nil
}

func (t *tiktokenCounter) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}
