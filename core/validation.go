// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Text must contain something other than whitespace
//   - Source must not be empty
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if doc.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySource)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Index, Start and Overlap must not be negative
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.Index < 0 || chunk.Start < 0 || chunk.Overlap < 0 {
		return fmt.Errorf("%w: negative position (index=%d start=%d overlap=%d)",
			ErrInvalidChunk, chunk.Index, chunk.Start, chunk.Overlap)
	}

	return nil
}

// ValidateIndexEntry validates an IndexEntry according to domain rules.
//
// Validation rules:
//   - Chunk must be valid
//   - Vector must not be empty and must only contain finite values
//
// NOT validated:
//   - ID (0 is a legal hash value)
func ValidateIndexEntry(entry *IndexEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidIndexEntry)
	}

	if err := ValidateChunk(&entry.Chunk); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIndexEntry, err)
	}

	if len(entry.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidIndexEntry, ErrEmptyVector)
	}

	if !IsFinite(entry.Vector) {
		return fmt.Errorf("%w: %w", ErrInvalidIndexEntry, ErrNonFiniteVector)
	}

	return nil
}

// ValidateRole validates that a Role has a valid value.
func ValidateRole(role Role) error {
	if role != RoleHuman && role != RoleAI {
		return fmt.Errorf("%w: value %d", ErrInvalidRole, role)
	}
	return nil
}
