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

import "errors"

// Pipeline errors. Callers test for these with errors.Is; concrete failures
// wrap one of them together with the underlying cause.
var (
	// ErrLoad indicates the corpus or one of its documents could not be loaded.
	ErrLoad = errors.New("document load failed")

	// ErrChunkConfig indicates an invalid chunk size/overlap combination.
	ErrChunkConfig = errors.New("invalid chunk configuration")

	// ErrEmbeddingProvider indicates the embedding service failed.
	ErrEmbeddingProvider = errors.New("embedding provider error")

	// ErrLLMProvider indicates the chat model service failed.
	ErrLLMProvider = errors.New("llm provider error")

	// ErrProviderTimeout indicates a provider call exceeded its deadline.
	// It is always wrapped alongside ErrEmbeddingProvider or ErrLLMProvider
	// and is safe to retry.
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrIndexNotFound indicates there is no index artifact at the given path.
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndexCorrupt indicates the index artifact is structurally invalid.
	ErrIndexCorrupt = errors.New("index corrupt")

	// ErrEmptyIndex indicates an attempt to build an index from zero entries.
	ErrEmptyIndex = errors.New("index has no entries")

	// ErrInvalidTopK indicates a non-positive result count.
	ErrInvalidTopK = errors.New("k must be greater than zero")

	// ErrDimensionMismatch indicates vectors of differing dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrSessionBusy indicates a question arrived while another was in flight.
	ErrSessionBusy = errors.New("session is processing another question")

	// ErrEmptyQuestion indicates a blank question.
	ErrEmptyQuestion = errors.New("question cannot be empty")
)

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidIndexEntry indicates an IndexEntry failed validation.
	ErrInvalidIndexEntry = errors.New("invalid index entry")

	// ErrEmptyContent indicates the Text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrEmptyVector indicates the Vector field is empty.
	ErrEmptyVector = errors.New("vector cannot be empty")

	// ErrNonFiniteVector indicates a vector component is NaN or infinite.
	ErrNonFiniteVector = errors.New("vector contains non-finite values")

	// ErrInvalidRole indicates an invalid Role value.
	ErrInvalidRole = errors.New("invalid role")
)
