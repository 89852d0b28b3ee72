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
// Package storage holds the in-memory vector index and its persistence
// contract.
//
// # Index
//
// VectorIndex is built once from embedded chunks and never modified
// afterwards. Vectors are normalised at build time so a query is a single
// pass of dot products followed by a stable sort:
//
//	idx, err := storage.Build(entries, storage.WithEmbeddingModel("text-embedding-3-small"))
//	if err != nil {
//	    return err
//	}
//	top, err := idx.Query(queryVector, 4)
//
// # Persistence
//
// IndexStore saves and loads a VectorIndex as one artifact. The badger
// subpackage provides the implementation used by the CLI. Artifacts carry a
// Manifest with the entry count, dimension, embedding model and a
// BLAKE2b-256 checksum of the serialized entries, so a loader can reject a
// partial or tampered artifact before using it.
//
// # Serialization
//
// Entries and manifests are encoded with mus-go primitives. Decoding checks
// every declared length against the remaining input and never trusts type
// information from the data itself.
//
// # Thread Safety
//
// A built VectorIndex is safe for concurrent queries. IndexStore
// implementations must be safe for concurrent use.
package storage
