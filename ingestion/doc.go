// Package ingestion builds the policy index from the document corpus.
//
// The Pipeline type runs the whole offline workflow:
//   - Loading every document from the corpus directory
//   - Splitting documents into overlapping chunks
//   - Embedding chunk batches concurrently on a worker pool
//   - Building the vector index and saving it through an IndexStore
//
// A run is all or nothing. The first failure cancels the remaining batches
// and nothing is written, so an existing index stays in place.
package ingestion
