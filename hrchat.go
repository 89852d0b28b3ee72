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
package hrchat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/hrchat/ai"
	"github.com/poiesic/hrchat/chat"
	"github.com/poiesic/hrchat/core"
	"github.com/poiesic/hrchat/retrieval"
	"github.com/poiesic/hrchat/storage"
)

// ErrEmbeddingModelMismatch is returned by Open when the index was built
// with a different embedding model than the one configured.
var ErrEmbeddingModelMismatch = errors.New("index was built with a different embedding model")

// Assistant answers questions against a loaded index.
// It is safe for concurrent use; sessions created from it share the index.
type Assistant struct {
	index        *storage.VectorIndex
	provider     ai.AIProvider
	ownsProvider bool
	retriever    *retrieval.Retriever
	condenser    *chat.Condenser
	generator    *chat.Generator
	historyLimit int
	logger       *slog.Logger
}

// Open loads the index at indexPath and prepares an assistant.
//
// The model provider is built from the AI configuration unless one is
// injected with WithProvider. Open fails with ErrEmbeddingModelMismatch
// when the index records an embedding model other than the provider's.
func Open(indexPath string, opts ...Option) (*Assistant, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	idx, err := o.store.Load(context.Background(), indexPath)
	if err != nil {
		return nil, err
	}

	provider, owned, err := o.resolveProvider()
	if err != nil {
		return nil, err
	}
	closeOnError := func(err error) (*Assistant, error) {
		if owned {
			provider.Close()
		}
		return nil, err
	}

	if model := idx.EmbeddingModel(); model != "" && model != provider.EmbeddingModel() {
		return closeOnError(fmt.Errorf("%w: index uses %q, configured %q",
			ErrEmbeddingModelMismatch, model, provider.EmbeddingModel()))
	}

	retriever, err := retrieval.NewRetriever(idx, provider.Embedder(),
		retrieval.WithTopK(o.topK),
		retrieval.WithLogger(o.logger.With("component", "retriever")),
	)
	if err != nil {
		return closeOnError(err)
	}

	genOpts := []chat.GeneratorOption{chat.WithGeneratorLogger(o.logger)}
	if o.contextTokens > 0 {
		counter, err := o.tokenCounter()
		if err != nil {
			return closeOnError(err)
		}
		genOpts = append(genOpts, chat.WithContextBudget(o.contextTokens, counter))
	}
	if o.systemPrompt != "" {
		genOpts = append(genOpts, chat.WithSystemPrompt(o.systemPrompt))
	}
	generator, err := chat.NewGenerator(provider.ChatModel(), genOpts...)
	if err != nil {
		return closeOnError(err)
	}

	a := &Assistant{
		index:        idx,
		provider:     provider,
		ownsProvider: owned,
		retriever:    retriever,
		condenser:    chat.NewCondenser(provider.ChatModel()),
		generator:    generator,
		historyLimit: o.historyLimit,
		logger:       o.logger.With("component", "assistant"),
	}
	a.logger.Info("opened index", "path", indexPath, "entries", idx.Len(),
		"dimension", idx.Dimension(), "embedding_model", idx.EmbeddingModel())
	return a, nil
}

// NewSession creates a conversation with its own history.
func (a *Assistant) NewSession(opts ...chat.SessionOption) (*chat.Session, error) {
	base := []chat.SessionOption{
		chat.WithHistoryLimit(a.historyLimit),
		chat.WithLogger(a.logger),
	}
	return chat.NewSession(a.condenser, a.retriever, a.generator, append(base, opts...)...)
}

// Ask answers a single question without conversation history.
func (a *Assistant) Ask(ctx context.Context, question string) (core.QueryResponse, error) {
	session, err := a.NewSession()
	if err != nil {
		return core.QueryResponse{}, err
	}
	return session.Ask(ctx, question)
}

// Retrieve returns the chunks most relevant to question without calling
// the chat model.
func (a *Assistant) Retrieve(ctx context.Context, question string) (core.RetrievalResult, error) {
	return a.retriever.Retrieve(ctx, question)
}

// RetrieveWithMonitor is Retrieve with hooks observing each step.
func (a *Assistant) RetrieveWithMonitor(ctx context.Context, question string, monitor retrieval.RetrievalMonitor) (core.RetrievalResult, error) {
	return a.retriever.RetrieveWithMonitor(ctx, question, monitor)
}

// Index returns the loaded index.
func (a *Assistant) Index() *storage.VectorIndex {
	return a.index
}

// TopK returns the number of chunks retrieved per question.
func (a *Assistant) TopK() int {
	return a.retriever.TopK()
}

// Close releases the model provider when Open created it.
// An injected provider is left to its owner.
func (a *Assistant) Close() error {
	if !a.ownsProvider {
		return nil
	}
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}
