// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.ChatModel,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Scripted replies
//	chat := mock.NewMockChatModel("standalone question", "final answer")
//
//	// Custom behavior injection
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, core.ErrEmbeddingProvider
//	}
//
// # Default Behavior
//
//   - MockEmbedder: Bag-of-words vectors, so shared vocabulary means higher similarity
//   - MockChatModel: Scripted responses, or an echo of the last human message
//   - MockProvider: Aggregates mock embedder and chat model
package mock
