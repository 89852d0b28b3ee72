package hrchat

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/hrchat/ai"
	"github.com/poiesic/hrchat/ai/openai"
	"github.com/poiesic/hrchat/chat"
	"github.com/poiesic/hrchat/chunker"
	"github.com/poiesic/hrchat/core"
	"github.com/poiesic/hrchat/retrieval"
	"github.com/poiesic/hrchat/storage"
	"github.com/poiesic/hrchat/storage/badger"
)

// Option configures Open and Ingest. Options that only apply to one of
// them are ignored by the other.
type Option func(*options) error

type options struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	store    storage.IndexStore
	logger   *slog.Logger

	// Query
	topK          int
	historyLimit  int
	contextTokens int
	counter       chat.TokenCounter
	systemPrompt  string

	// Ingestion
	chunkSize    int
	chunkOverlap int
	extensions   []string
	poolSize     int
	batchSize    int
	progress     io.Writer
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		aiConfig:     ai.DefaultConfig(),
		logger:       slog.Default(),
		topK:         retrieval.DefaultTopK,
		chunkSize:    chunker.DefaultSize,
		chunkOverlap: chunker.DefaultOverlap,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.store == nil {
		o.store = badger.NewStore(badger.WithLogger(o.logger))
	}
	return o, nil
}

// resolveProvider returns the injected provider, or builds one from the AI
// configuration. owned reports whether the caller must close it.
func (o *options) resolveProvider() (provider ai.AIProvider, owned bool, err error) {
	if o.provider != nil {
		return o.provider, false, nil
	}
	provider, err = openai.NewProvider(o.aiConfig)
	if err != nil {
		return nil, false, err
	}
	return provider, true, nil
}

func (o *options) tokenCounter() (chat.TokenCounter, error) {
	if o.counter != nil {
		return o.counter, nil
	}
	return chat.NewTiktokenCounter(chat.DefaultEncoding)
}

// WithAIConfig sets the configuration used to build the model provider.
func WithAIConfig(config *ai.Config) Option {
	return func(o *options) error {
		if config == nil {
			return errors.New("ai config cannot be nil")
		}
		o.aiConfig = config
		return nil
	}
}

// WithProvider injects a model provider. The caller keeps ownership and
// must close it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) error {
		o.provider = provider
		return nil
	}
}

// WithStore replaces the badger index store.
func WithStore(store storage.IndexStore) Option {
	return func(o *options) error {
		o.store = store
		return nil
	}
}

// WithLogger sets the logger handed to every component.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithTopK sets the number of chunks retrieved per question.
func WithTopK(k int) Option {
	return func(o *options) error {
		if k <= 0 {
			return fmt.Errorf("%w: got %d", core.ErrInvalidTopK, k)
		}
		o.topK = k
		return nil
	}
}

// WithHistoryLimit bounds how many recent turns sessions send to the model.
// Zero means unlimited.
func WithHistoryLimit(turns int) Option {
	return func(o *options) error {
		if turns < 0 {
			return fmt.Errorf("%w: got %d", chat.ErrInvalidHistoryLimit, turns)
		}
		o.historyLimit = turns
		return nil
	}
}

// WithContextBudget limits the retrieved context sent to the chat model to
// tokens. Tokens are counted with tiktoken unless WithTokenCounter is set.
// Zero disables the budget.
func WithContextBudget(tokens int) Option {
	return func(o *options) error {
		if tokens < 0 {
			return fmt.Errorf("%w: got %d", chat.ErrInvalidBudget, tokens)
		}
		o.contextTokens = tokens
		return nil
	}
}

// WithTokenCounter sets the counter used by the context budget.
func WithTokenCounter(counter chat.TokenCounter) Option {
	return func(o *options) error {
		o.counter = counter
		return nil
	}
}

// WithSystemPrompt replaces the answer prompt template.
// The retrieved context is available as {{.context}}.
func WithSystemPrompt(template string) Option {
	return func(o *options) error {
		o.systemPrompt = template
		return nil
	}
}

// WithChunking sets the chunk size and overlap in runes.
func WithChunking(size, overlap int) Option {
	return func(o *options) error {
		o.chunkSize = size
		o.chunkOverlap = overlap
		return nil
	}
}

// WithExtensions sets which corpus files are ingested.
func WithExtensions(exts ...string) Option {
	return func(o *options) error {
		o.extensions = exts
		return nil
	}
}

// WithPoolSize sets the number of concurrent embedding workers.
func WithPoolSize(size int) Option {
	return func(o *options) error {
		o.poolSize = size
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per request.
func WithBatchSize(size int) Option {
	return func(o *options) error {
		o.batchSize = size
		return nil
	}
}

// WithProgress reports embedding progress to w during ingestion.
func WithProgress(w io.Writer) Option {
	return func(o *options) error {
		o.progress = w
		return nil
	}
}
