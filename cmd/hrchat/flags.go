package main

import (
	"time"

	"github.com/poiesic/hrchat"
	"github.com/poiesic/hrchat/ai"
	"github.com/poiesic/hrchat/chunker"
	"github.com/poiesic/hrchat/ingestion"
	"github.com/poiesic/hrchat/retrieval"
	"github.com/urfave/cli/v2"
)

const (
	defaultIndexPath = "hr_index"
	defaultCorpusDir = "./hr-policies"
)

func concat(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}

func indexFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "index",
			Aliases: []string{"i"},
			Usage:   "Path of the index directory",
			Value:   defaultIndexPath,
			EnvVars: []string{"HRCHAT_INDEX_PATH"},
		},
	}
}

func providerFlags() []cli.Flag {
	defaults := ai.DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-host",
			Usage:   "Base URL of the OpenAI-compatible API",
			Value:   defaults.EmbeddingHost,
			EnvVars: []string{"HRCHAT_API_HOST"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the model provider",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   defaults.EmbeddingModel,
			EnvVars: []string{"HRCHAT_EMBEDDING_MODEL"},
		},
		&cli.DurationFlag{
			Name:    "request-timeout",
			Usage:   "Timeout for each provider request (0 disables it)",
			Value:   defaults.RequestTimeout,
			EnvVars: []string{"HRCHAT_REQUEST_TIMEOUT"},
		},
		&cli.IntFlag{
			Name:    "max-retries",
			Usage:   "Maximum attempts for transient provider failures",
			Value:   defaults.MaxRetries,
			EnvVars: []string{"HRCHAT_MAX_RETRIES"},
		},
		&cli.DurationFlag{
			Name:    "retry-delay",
			Usage:   "Base delay for exponential backoff",
			Value:   defaults.RetryDelay,
			EnvVars: []string{"HRCHAT_RETRY_DELAY"},
		},
	}
}

func topKFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "top-k",
		Aliases: []string{"k"},
		Usage:   "Number of chunks retrieved per question",
		Value:   retrieval.DefaultTopK,
		EnvVars: []string{"HRCHAT_TOP_K"},
	}
}

func answerFlags() []cli.Flag {
	defaults := ai.DefaultConfig()
	return []cli.Flag{
		topKFlag(),
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat model name",
			Value:   defaults.ChatModel,
			EnvVars: []string{"HRCHAT_CHAT_MODEL"},
		},
		&cli.Float64Flag{
			Name:    "temperature",
			Usage:   "Sampling temperature for answers",
			Value:   defaults.Temperature,
			EnvVars: []string{"HRCHAT_TEMPERATURE"},
		},
		&cli.IntFlag{
			Name:    "context-tokens",
			Usage:   "Token budget for retrieved context (0 disables it)",
			EnvVars: []string{"HRCHAT_CONTEXT_TOKENS"},
		},
	}
}

func ingestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "corpus",
			Aliases: []string{"c"},
			Usage:   "Directory of HTML policy pages",
			Value:   defaultCorpusDir,
			EnvVars: []string{"HRCHAT_CORPUS_DIR"},
		},
		&cli.IntFlag{
			Name:    "chunk-size",
			Usage:   "Maximum chunk length in characters",
			Value:   chunker.DefaultSize,
			EnvVars: []string{"HRCHAT_CHUNK_SIZE"},
		},
		&cli.IntFlag{
			Name:    "chunk-overlap",
			Usage:   "Characters shared by consecutive chunks",
			Value:   chunker.DefaultOverlap,
			EnvVars: []string{"HRCHAT_CHUNK_OVERLAP"},
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of chunks embedded per request",
			Value: ingestion.DefaultBatchSize,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of concurrent embedding requests (0 for half the CPUs)",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Rebuild the index whenever the corpus changes",
		},
		&cli.DurationFlag{
			Name:  "debounce",
			Usage: "Quiet period after the last change before rebuilding",
			Value: 2 * time.Second,
		},
	}
}

// aiConfig builds the provider configuration from the command's flags.
func aiConfig(c *cli.Context) *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithHost(c.String("api-host")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithRequestTimeout(c.Duration("request-timeout")),
		ai.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		ai.WithTemperature(c.Float64("temperature")),
	}
	// Commands without answer flags still need a valid chat model.
	if model := c.String("chat-model"); model != "" {
		opts = append(opts, ai.WithChatModel(model))
	}
	return ai.NewConfig(opts...)
}

// openOptions collects the facade options for query commands.
func openOptions(c *cli.Context) []hrchat.Option {
	opts := []hrchat.Option{
		hrchat.WithAIConfig(aiConfig(c)),
		hrchat.WithTopK(c.Int("top-k")),
	}
	if tokens := c.Int("context-tokens"); tokens > 0 {
		opts = append(opts, hrchat.WithContextBudget(tokens))
	}
	if limit := c.Int("history-limit"); limit > 0 {
		opts = append(opts, hrchat.WithHistoryLimit(limit))
	}
	return opts
}
