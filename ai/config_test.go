package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	assert.Equal(t, "https://api.openai.com/v1", cfg.ChatHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
	assert.Equal(t, 0.0, cfg.Temperature)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, DefaultHost, cfg.EmbeddingHost)
		assert.Equal(t, DefaultHost, cfg.ChatHost)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.ChatHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithChatHost("http://chat:9090/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://chat:9090/v1", cfg.ChatHost)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithHost("http://custom:8080/v1"),
			WithAPIKey("sk-test"),
			WithEmbeddingModel("custom-embed"),
			WithChatModel("custom-chat"),
			WithTemperature(0.3),
			WithRequestTimeout(5*time.Second),
			WithRetry(5, 10*time.Millisecond),
		)

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "sk-test", cfg.APIKey)
		assert.Equal(t, "custom-embed", cfg.EmbeddingModel)
		assert.Equal(t, "custom-chat", cfg.ChatModel)
		assert.Equal(t, 0.3, cfg.Temperature)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, 10*time.Millisecond, cfg.RetryDelay)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name          string
		embeddingHost string
		chatHost      string
		wantEmbedding string
		wantChat      string
	}{
		{
			name:          "already has /v1",
			embeddingHost: "http://localhost:11434/v1",
			chatHost:      "http://localhost:11434/v1",
			wantEmbedding: "http://localhost:11434/v1",
			wantChat:      "http://localhost:11434/v1",
		},
		{
			name:          "missing /v1",
			embeddingHost: "http://localhost:11434",
			chatHost:      "http://localhost:11434",
			wantEmbedding: "http://localhost:11434/v1",
			wantChat:      "http://localhost:11434/v1",
		},
		{
			name:          "has trailing slash",
			embeddingHost: "http://localhost:11434/",
			chatHost:      "http://localhost:11434/",
			wantEmbedding: "http://localhost:11434/v1",
			wantChat:      "http://localhost:11434/v1",
		},
		{
			name:          "empty hosts",
			embeddingHost: "",
			chatHost:      "",
			wantEmbedding: "",
			wantChat:      "",
		},
		{
			name:          "different formats",
			embeddingHost: "http://embed:8080",
			chatHost:      "http://chat:9090/v1",
			wantEmbedding: "http://embed:8080/v1",
			wantChat:      "http://chat:9090/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				EmbeddingHost: tt.embeddingHost,
				ChatHost:      tt.chatHost,
			}

			cfg.Normalize()

			assert.Equal(t, tt.wantEmbedding, cfg.EmbeddingHost)
			assert.Equal(t, tt.wantChat, cfg.ChatHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }, "EmbeddingHost is required"},
		{"missing chat host", func(c *Config) { c.ChatHost = "" }, "ChatHost is required"},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }, "EmbeddingModel is required"},
		{"missing chat model", func(c *Config) { c.ChatModel = "" }, "ChatModel is required"},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, "Temperature"},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }, "Temperature"},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }, "RequestTimeout"},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }, "MaxRetries"},
		{"negative retry delay", func(c *Config) { c.RetryDelay = -time.Second }, "RetryDelay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("normalizes before validating", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}

func TestConfigToken(t *testing.T) {
	assert.Equal(t, "none", NewConfig().Token())
	assert.Equal(t, "sk-abc", NewConfig(WithAPIKey("sk-abc")).Token())
}
