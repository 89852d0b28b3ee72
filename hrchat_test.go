package hrchat

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/hrchat/ai"
	"github.com/poiesic/hrchat/ai/mock"
	"github.com/poiesic/hrchat/core"
	"github.com/poiesic/hrchat/retrieval"
	"github.com/poiesic/hrchat/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = map[string][2]string{
	"leave.html": {"Leave Policy",
		"Employees accrue annual leave at two days per month of service. " +
			"Unused leave may be carried over up to ten days into the next calendar year. " +
			"Requests for leave should be submitted through the HR portal at least two weeks in advance. " +
			"Sick leave is separate and does not reduce the annual balance. " +
			"Parental leave provides sixteen weeks of paid time off for birth or adoption."},
	"onboarding.html": {"Candidate Onboarding",
		"The candidate onboarding process begins once an offer letter is signed. " +
			"Recruiters share the signed offer with HR, who prepare the employment contract and payroll records. " +
			"During the first week the candidate completes onboarding training, receives equipment and meets an assigned buddy. " +
			"The onboarding process ends with a review between the new hire and their manager after thirty days."},
	"expenses.html": {"Expenses",
		"Expense reports must be submitted within thirty days with original receipts attached. " +
			"Travel must be booked through the approved agency, and economy class is required for flights under six hours. " +
			"Meals are reimbursed up to a daily limit set by the finance team. " +
			"Corporate cards may not be used for personal purchases."},
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, page := range corpus {
		html := "<html><head><title>" + page[0] + "</title></head><body><h1>" + page[0] +
			"</h1><p>" + page[1] + "</p></body></html>"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(html), 0o644))
	}
	return dir
}

// ingested builds an index from the test corpus with a mock provider.
func ingested(t *testing.T) (string, *mock.MockProvider) {
	t.Helper()
	provider := mock.NewMockProvider().(*mock.MockProvider)
	indexPath := filepath.Join(t.TempDir(), "hr_index")

	report, err := Ingest(context.Background(), writeCorpus(t), indexPath,
		WithProvider(provider), WithChunking(500, 50))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Documents)
	assert.GreaterOrEqual(t, report.Chunks, 3)
	assert.Equal(t, indexPath, report.IndexPath)
	return indexPath, provider
}

// renamedProvider reports a different embedding model.
type renamedProvider struct {
	ai.AIProvider
	model string
}

func (p renamedProvider) EmbeddingModel() string { return p.model }

func TestIngestAndRetrieve(t *testing.T) {
	indexPath, provider := ingested(t)

	a, err := Open(indexPath, WithProvider(provider))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, mock.MockEmbeddingModel, a.Index().EmbeddingModel())
	assert.Equal(t, mock.DefaultDimension, a.Index().Dimension())
	assert.Equal(t, retrieval.DefaultTopK, a.TopK())

	result, err := a.Retrieve(context.Background(), "Explain the Candidate Onboarding process")
	require.NoError(t, err)
	require.NotEmpty(t, result.Chunks)
	assert.Equal(t, "onboarding.html", result.Chunks[0].Chunk.Source)
	assert.Contains(t, result.Chunks[0].Chunk.Text, "candidate onboarding process")
}

func TestAssistant_Ask(t *testing.T) {
	indexPath, provider := ingested(t)
	a, err := Open(indexPath, WithProvider(provider), WithTopK(1))
	require.NoError(t, err)

	resp, err := a.Ask(context.Background(), "Explain the Candidate Onboarding process")
	require.NoError(t, err)
	assert.Equal(t, []string{"onboarding.html"}, resp.Sources())

	// The mock model echoes the question.
	assert.Equal(t, "Explain the Candidate Onboarding process", resp.Answer)

	call, ok := provider.GetMockChatModel().LastCall()
	require.True(t, ok)
	assert.Contains(t, call.System, "candidate onboarding process begins")
	assert.Len(t, call.Messages, 1)
}

func TestAssistant_Sessions(t *testing.T) {
	indexPath, provider := ingested(t)
	a, err := Open(indexPath, WithProvider(provider))
	require.NoError(t, err)

	first, err := a.NewSession()
	require.NoError(t, err)
	second, err := a.NewSession()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())

	ctx := context.Background()
	_, err = first.Ask(ctx, "What is the leave policy?")
	require.NoError(t, err)
	_, err = first.Ask(ctx, "How long is parental leave?")
	require.NoError(t, err)
	_, err = second.Ask(ctx, "When are expense reports due?")
	require.NoError(t, err)

	assert.Len(t, first.History(), 2)
	assert.Len(t, second.History(), 1)
}

func TestOpen_Errors(t *testing.T) {
	t.Run("missing index", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "missing"), WithProvider(mock.NewMockProvider()))
		assert.ErrorIs(t, err, core.ErrIndexNotFound)
	})

	t.Run("embedding model mismatch", func(t *testing.T) {
		indexPath, provider := ingested(t)
		_, err := Open(indexPath, WithProvider(renamedProvider{AIProvider: provider, model: "text-embedding-3-large"}))
		assert.ErrorIs(t, err, ErrEmbeddingModelMismatch)
	})

	t.Run("invalid top k", func(t *testing.T) {
		_, err := Open("unused", WithTopK(0))
		assert.ErrorIs(t, err, core.ErrInvalidTopK)
	})

	t.Run("nil ai config", func(t *testing.T) {
		_, err := Open("unused", WithAIConfig(nil))
		assert.Error(t, err)
	})
}

type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

func TestOpen_ContextBudget(t *testing.T) {
	indexPath, provider := ingested(t)
	a, err := Open(indexPath, WithProvider(provider), WithContextBudget(1), WithTokenCounter(wordCounter{}))
	require.NoError(t, err)

	resp, err := a.Ask(context.Background(), "Explain the Candidate Onboarding process")
	require.NoError(t, err)
	assert.Len(t, resp.Retrieval.Chunks, 1)
}

func TestAssistant_CloseLeavesInjectedProvider(t *testing.T) {
	indexPath, provider := ingested(t)
	a, err := Open(indexPath, WithProvider(provider))
	require.NoError(t, err)

	require.NoError(t, a.Close())
	assert.False(t, provider.Closed())
}

func TestIngest_Errors(t *testing.T) {
	t.Run("empty corpus", func(t *testing.T) {
		indexPath := filepath.Join(t.TempDir(), "hr_index")
		_, err := Ingest(context.Background(), t.TempDir(), indexPath, WithProvider(mock.NewMockProvider()))
		assert.ErrorIs(t, err, core.ErrEmptyIndex)
		assert.False(t, badger.NewStore().Exists(indexPath))
	})

	t.Run("invalid chunking", func(t *testing.T) {
		_, err := Ingest(context.Background(), t.TempDir(), "unused",
			WithProvider(mock.NewMockProvider()), WithChunking(10, 20))
		assert.ErrorIs(t, err, core.ErrChunkConfig)
	})

	t.Run("missing corpus", func(t *testing.T) {
		_, err := Ingest(context.Background(), filepath.Join(t.TempDir(), "missing"), "unused",
			WithProvider(mock.NewMockProvider()))
		assert.ErrorIs(t, err, core.ErrLoad)
	})
}

func TestIngest_Progress(t *testing.T) {
	var out strings.Builder
	_, err := Ingest(context.Background(), writeCorpus(t), filepath.Join(t.TempDir(), "hr_index"),
		WithProvider(mock.NewMockProvider()), WithBatchSize(1), WithPoolSize(2), WithProgress(&out))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Embedding:")
}
