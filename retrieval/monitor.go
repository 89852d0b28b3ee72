package retrieval

import (
	"github.com/poiesic/hrchat/core"
)

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type RetrievalMonitor interface {
	Start(question string)
	AfterEmbedding(vector []float32)
	AfterQuery(chunks []core.ScoredChunk)
	Finish(result core.RetrievalResult)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                  {}
func (n *noopMonitor) AfterEmbedding(_ []float32)      {}
func (n *noopMonitor) AfterQuery(_ []core.ScoredChunk) {}
func (n *noopMonitor) Finish(_ core.RetrievalResult)   {}
