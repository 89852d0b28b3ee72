package chat

import (
	"github.com/poiesic/hrchat/core"
)

// SessionMonitor observes the steps of each turn.
// Hooks run on the goroutine calling Ask and must not block.
type SessionMonitor interface {
	TurnStarted(question string)
	Condensed(standalone string)
	Retrieved(result core.RetrievalResult)
	Answered(response core.QueryResponse)
	TurnFailed(err error)
}

type noopMonitor struct{}

var _ SessionMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) TurnStarted(_ string)             {}
func (n *noopMonitor) Condensed(_ string)               {}
func (n *noopMonitor) Retrieved(_ core.RetrievalResult) {}
func (n *noopMonitor) Answered(_ core.QueryResponse)    {}
func (n *noopMonitor) TurnFailed(_ error)               {}
