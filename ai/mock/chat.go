package mock

import (
	"context"
	"sync"

	"github.com/poiesic/hrchat/core"
)

// Call records one invocation of MockChatModel.Complete.
type Call struct {
	System   string
	Messages []core.Message
}

// MockChatModel is a test double for ai.ChatModel.
// Replies are taken from CompleteFunc when set, otherwise from Responses in
// order (cycling), otherwise the last human message is echoed back.
type MockChatModel struct {
	// CompleteFunc is called by Complete if set.
	CompleteFunc func(ctx context.Context, system string, messages []core.Message) (string, error)

	// Responses are returned in order when CompleteFunc is nil.
	Responses []string

	mu    sync.Mutex
	calls []Call
	next  int
}

// NewMockChatModel creates a mock chat model that replies with responses in order.
// Note: Returns concrete type to allow test assertions via GetMockChatModel().
func NewMockChatModel(responses ...string) *MockChatModel {
	return &MockChatModel{Responses: responses}
}

// Complete records the call and returns the configured reply.
func (m *MockChatModel) Complete(ctx context.Context, system string, messages []core.Message) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{System: system, Messages: append([]core.Message(nil), messages...)})
	fn := m.CompleteFunc
	var reply string
	if fn == nil && len(m.Responses) > 0 {
		reply = m.Responses[m.next%len(m.Responses)]
		m.next++
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, system, messages)
	}
	if len(m.Responses) > 0 {
		return reply, nil
	}
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == core.RoleHuman {
			return messages[i].Content, nil
		}
	}
	return "", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded calls.
func (m *MockChatModel) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// LastCall returns the most recent call, or false if there was none.
func (m *MockChatModel) LastCall() (Call, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return Call{}, false
	}
	return m.calls[len(m.calls)-1], true
}

// Reset clears recorded calls, the response cursor and injected behavior.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.next = 0
	m.CompleteFunc = nil
}
