package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/hrchat/core"
)

// State is the processing state of a Session.
type State int32

const (
	// StateIdle means the session accepts a new question.
	StateIdle State = iota
	// StateProcessing means a question is being answered.
	StateProcessing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// QuestionCondenser rewrites a follow-up question into a standalone one.
type QuestionCondenser interface {
	Condense(ctx context.Context, question string, history core.ChatHistory) (string, error)
}

// ChunkRetriever finds the chunks relevant to a standalone question.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, question string) (core.RetrievalResult, error)
}

// AnswerGenerator produces a grounded answer.
type AnswerGenerator interface {
	Generate(ctx context.Context, question, standalone string, retrieval core.RetrievalResult, history core.ChatHistory) (core.QueryResponse, error)
}

var (
	_ QuestionCondenser = (*Condenser)(nil)
	_ AnswerGenerator   = (*Generator)(nil)
)

// Session is one user's conversation with the assistant.
// Turns are processed one at a time; all methods are safe for concurrent use.
type Session struct {
	id           uuid.UUID
	condenser    QuestionCondenser
	retriever    ChunkRetriever
	generator    AnswerGenerator
	historyLimit int
	monitor      SessionMonitor
	logger       *slog.Logger

	state   atomic.Int32
	mu      sync.RWMutex
	history core.ChatHistory
}

// SessionOption configures a Session.
type SessionOption func(*Session) error

// WithHistoryLimit bounds how many recent turns are sent to the model.
// The session history itself keeps every turn. Zero means unlimited.
func WithHistoryLimit(turns int) SessionOption {
	return func(s *Session) error {
		if turns < 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidHistoryLimit, turns)
		}
		s.historyLimit = turns
		return nil
	}
}

// WithMonitor sets the monitor notified of each turn's steps.
func WithMonitor(monitor SessionMonitor) SessionOption {
	return func(s *Session) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSession creates an idle session with an empty history.
func NewSession(condenser QuestionCondenser, retriever ChunkRetriever, generator AnswerGenerator, opts ...SessionOption) (*Session, error) {
	if condenser == nil {
		return nil, ErrCondenserRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	s := &Session{
		id:        uuid.New(),
		condenser: condenser,
		retriever: retriever,
		generator: generator,
		monitor:   &noopMonitor{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "session", "session", s.id.String())
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// State returns the current processing state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Ask answers question in the context of the conversation so far.
//
// Ask returns core.ErrSessionBusy if another question is being answered
// and core.ErrEmptyQuestion for a blank question. The turn is appended to
// the history only when every step succeeds.
func (s *Session) Ask(ctx context.Context, question string) (core.QueryResponse, error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateProcessing)) {
		return core.QueryResponse{}, core.ErrSessionBusy
	}
	defer s.state.Store(int32(StateIdle))

	if strings.TrimSpace(question) == "" {
		return core.QueryResponse{}, core.ErrEmptyQuestion
	}

	s.monitor.TurnStarted(question)
	start := time.Now()

	resp, err := s.answer(ctx, question)
	if err != nil {
		s.monitor.TurnFailed(err)
		s.logger.Warn("turn failed", "err", err)
		return core.QueryResponse{}, err
	}

	s.mu.Lock()
	s.history = append(s.history, core.ChatTurn{
		Question: question,
		Answer:   resp.Answer,
		AskedAt:  start,
	})
	turns := len(s.history)
	s.mu.Unlock()

	s.monitor.Answered(resp)
	s.logger.Debug("turn complete", "turns", turns, "chunks", len(resp.Retrieval.Chunks), "elapsed", time.Since(start))
	return resp, nil
}

func (s *Session) answer(ctx context.Context, question string) (core.QueryResponse, error) {
	// Only Ask appends, and Ask holds the Processing state, so this
	// snapshot stays valid for the whole turn.
	history := recent(s.History(), s.historyLimit)

	standalone, err := s.condenser.Condense(ctx, question, history)
	if err != nil {
		return core.QueryResponse{}, fmt.Errorf("failed to condense question: %w", err)
	}
	s.monitor.Condensed(standalone)

	retrieval, err := s.retriever.Retrieve(ctx, standalone)
	if err != nil {
		return core.QueryResponse{}, fmt.Errorf("failed to retrieve context: %w", err)
	}
	s.monitor.Retrieved(retrieval)

	resp, err := s.generator.Generate(ctx, question, standalone, retrieval, history)
	if err != nil {
		return core.QueryResponse{}, fmt.Errorf("failed to generate answer: %w", err)
	}
	return resp, nil
}

// History returns a copy of the completed turns, oldest first.
func (s *Session) History() core.ChatHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(core.ChatHistory(nil), s.history...)
}

// Transcript returns the conversation as alternating human and AI messages.
func (s *Session) Transcript() []core.Message {
	return historyMessages(s.History())
}

// Reset clears the history. It returns core.ErrSessionBusy while a
// question is being answered.
func (s *Session) Reset() error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateProcessing)) {
		return core.ErrSessionBusy
	}
	defer s.state.Store(int32(StateIdle))

	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
	return nil
}
