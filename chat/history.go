package chat

import (
	"github.com/poiesic/hrchat/core"
)

// historyMessages converts history into alternating human and AI messages.
func historyMessages(history core.ChatHistory) []core.Message {
	messages := make([]core.Message, 0, 2*len(history)+1)
	for _, turn := range history {
		messages = append(messages,
			core.Message{Role: core.RoleHuman, Content: turn.Question},
			core.Message{Role: core.RoleAI, Content: turn.Answer},
		)
	}
	return messages
}

// recent returns the last limit turns of history. A limit of 0 keeps all.
func recent(history core.ChatHistory, limit int) core.ChatHistory {
	if limit > 0 && len(history) > limit {
		return history[len(history)-limit:]
	}
	return history
}
