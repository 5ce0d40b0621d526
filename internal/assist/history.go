package assist

import (
	"strings"

	"github.com/settatam/shop-sub011/internal/llm"

	"go.uber.org/zap"
)

const (
	defaultHistoryMaxMessages = 40
	defaultHistoryMaxTokens   = 8000
)

// History is a bounded conversation transcript for the interactive modes.
// It trims oldest-first when either limit is exceeded; a leading system
// message is never trimmed.
type History struct {
	messages    []llm.Message
	maxMessages int
	maxTokens   int
	logger      *zap.Logger
}

func NewHistory(maxMessages, maxTokens int, logger *zap.Logger) *History {
	if maxMessages <= 0 {
		maxMessages = defaultHistoryMaxMessages
	}
	if maxTokens <= 0 {
		maxTokens = defaultHistoryMaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &History{
		maxMessages: maxMessages,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

func (h *History) Append(message llm.Message) {
	h.messages = append(h.messages, message)
	h.enforceLimits()
}

// Messages returns a copy; callers may append to it freely.
func (h *History) Messages() []llm.Message {
	if len(h.messages) == 0 {
		return nil
	}
	out := make([]llm.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Clear() {
	h.messages = nil
}

func (h *History) TokenCount() int {
	return estimateTokens(h.messages)
}

func (h *History) enforceLimits() {
	trimmed := false
	if h.maxMessages > 0 && len(h.messages) > h.maxMessages {
		h.messages = trimByCount(h.messages, h.maxMessages)
		trimmed = true
	}

	if h.maxTokens > 0 {
		for len(h.messages) > 1 && estimateTokens(h.messages) > h.maxTokens {
			h.messages = trimOldestNonSystem(h.messages)
			trimmed = true
		}
	}

	if trimmed {
		h.logger.Info("history trimmed",
			zap.Int("messages", len(h.messages)),
			zap.Int("tokens", estimateTokens(h.messages)),
		)
	}
}

func trimByCount(messages []llm.Message, max int) []llm.Message {
	if len(messages) <= max {
		return messages
	}
	if len(messages) == 0 || max <= 0 {
		return nil
	}
	if messages[0].Role == llm.RoleSystem {
		keep := max - 1
		if keep <= 0 {
			return messages[:1]
		}
		start := len(messages) - keep
		if start < 1 {
			start = 1
		}
		trimmed := make([]llm.Message, 0, max)
		trimmed = append(trimmed, messages[0])
		trimmed = append(trimmed, messages[start:]...)
		return trimmed
	}
	return messages[len(messages)-max:]
}

func trimOldestNonSystem(messages []llm.Message) []llm.Message {
	if len(messages) == 0 {
		return nil
	}
	if messages[0].Role == llm.RoleSystem {
		if len(messages) <= 1 {
			return messages
		}
		return append(messages[:1], messages[2:]...)
	}
	return messages[1:]
}

// estimateTokens is a cheap word count, good enough to keep transcripts from
// growing without bound. Tool-call arguments count too since they dominate
// assistant messages that carry no text.
func estimateTokens(messages []llm.Message) int {
	total := 0
	for _, msg := range messages {
		total += len(strings.Fields(msg.Content))
		for _, call := range msg.ToolCalls {
			total += len(strings.Fields(call.Arguments))
		}
	}
	return total
}
