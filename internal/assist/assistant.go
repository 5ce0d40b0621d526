// Package assist runs the conversational loop: one user question in, tool
// rounds against the store, one plain-language answer out.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/settatam/shop-sub011/internal/llm"
	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"

	"go.uber.org/zap"
)

// maxToolRounds caps how many model round trips one question may spend.
const maxToolRounds = 6

const roundLimitAnswer = "I couldn't finish that within my step limit. " +
	"Try narrowing the question, for example a shorter period or a specific product."

// Answer is the result of one Ask: the model's reply plus the audit trail of
// every tool call and the token spend across all rounds.
type Answer struct {
	Query     string            `json:"query"`
	Text      string            `json:"answer"`
	ToolCalls []tool.CallRecord `json:"tool_calls,omitempty"`
	Usage     llm.Usage         `json:"usage"`
	Rounds    int               `json:"rounds"`
}

type Assistant struct {
	st         *store.Store
	manager    *llm.Manager
	registry   *tool.Registry
	dispatcher *tool.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func NewAssistant(st *store.Store, manager *llm.Manager, registry *tool.Registry, dispatcher *tool.Dispatcher, logger *zap.Logger) *Assistant {
	return &Assistant{
		st:         st,
		manager:    manager,
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger.Named("assist"),
		now:        time.Now,
	}
}

// Ask answers one question for a store. With a History the exchange is
// recorded for follow-up turns; without one the call is stateless. Tool
// failures are fed back to the model as {"error": ...} payloads so it can
// correct itself; exhausting the round limit yields an apology, not an error.
func (a *Assistant) Ask(ctx context.Context, storeID int64, query string, history *History) (Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Answer{}, errors.New("query must not be empty")
	}

	info, err := a.st.GetStore(ctx, storeID)
	if err != nil {
		return Answer{}, err
	}

	defs := a.registry.Definitions()
	system := systemPrompt(info, a.now(), defs, history != nil)

	var messages []llm.Message
	if history != nil {
		history.Append(llm.UserMessage(query))
		messages = history.Messages()
	} else {
		messages = []llm.Message{llm.UserMessage(query)}
	}

	answer := Answer{Query: query}

	for round := 0; round < maxToolRounds; round++ {
		if history != nil {
			messages = history.Messages()
		}

		resp, err := a.manager.Complete(ctx, info, "assist", llm.Request{
			System:   system,
			Messages: messages,
			Tools:    defs,
		})
		if err != nil {
			return Answer{}, err
		}
		answer.Usage = addUsage(answer.Usage, resp.Usage)
		answer.Rounds = round + 1

		msg := resp.Message
		a.logger.Debug("assistant round",
			zap.Int("round", round+1),
			zap.Int("tool_calls", len(msg.ToolCalls)),
			zap.String("stop_reason", string(resp.StopReason)),
		)

		if len(msg.ToolCalls) == 0 {
			if history != nil {
				history.Append(msg)
			}
			answer.Text = strings.TrimSpace(msg.Content)
			return answer, nil
		}

		if history != nil {
			history.Append(msg)
		} else {
			messages = append(messages, msg)
		}

		for _, call := range msg.ToolCalls {
			result, record := a.dispatcher.Dispatch(ctx, storeID, call)
			answer.ToolCalls = append(answer.ToolCalls, record)

			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(`{"error":"tool result could not be encoded"}`)
			}
			toolMsg := llm.ToolMessage(call.ID, string(payload))
			if history != nil {
				history.Append(toolMsg)
			} else {
				messages = append(messages, toolMsg)
			}
		}
	}

	a.logger.Warn("round limit reached",
		zap.Int64("store_id", storeID),
		zap.Int("rounds", maxToolRounds),
		zap.Int("tool_calls", len(answer.ToolCalls)),
	)
	answer.Text = roundLimitAnswer
	return answer, nil
}

func addUsage(total, round llm.Usage) llm.Usage {
	total.PromptTokens += round.PromptTokens
	total.CompletionTokens += round.CompletionTokens
	total.TotalTokens += round.TotalTokens
	total.Cost += round.Cost
	return total
}
