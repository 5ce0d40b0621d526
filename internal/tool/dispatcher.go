package tool

import (
	"context"
	"encoding/json"
	"time"

	"github.com/settatam/shop-sub011/internal/llm"

	"go.uber.org/zap"
)

// CallRecord is the audit trail for one tool invocation, surfaced to API
// callers alongside the answer.
type CallRecord struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
	MS   int64          `json:"ms"`
	OK   bool           `json:"ok"`
	Err  string         `json:"err,omitempty"`
}

// Dispatcher executes model-requested tool calls against the registry.
// Unknown tools, bad JSON and tool failures all come back as {"error": …}
// results so the model can recover; a call runs exactly once, no retries.
type Dispatcher struct {
	registry *Registry
	logger   *zap.Logger
}

func NewDispatcher(registry *Registry, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger.Named("tool"),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, storeID int64, call llm.ToolCall) (Result, CallRecord) {
	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			record := d.finish(CallRecord{Name: call.Name, Args: nil}, 0, err)
			return Errorf("invalid tool args: %v", err), record
		}
	}

	t, ok := d.registry.Get(call.Name)
	if !ok {
		record := d.finish(CallRecord{Name: call.Name, Args: args}, 0, errUnknownTool(call.Name))
		return Errorf("unknown tool: %s", call.Name), record
	}

	start := time.Now()
	result, err := t.Execute(ctx, json.RawMessage(call.Arguments), storeID)
	elapsed := time.Since(start)

	record := d.finish(CallRecord{Name: call.Name, Args: args}, elapsed, err)
	if err != nil {
		return Errorf("%v", err), record
	}
	if result == nil {
		result = Result{}
	}
	return result, record
}

func (d *Dispatcher) finish(record CallRecord, elapsed time.Duration, err error) CallRecord {
	record.MS = elapsed.Milliseconds()
	record.OK = err == nil
	if err != nil {
		record.Err = err.Error()
	}
	d.logger.Info("tool call",
		zap.String("name", record.Name),
		zap.Any("args", record.Args),
		zap.Int64("ms", record.MS),
		zap.Bool("ok", record.OK),
		zap.String("err", record.Err),
	)
	return record
}

type errUnknownTool string

func (e errUnknownTool) Error() string { return "unknown tool: " + string(e) }
