package tool

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool is one action the model can request. Parameters returns a JSON-schema
// object literal declaring every field Execute reads; undeclared fields must
// not change behavior. Execute is always scoped to one tenant.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, params json.RawMessage, storeID int64) (Result, error)
}

// Result is the JSON payload handed back to the model. Expected no-data
// conditions are zero-valued results with a "message" key; failures the
// model should see are Errorf payloads, not Go errors.
type Result map[string]any

func Errorf(format string, args ...any) Result {
	return Result{"error": fmt.Sprintf(format, args...)}
}

// Message builds a zero-data result carrying an explanation.
func Message(format string, args ...any) Result {
	return Result{"message": fmt.Sprintf(format, args...)}
}
