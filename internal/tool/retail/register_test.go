package retail

import (
	"context"
	"testing"

	"github.com/settatam/shop-sub011/internal/llm"
	"github.com/settatam/shop-sub011/internal/tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var allToolNames = []string{
	"business_pulse",
	"customer_intelligence",
	"customer_lookup",
	"end_of_day",
	"inventory_alerts",
	"inventory_value",
	"memo_tracker",
	"metal_calculator",
	"negotiation_coach",
	"order_lookup",
	"price_check",
	"repair_status",
	"sales_summary",
	"scrap_intake",
	"top_products",
}

func TestRegisterAllTools(t *testing.T) {
	reg := tool.NewRegistry()
	require.NoError(t, Register(reg, newTestStore(t), staticQuotes(t)))

	var names []string
	for _, tl := range reg.List() {
		names = append(names, tl.Name())
	}
	assert.Equal(t, allToolNames, names)

	// Registering twice must trip the duplicate guard.
	err := Register(reg, newTestStore(t), staticQuotes(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

// Every schema is a closed object: declared properties only, and every
// required key actually declared.
func TestToolSchemasWellFormed(t *testing.T) {
	reg := tool.NewRegistry()
	require.NoError(t, Register(reg, newTestStore(t), staticQuotes(t)))

	for _, tl := range reg.List() {
		params := tl.Parameters()
		assert.Equal(t, "object", params["type"], tl.Name())
		assert.Equal(t, false, params["additionalProperties"], tl.Name())
		assert.NotEmpty(t, tl.Description(), tl.Name())

		props, ok := params["properties"].(map[string]any)
		require.True(t, ok, tl.Name())

		if required, ok := params["required"].([]string); ok {
			for _, key := range required {
				assert.Contains(t, props, key, "%s: required key missing from properties", tl.Name())
			}
		}
	}

	defs := reg.Definitions()
	require.Len(t, defs, len(allToolNames))
	for i, def := range defs {
		assert.Equal(t, allToolNames[i], def.Name)
	}
}

func TestDispatchThroughRegistry(t *testing.T) {
	s := newTestStore(t)
	sid := newTenant(t, s, "Crown & Clasp")

	reg := tool.NewRegistry()
	require.NoError(t, Register(reg, s, staticQuotes(t)))
	d := tool.NewDispatcher(reg, zap.NewNop())

	res, record := d.Dispatch(context.Background(), sid, llm.ToolCall{
		ID:        "call_1",
		Name:      "sales_summary",
		Arguments: `{"period":"today"}`,
	})
	assert.True(t, record.OK)
	assert.Equal(t, 0, res["total_orders"])
	assert.Contains(t, res, "message")

	res, record = d.Dispatch(context.Background(), sid, llm.ToolCall{
		ID:        "call_2",
		Name:      "crystal_ball",
		Arguments: `{}`,
	})
	assert.False(t, record.OK)
	assert.Contains(t, res["error"], "unknown tool")
}
