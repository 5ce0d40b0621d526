// Package retail holds the store-facing tools the assistant can call:
// sales reporting, customer and inventory lookups, repair and memo
// tracking, and the precious-metal calculators.
package retail

import (
	"github.com/settatam/shop-sub011/internal/metals"
	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

// Register wires every retail tool into the registry.
func Register(reg *tool.Registry, st *store.Store, quotes *metals.Service) error {
	tools := []tool.Tool{
		NewSalesSummaryTool(st),
		NewTopProductsTool(st),
		NewCustomerIntelligenceTool(st),
		NewInventoryAlertsTool(st),
		NewMetalCalculatorTool(quotes),
		NewNegotiationCoachTool(),
		NewEndOfDayTool(st),
		NewRepairStatusTool(st),
		NewMemoTrackerTool(st),
		NewOrderLookupTool(st),
		NewCustomerLookupTool(st),
		NewPriceCheckTool(st, quotes),
		NewInventoryValueTool(st, quotes),
		NewScrapIntakeTool(quotes),
		NewBusinessPulseTool(st),
	}
	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}
