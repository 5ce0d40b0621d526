package retail

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/settatam/shop-sub011/internal/config"
	"github.com/settatam/shop-sub011/internal/metals"
	"github.com/settatam/shop-sub011/internal/tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// staticQuotes builds a metals service with no live endpoint, so every
// quote comes from the fixed config prices.
func staticQuotes(t *testing.T) *metals.Service {
	t.Helper()
	return metals.NewService(config.Config{
		GoldSpotUSD:      2400,
		SilverSpotUSD:    29,
		PlatinumSpotUSD:  980,
		PalladiumSpotUSD: 960,
	}, zap.NewNop())
}

func TestMetalCalculatorPureContent(t *testing.T) {
	quotes := staticQuotes(t)
	calc := NewMetalCalculatorTool(quotes)

	res, err := calc.Execute(context.Background(), json.RawMessage(`{"metal_type":"gold_14k","weight":10,"unit":"grams"}`), 1)
	require.NoError(t, err)
	require.NotContains(t, res, "error")

	gold, err := quotes.Spot(context.Background(), "gold")
	require.NoError(t, err)

	assert.Equal(t, 5.83, res["pure_metal_content"])
	assert.Equal(t, 0.583, res["purity"])
	assert.Equal(t, round2(5.83*gold.USDPerGram), res["spot_value"])
	assert.Equal(t, "static", res["spot_source"])

	offers, ok := res["melt_offers"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, offers, 3)
	assert.Equal(t, 70, offers[0]["percent"])
	assert.Equal(t, round2(res["spot_value"].(float64)*0.70), offers[0]["amount"])
	assert.Equal(t, 90, offers[2]["percent"])
}

func TestMetalCalculatorUnits(t *testing.T) {
	calc := NewMetalCalculatorTool(staticQuotes(t))

	res, err := calc.Execute(context.Background(), json.RawMessage(`{"metal_type":"fine_silver","weight":1,"unit":"ounces"}`), 1)
	require.NoError(t, err)
	assert.Equal(t, 31.1, res["weight_grams"])

	res, err = calc.Execute(context.Background(), json.RawMessage(`{"metal_type":"fine_silver","weight":2,"unit":"dwt"}`), 1)
	require.NoError(t, err)
	assert.Equal(t, 3.11, res["weight_grams"])

	// Default unit is grams.
	res, err = calc.Execute(context.Background(), json.RawMessage(`{"metal_type":"fine_silver","weight":4}`), 1)
	require.NoError(t, err)
	assert.Equal(t, "grams", res["unit"])
	assert.Equal(t, 4.0, res["weight_grams"])
}

func TestMetalCalculatorRejectsBadInput(t *testing.T) {
	calc := NewMetalCalculatorTool(staticQuotes(t))
	ctx := context.Background()

	res, err := calc.Execute(ctx, json.RawMessage(`{"metal_type":"unobtainium","weight":10}`), 1)
	require.NoError(t, err)
	assert.Contains(t, res["error"], "unknown metal_type")

	res, err = calc.Execute(ctx, json.RawMessage(`{"metal_type":"gold_14k","weight":0}`), 1)
	require.NoError(t, err)
	assert.Contains(t, res["error"], "weight must be positive")

	res, err = calc.Execute(ctx, json.RawMessage(`{"metal_type":"gold_14k","weight":10,"unit":"pounds"}`), 1)
	require.NoError(t, err)
	assert.Contains(t, res["error"], "unknown unit")
}

func TestScrapIntakeLadder(t *testing.T) {
	quotes := staticQuotes(t)
	intake := NewScrapIntakeTool(quotes)

	res, err := intake.Execute(context.Background(), json.RawMessage(`{"weight":10,"karat":14}`), 1)
	require.NoError(t, err)
	require.NotContains(t, res, "error")

	gold, err := quotes.Spot(context.Background(), "gold")
	require.NoError(t, err)
	melt := round2(5.83 * gold.USDPerGram)

	assert.Equal(t, 5.83, res["pure_gold_grams"])
	assert.Equal(t, melt, res["melt_value"])

	offers, ok := res["offers"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, offers, 3)
	for i, pct := range []int{70, 80, 85} {
		assert.Equal(t, pct, offers[i]["percent"])
		assert.Equal(t, round2(melt*float64(pct)/100), offers[i]["offer"])
		assert.Equal(t, round1(100-float64(pct)), offers[i]["margin_percent"])
	}
}

func TestScrapIntakeRejectsBadInput(t *testing.T) {
	intake := NewScrapIntakeTool(staticQuotes(t))
	ctx := context.Background()

	res, err := intake.Execute(ctx, json.RawMessage(`{"weight":10,"karat":15}`), 1)
	require.NoError(t, err)
	assert.Contains(t, res["error"], "unknown karat")

	res, err = intake.Execute(ctx, json.RawMessage(`{"weight":10,"karat":14.5}`), 1)
	require.NoError(t, err)
	assert.Contains(t, res["error"], "unknown karat")

	res, err = intake.Execute(ctx, json.RawMessage(`{"weight":-1,"karat":14}`), 1)
	require.NoError(t, err)
	assert.Contains(t, res["error"], "weight must be positive")
}

func TestNegotiationCoachMath(t *testing.T) {
	coach := NewNegotiationCoachTool()

	res, err := coach.Execute(context.Background(), json.RawMessage(`{"cost":100,"asking_price":200}`), 1)
	require.NoError(t, err)

	assert.Equal(t, 50.0, res["asking_margin_percent"])
	assert.Equal(t, 115.0, res["floor_price"])
	assert.Equal(t, 166.67, res["target_price"])
	assert.Equal(t, 40.0, res["target_margin_percent"])
	assert.NotContains(t, res, "suggested_counter")
	assert.NotEmpty(t, res["advice"])
}

func TestNegotiationCoachCounter(t *testing.T) {
	coach := NewNegotiationCoachTool()
	ctx := context.Background()

	// Midpoint of offer and asking.
	res, err := coach.Execute(ctx, json.RawMessage(`{"cost":100,"asking_price":200,"customer_offer":150}`), 1)
	require.NoError(t, err)
	assert.Equal(t, 175.0, res["suggested_counter"])
	assert.Contains(t, res["advice"], "$175.00")

	// Midpoint below the floor clamps up to it.
	res, err = coach.Execute(ctx, json.RawMessage(`{"cost":100,"asking_price":120,"customer_offer":90}`), 1)
	require.NoError(t, err)
	assert.Equal(t, 115.0, res["suggested_counter"])
	assert.Contains(t, res["advice"], "below your floor")

	// Offer at or above asking: take it.
	res, err = coach.Execute(ctx, json.RawMessage(`{"cost":100,"asking_price":120,"customer_offer":130}`), 1)
	require.NoError(t, err)
	assert.Equal(t, 120.0, res["suggested_counter"])
	assert.Contains(t, res["advice"], "Take it")
}

func TestNegotiationCoachRejectsBadInput(t *testing.T) {
	coach := NewNegotiationCoachTool()
	ctx := context.Background()

	res, err := coach.Execute(ctx, json.RawMessage(`{"cost":100,"asking_price":0}`), 1)
	require.NoError(t, err)
	assert.Contains(t, res["error"], "asking_price must be positive")

	res, err = coach.Execute(ctx, json.RawMessage(`{"cost":-5,"asking_price":100}`), 1)
	require.NoError(t, err)
	assert.Contains(t, res["error"], "cost must not be negative")

	res, err = coach.Execute(ctx, json.RawMessage(`{"cost":10,"asking_price":100,"customer_offer":0}`), 1)
	require.NoError(t, err)
	assert.Contains(t, res["error"], "customer_offer must be positive")
}

// Errors surface as data, never as Go errors, so the agent loop keeps going.
func TestCalculatorsNeverReturnGoErrors(t *testing.T) {
	quotes := staticQuotes(t)
	for _, tl := range []tool.Tool{
		NewMetalCalculatorTool(quotes),
		NewScrapIntakeTool(quotes),
		NewNegotiationCoachTool(),
	} {
		res, err := tl.Execute(context.Background(), json.RawMessage(`{}`), 1)
		require.NoError(t, err, tl.Name())
		assert.Contains(t, res, "error", tl.Name())
	}
}
