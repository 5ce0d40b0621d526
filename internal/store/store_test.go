package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestTenant(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	st := &StoreInfo{Name: name}
	require.NoError(t, s.CreateStore(context.Background(), st))
	return st.ID
}

func paidOrder(t *testing.T, s *Store, storeID, customerID int64, total float64, at time.Time) *Order {
	t.Helper()
	o := &Order{
		StoreID:    storeID,
		CustomerID: customerID,
		Status:     "paid",
		Subtotal:   total,
		Total:      total,
		CreatedAt:  at,
		Items:      []OrderItem{{Name: "line", Quantity: 1, UnitPrice: total, Total: total}},
	}
	require.NoError(t, s.CreateOrder(context.Background(), o))
	return o
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	st := &StoreInfo{Name: "Main Street Pawn", AIProvider: "openai", AIModel: "gpt-4o", AITemperature: 0.3}
	require.NoError(t, s.CreateStore(ctx, st))
	require.NotZero(t, st.ID)
	assert.Equal(t, "USD", st.Currency)

	got, err := s.GetStore(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main Street Pawn", got.Name)
	assert.Equal(t, "openai", got.AIProvider)
	assert.Equal(t, "gpt-4o", got.AIModel)
	assert.InDelta(t, 0.3, got.AITemperature, 1e-9)

	_, err = s.GetStore(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.ListStores(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSalesSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")

	now := time.Now().UTC()
	o := &Order{
		StoreID:   storeID,
		Status:    "paid",
		Subtotal:  138.57,
		Tax:       11.43,
		Total:     150,
		CreatedAt: now,
		Items:     []OrderItem{{Name: "Silver Bangle", Quantity: 1, UnitPrice: 138.57, Total: 138.57}},
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	// Refunded orders never count toward revenue.
	refund := &Order{StoreID: storeID, Status: "refunded", Total: 500, CreatedAt: now}
	require.NoError(t, s.CreateOrder(ctx, refund))

	sum, err := s.Sales(ctx, storeID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Orders)
	assert.InDelta(t, 150.0, sum.Revenue, 1e-9)
	assert.InDelta(t, 11.43, sum.Tax, 1e-9)
	assert.InDelta(t, 150.0, sum.Average, 1e-9)

	// Outside the window nothing matches.
	empty, err := s.Sales(ctx, storeID, now.Add(-3*time.Hour), now.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, empty.Orders)
	assert.Zero(t, empty.Revenue)
}

func TestTenantIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first := newTestTenant(t, s, "First")
	second := newTestTenant(t, s, "Second")

	require.NoError(t, s.CreateProduct(ctx, &Product{StoreID: first, Name: "Gold Ring", Price: 900, Quantity: 1}))
	require.NoError(t, s.CreateProduct(ctx, &Product{StoreID: second, Name: "Gold Chain", Price: 1200, Quantity: 1}))

	now := time.Now().UTC()
	paidOrder(t, s, first, 0, 100, now)
	paidOrder(t, s, second, 0, 999, now)

	hits, err := s.SearchProducts(ctx, first, "gold", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Gold Ring", hits[0].Name)

	sum, err := s.Sales(ctx, first, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, sum.Revenue, 1e-9)

	// Lookups scoped to the wrong tenant miss.
	other, err := s.SearchProducts(ctx, second, "ring", 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCreateOrderStampsLastSold(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")

	p := &Product{StoreID: storeID, Name: "Stud Earrings", Price: 250, Quantity: 3}
	require.NoError(t, s.CreateProduct(ctx, p))
	require.Nil(t, p.LastSoldAt)

	now := time.Now().UTC()
	o := &Order{
		StoreID:   storeID,
		Status:    "paid",
		Total:     250,
		CreatedAt: now,
		Items:     []OrderItem{{ProductID: p.ID, Name: p.Name, Quantity: 1, UnitPrice: 250, Total: 250}},
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	got, err := s.GetProduct(ctx, storeID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSoldAt)
	assert.WithinDuration(t, now, *got.LastSoldAt, time.Second)

	// Pending orders leave last_sold_at alone.
	p2 := &Product{StoreID: storeID, Name: "Pendant", Price: 80, Quantity: 1}
	require.NoError(t, s.CreateProduct(ctx, p2))
	pending := &Order{
		StoreID:   storeID,
		Status:    "pending",
		Total:     80,
		CreatedAt: now,
		Items:     []OrderItem{{ProductID: p2.ID, Name: p2.Name, Quantity: 1, UnitPrice: 80, Total: 80}},
	}
	require.NoError(t, s.CreateOrder(ctx, pending))

	got2, err := s.GetProduct(ctx, storeID, p2.ID)
	require.NoError(t, err)
	assert.Nil(t, got2.LastSoldAt)
}

func TestGetOrderWithItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")

	o := &Order{
		StoreID:   storeID,
		Status:    "paid",
		Subtotal:  340,
		Tax:       28.05,
		Total:     368.05,
		CreatedAt: time.Now().UTC(),
		Items: []OrderItem{
			{Name: "Chain", Quantity: 1, UnitPrice: 300, Total: 300},
			{Name: "Clasp", Quantity: 2, UnitPrice: 20, Total: 40},
		},
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	got, err := s.GetOrder(ctx, storeID, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Chain", got.Items[0].Name)
	assert.Equal(t, 2, got.Items[1].Quantity)
	assert.InDelta(t, 368.05, got.Total, 1e-9)

	// Cross-tenant reads miss.
	other := newTestTenant(t, s, "B")
	_, err = s.GetOrder(ctx, other, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentBreakdownAndStatusTotals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")
	now := time.Now().UTC()

	for _, o := range []*Order{
		{StoreID: storeID, Status: "paid", PaymentMethod: "cash", Total: 100, CreatedAt: now},
		{StoreID: storeID, Status: "paid", PaymentMethod: "card", Total: 300, CreatedAt: now},
		{StoreID: storeID, Status: "paid", PaymentMethod: "card", Total: 200, CreatedAt: now},
		{StoreID: storeID, Status: "paid", Total: 50, CreatedAt: now},
		{StoreID: storeID, Status: "refunded", PaymentMethod: "card", Total: 75, CreatedAt: now},
	} {
		require.NoError(t, s.CreateOrder(ctx, o))
	}

	from, to := now.Add(-time.Hour), now.Add(time.Hour)
	breakdown, err := s.PaymentBreakdown(ctx, storeID, from, to)
	require.NoError(t, err)
	require.Len(t, breakdown, 3)
	assert.Equal(t, "card", breakdown[0].Method)
	assert.InDelta(t, 500.0, breakdown[0].Amount, 1e-9)
	assert.Equal(t, 2, breakdown[0].Orders)

	methods := map[string]float64{}
	for _, pt := range breakdown {
		methods[pt.Method] = pt.Amount
	}
	assert.InDelta(t, 50.0, methods["other"], 1e-9)

	totals, err := s.OrderStatusTotals(ctx, storeID, from, to)
	require.NoError(t, err)
	byStatus := map[string]StatusTotal{}
	for _, st := range totals {
		byStatus[st.Status] = st
	}
	assert.Equal(t, 4, byStatus["paid"].Orders)
	assert.Equal(t, 1, byStatus["refunded"].Orders)
	assert.InDelta(t, 75.0, byStatus["refunded"].Amount, 1e-9)
}

func TestTopProducts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")
	now := time.Now().UTC()

	o := &Order{
		StoreID:   storeID,
		Status:    "paid",
		Total:     1000,
		CreatedAt: now,
		Items: []OrderItem{
			{Name: "Dive Watch", Quantity: 1, UnitPrice: 800, Total: 800},
			{Name: "Silver Bangle", Quantity: 4, UnitPrice: 50, Total: 200},
		},
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	from, to := now.Add(-time.Hour), now.Add(time.Hour)

	byRevenue, err := s.TopProducts(ctx, storeID, from, to, "revenue", 5)
	require.NoError(t, err)
	require.Len(t, byRevenue, 2)
	assert.Equal(t, "Dive Watch", byRevenue[0].Name)

	byQuantity, err := s.TopProducts(ctx, storeID, from, to, "quantity", 5)
	require.NoError(t, err)
	assert.Equal(t, "Silver Bangle", byQuantity[0].Name)
	assert.Equal(t, 4, byQuantity[0].Quantity)
}

func TestRecentOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")
	now := time.Now().UTC()

	c := &Customer{StoreID: storeID, FirstName: "Rosa", LastName: "Delgado"}
	require.NoError(t, s.CreateCustomer(ctx, c))

	older := &Order{StoreID: storeID, CustomerID: c.ID, Status: "paid", Total: 100, CreatedAt: now.Add(-2 * time.Hour),
		Items: []OrderItem{{Name: "x", Quantity: 2, UnitPrice: 50, Total: 100}}}
	newer := &Order{StoreID: storeID, Status: "pending", Total: 40, CreatedAt: now}
	require.NoError(t, s.CreateOrder(ctx, older))
	require.NoError(t, s.CreateOrder(ctx, newer))

	all, err := s.RecentOrders(ctx, storeID, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, "Rosa Delgado", all[1].CustomerName)
	assert.Equal(t, 2, all[1].ItemCount)

	paid, err := s.RecentOrders(ctx, storeID, "paid", 10)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, older.ID, paid[0].ID)
}

func TestCustomerQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")
	now := time.Now().UTC()

	rosa := &Customer{StoreID: storeID, FirstName: "Rosa", LastName: "Delgado", Email: "rosa@example.com", Phone: "555-0101"}
	marcus := &Customer{StoreID: storeID, FirstName: "Marcus", LastName: "Webb"}
	require.NoError(t, s.CreateCustomer(ctx, rosa))
	require.NoError(t, s.CreateCustomer(ctx, marcus))

	// Rosa: an old order plus one in the window. Marcus: first order in the
	// window.
	paidOrder(t, s, storeID, rosa.ID, 12000, now.Add(-60*24*time.Hour))
	paidOrder(t, s, storeID, rosa.ID, 500, now)
	paidOrder(t, s, storeID, marcus.ID, 800, now)

	from, to := now.Add(-time.Hour), now.Add(time.Hour)

	top, err := s.TopCustomers(ctx, storeID, from, to, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Marcus Webb", top[0].Name)
	assert.InDelta(t, 800.0, top[0].Total, 1e-9)

	vips, err := s.VIPCustomers(ctx, storeID, 10000, 10)
	require.NoError(t, err)
	require.Len(t, vips, 1)
	assert.Equal(t, "Rosa Delgado", vips[0].Name)
	assert.InDelta(t, 12500.0, vips[0].Total, 1e-9)
	require.NotNil(t, vips[0].LastOrder)

	counts, err := s.CustomerActivity(ctx, storeID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.New)
	assert.Equal(t, 1, counts.Returning)

	profiles, err := s.SearchCustomers(ctx, storeID, "rosa", 5)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.InDelta(t, 12500.0, profiles[0].LifetimeSpend, 1e-9)
	assert.Equal(t, 2, profiles[0].OrderCount)
	require.NotNil(t, profiles[0].LastPurchase)
	assert.WithinDuration(t, now, *profiles[0].LastPurchase, time.Minute)

	byPhone, err := s.SearchCustomers(ctx, storeID, "555-0101", 5)
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, rosa.ID, byPhone[0].ID)
}

func TestInventoryQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")
	now := time.Now().UTC()
	soldRecently := now.Add(-10 * 24 * time.Hour)
	soldAges := now.Add(-200 * 24 * time.Hour)

	products := []*Product{
		{StoreID: storeID, Name: "Fresh Ring", Category: "rings", Price: 900, Cost: 400, Quantity: 5, CreatedAt: now.Add(-30 * 24 * time.Hour), LastSoldAt: &soldRecently},
		{StoreID: storeID, Name: "Low Watch", Category: "watches", Price: 2000, Cost: 1200, Quantity: 1, CreatedAt: now.Add(-30 * 24 * time.Hour), LastSoldAt: &soldRecently},
		{StoreID: storeID, Name: "Dusty Chain", Category: "chains", MetalType: "gold_18k", WeightGrams: 20, Price: 3000, Cost: 1500, Quantity: 2, CreatedAt: now.Add(-300 * 24 * time.Hour), LastSoldAt: &soldAges},
		{StoreID: storeID, Name: "Slow Brooch", Category: "", Price: 150, Cost: 60, Quantity: 4, CreatedAt: now.Add(-120 * 24 * time.Hour)},
	}
	for _, p := range products {
		require.NoError(t, s.CreateProduct(ctx, p))
	}

	low, err := s.LowStockProducts(ctx, storeID, 2, 10)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Low Watch", low[0].Name)

	slowCutoff := now.Add(-90 * 24 * time.Hour)
	deadCutoff := now.Add(-180 * 24 * time.Hour)

	stale, err := s.StaleProducts(ctx, storeID, slowCutoff, 10)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "Dusty Chain", stale[0].Name)

	counts, err := s.InventoryAlertCounts(ctx, storeID, 2, slowCutoff, deadCutoff)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.LowStock)
	assert.Equal(t, 1, counts.SlowStock)
	assert.Equal(t, 1, counts.DeadStock)

	valuation, err := s.InventoryValuation(ctx, storeID)
	require.NoError(t, err)
	byCategory := map[string]CategoryValuation{}
	for _, cv := range valuation {
		byCategory[cv.Category] = cv
	}
	assert.InDelta(t, 6000.0, byCategory["chains"].RetailValue, 1e-9)
	assert.Equal(t, 4, byCategory["uncategorized"].Units)

	holdings, err := s.MetalHoldings(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "gold_18k", holdings[0].MetalType)
	assert.InDelta(t, 40.0, holdings[0].TotalGrams, 1e-9)
}

func TestRepairWorkflow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")
	now := time.Now().UTC()
	promised := now.Add(-24 * time.Hour)

	r := &Repair{StoreID: storeID, ItemDescription: "Resize ring", QuotedPrice: 45, PromisedAt: &promised, CreatedAt: now.Add(-72 * time.Hour)}
	require.NoError(t, s.CreateRepair(ctx, r))
	assert.Equal(t, "intake", r.Status)

	overdue, err := s.OverdueRepairs(ctx, storeID, now, 10)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, r.ID, overdue[0].ID)

	oldest, err := s.OldestOpenRepair(ctx, storeID)
	require.NoError(t, err)
	require.NotNil(t, oldest)
	assert.Equal(t, r.ID, oldest.ID)

	require.NoError(t, s.UpdateRepairStatus(ctx, storeID, r.ID, "delivered"))

	counts, err := s.RepairCountsByStatus(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "delivered", counts[0].Status)

	delivered, err := s.RepairsDelivered(ctx, storeID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	taken, err := s.RepairsTakenIn(ctx, storeID, now.Add(-100*24*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, 1, taken)

	none, err := s.OldestOpenRepair(ctx, storeID)
	require.NoError(t, err)
	assert.Nil(t, none)

	err = s.UpdateRepairStatus(ctx, storeID, 9999, "ready")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoExposure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")
	now := time.Now().UTC()
	pastDue := now.Add(-48 * time.Hour)
	future := now.Add(72 * time.Hour)

	memos := []*Memo{
		{StoreID: storeID, Vendor: "Gem Supply", ItemDescription: "Diamond parcel", Value: 5000, DueAt: &pastDue},
		{StoreID: storeID, Vendor: "Estate Broker", ItemDescription: "Brooch", Value: 1200, DueAt: &future},
		{StoreID: storeID, Vendor: "Watch Co", ItemDescription: "Chronograph", Value: 3000, Status: "returned"},
	}
	for _, m := range memos {
		require.NoError(t, s.CreateMemo(ctx, m))
	}

	stats, err := s.MemoExposure(ctx, storeID, now)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Open)
	assert.InDelta(t, 6200.0, stats.Exposure, 1e-9)
	assert.Equal(t, 1, stats.Overdue)

	open, err := s.OpenMemos(ctx, storeID, 0)
	require.NoError(t, err)
	assert.Len(t, open, 2)
}

func TestSuggestionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")

	sg := &Suggestion{StoreID: storeID, SubjectType: "product", SubjectID: 7, Kind: "description", Content: "A hand-finished 14k band."}
	require.NoError(t, s.InsertSuggestion(ctx, sg))
	assert.Equal(t, "pending", sg.Status)
	assert.Equal(t, "{}", sg.Metadata)

	require.NoError(t, s.UpdateSuggestionStatus(ctx, storeID, sg.ID, "accepted"))

	got, err := s.GetSuggestion(ctx, storeID, sg.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", got.Status)

	pending, err := s.ListSuggestions(ctx, storeID, "pending", 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	accepted, err := s.ListSuggestions(ctx, storeID, "accepted", 10)
	require.NoError(t, err)
	assert.Len(t, accepted, 1)

	err = s.UpdateSuggestionStatus(ctx, storeID, 9999, "rejected")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsageSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	storeID := newTestTenant(t, s, "A")
	now := time.Now().UTC()

	rows := []*UsageRow{
		{StoreID: storeID, Provider: "openrouter", Model: "openai/gpt-4o-mini", Feature: "assist", PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, Cost: 0.0002, DurationMS: 800, CreatedAt: now},
		{StoreID: storeID, Provider: "openrouter", Model: "openai/gpt-4o-mini", Feature: "assist", PromptTokens: 200, CompletionTokens: 80, TotalTokens: 280, Cost: 0.0004, DurationMS: 950, CreatedAt: now},
		{StoreID: storeID, Provider: "anthropic", Model: "claude-sonnet-4-20250514", Feature: "suggest", PromptTokens: 400, CompletionTokens: 120, TotalTokens: 520, Cost: 0.003, DurationMS: 1200, CreatedAt: now},
	}
	for _, u := range rows {
		require.NoError(t, s.InsertUsage(ctx, u))
	}

	sum, err := s.AIUsageSummary(ctx, storeID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Calls)
	assert.Equal(t, 700, sum.PromptTokens)
	assert.Equal(t, 250, sum.CompletionTokens)
	assert.Equal(t, 950, sum.TotalTokens)
	assert.InDelta(t, 0.0036, sum.Cost, 1e-9)
	require.Len(t, sum.ByModel, 2)
	assert.Equal(t, "anthropic", sum.ByModel[0].Provider)
	assert.Equal(t, 2, sum.ByModel[1].Calls)
}

func TestSeedDemo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mainID, err := s.SeedDemo(ctx)
	require.NoError(t, err)
	require.NotZero(t, mainID)

	stores, err := s.ListStores(ctx)
	require.NoError(t, err)
	require.Len(t, stores, 2)

	// The primary demo store has sales today.
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sum, err := s.Sales(ctx, mainID, dayStart, dayStart.Add(24*time.Hour))
	require.NoError(t, err)
	assert.NotZero(t, sum.Orders)
	assert.NotZero(t, sum.Revenue)

	products, err := s.SearchProducts(ctx, mainID, "chain", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, products)

	repairs, err := s.RepairCountsByStatus(ctx, mainID)
	require.NoError(t, err)
	assert.NotEmpty(t, repairs)

	memos, err := s.MemoExposure(ctx, mainID, time.Now())
	require.NoError(t, err)
	assert.NotZero(t, memos.Open)
}
