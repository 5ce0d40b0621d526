package store

import (
	"context"
	"fmt"
	"math"
	"time"
)

// SeedDemo populates two demo tenants so the CLI and API have something to
// answer questions about. Returns the primary store's id.
func (s *Store) SeedDemo(ctx context.Context) (int64, error) {
	now := time.Now()
	day := func(daysAgo int, hour int) time.Time {
		t := now.AddDate(0, 0, -daysAgo)
		return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
	}
	ptr := func(t time.Time) *time.Time { return &t }

	main := &StoreInfo{Name: "Crown & Clasp Jewelry and Loan", Currency: "USD"}
	if err := s.CreateStore(ctx, main); err != nil {
		return 0, fmt.Errorf("seed store: %w", err)
	}
	second := &StoreInfo{Name: "Eastside Pawn", Currency: "USD"}
	if err := s.CreateStore(ctx, second); err != nil {
		return 0, fmt.Errorf("seed store: %w", err)
	}

	customers := []*Customer{
		{StoreID: main.ID, FirstName: "Rosa", LastName: "Delgado", Email: "rosa.delgado@example.com", Phone: "555-0101", CreatedAt: day(160, 11)},
		{StoreID: main.ID, FirstName: "Marcus", LastName: "Webb", Email: "marcus.webb@example.com", Phone: "555-0102", CreatedAt: day(120, 15)},
		{StoreID: main.ID, FirstName: "Lena", LastName: "Okafor", Email: "lena.okafor@example.com", Phone: "555-0103", CreatedAt: day(75, 10)},
		{StoreID: main.ID, FirstName: "Dmitri", LastName: "Sokolov", Email: "d.sokolov@example.com", Phone: "555-0104", CreatedAt: day(40, 13)},
		{StoreID: main.ID, FirstName: "April", LastName: "Chen", Email: "april.chen@example.com", Phone: "555-0105", CreatedAt: day(12, 16)},
		{StoreID: second.ID, FirstName: "Hank", LastName: "Morrow", Email: "hank.morrow@example.com", Phone: "555-0201", CreatedAt: day(90, 12)},
	}
	for _, c := range customers {
		if err := s.CreateCustomer(ctx, c); err != nil {
			return 0, fmt.Errorf("seed customer: %w", err)
		}
	}

	products := []*Product{
		{StoreID: main.ID, SKU: "RING-14K-001", Name: "14k Gold Solitaire Ring", Category: "rings", MetalType: "gold_14k", WeightGrams: 4.2, Cost: 420, Price: 1150, Quantity: 3, CreatedAt: day(200, 9)},
		{StoreID: main.ID, SKU: "CHAIN-18K-002", Name: "18k Cuban Link Chain", Category: "chains", MetalType: "gold_18k", WeightGrams: 38.5, Cost: 2450, Price: 5200, Quantity: 2, CreatedAt: day(180, 9)},
		{StoreID: main.ID, SKU: "BRAC-SS-003", Name: "Sterling Silver Bangle", Category: "bracelets", MetalType: "sterling_silver", WeightGrams: 22.0, Cost: 35, Price: 140, Quantity: 8, CreatedAt: day(150, 9)},
		{StoreID: main.ID, SKU: "WATCH-LUX-004", Name: "Pre-Owned Dive Watch", Category: "watches", Cost: 3800, Price: 7450, Quantity: 1, CreatedAt: day(140, 9)},
		{StoreID: main.ID, SKU: "EAR-14K-005", Name: "14k Diamond Stud Earrings", Category: "earrings", MetalType: "gold_14k", WeightGrams: 1.8, Cost: 310, Price: 890, Quantity: 5, CreatedAt: day(130, 9)},
		{StoreID: main.ID, SKU: "COIN-24K-006", Name: "1oz Gold Eagle Coin", Category: "bullion", MetalType: "gold_24k", WeightGrams: 31.1, Cost: 2300, Price: 2580, Quantity: 4, CreatedAt: day(100, 9)},
		{StoreID: main.ID, SKU: "PEND-10K-007", Name: "10k Cross Pendant", Category: "pendants", MetalType: "gold_10k", WeightGrams: 6.4, Cost: 145, Price: 399, Quantity: 2, CreatedAt: day(210, 9)},
		{StoreID: main.ID, SKU: "RING-PLAT-008", Name: "Platinum Wedding Band", Category: "rings", MetalType: "platinum", WeightGrams: 7.1, Cost: 560, Price: 1320, Quantity: 1, CreatedAt: day(260, 9)},
		{StoreID: second.ID, SKU: "TOOL-GEN-101", Name: "Cordless Drill Kit", Category: "tools", Cost: 60, Price: 145, Quantity: 2, CreatedAt: day(80, 9)},
	}
	for _, p := range products {
		if err := s.CreateProduct(ctx, p); err != nil {
			return 0, fmt.Errorf("seed product: %w", err)
		}
	}

	orders := []*Order{
		{StoreID: main.ID, CustomerID: customers[0].ID, Status: "paid", PaymentMethod: "card", CreatedAt: day(0, 10),
			Items: []OrderItem{{ProductID: products[2].ID, Name: products[2].Name, Quantity: 1, UnitPrice: 140, Total: 140}}},
		{StoreID: main.ID, CustomerID: customers[4].ID, Status: "paid", PaymentMethod: "cash", CreatedAt: day(0, 14),
			Items: []OrderItem{{ProductID: products[4].ID, Name: products[4].Name, Quantity: 1, UnitPrice: 890, Total: 890}}},
		{StoreID: main.ID, CustomerID: customers[1].ID, Status: "paid", PaymentMethod: "card", CreatedAt: day(2, 12),
			Items: []OrderItem{{ProductID: products[0].ID, Name: products[0].Name, Quantity: 1, UnitPrice: 1150, Total: 1150}}},
		{StoreID: main.ID, CustomerID: customers[1].ID, Status: "paid", PaymentMethod: "card", CreatedAt: day(9, 15),
			Items: []OrderItem{{ProductID: products[1].ID, Name: products[1].Name, Quantity: 1, UnitPrice: 5200, Total: 5200}}},
		{StoreID: main.ID, CustomerID: customers[2].ID, Status: "paid", PaymentMethod: "financing", CreatedAt: day(16, 11),
			Items: []OrderItem{{ProductID: products[3].ID, Name: products[3].Name, Quantity: 1, UnitPrice: 7450, Total: 7450}}},
		{StoreID: main.ID, CustomerID: customers[0].ID, Status: "paid", PaymentMethod: "cash", CreatedAt: day(25, 13),
			Items: []OrderItem{{ProductID: products[5].ID, Name: products[5].Name, Quantity: 2, UnitPrice: 2580, Total: 5160}}},
		{StoreID: main.ID, CustomerID: customers[3].ID, Status: "refunded", PaymentMethod: "card", CreatedAt: day(4, 16),
			Items: []OrderItem{{ProductID: products[4].ID, Name: products[4].Name, Quantity: 1, UnitPrice: 890, Total: 890}}},
		{StoreID: main.ID, CustomerID: customers[3].ID, Status: "paid", PaymentMethod: "card", CreatedAt: day(38, 12),
			Items: []OrderItem{{ProductID: products[2].ID, Name: products[2].Name, Quantity: 2, UnitPrice: 140, Total: 280}}},
		{StoreID: second.ID, CustomerID: customers[5].ID, Status: "paid", PaymentMethod: "cash", CreatedAt: day(1, 10),
			Items: []OrderItem{{ProductID: products[8].ID, Name: products[8].Name, Quantity: 1, UnitPrice: 145, Total: 145}}},
	}
	for _, o := range orders {
		var subtotal float64
		for _, item := range o.Items {
			subtotal += item.Total
		}
		o.Subtotal = round2(subtotal)
		o.Tax = round2(subtotal * 0.0825)
		o.Total = round2(o.Subtotal + o.Tax)
		if err := s.CreateOrder(ctx, o); err != nil {
			return 0, fmt.Errorf("seed order: %w", err)
		}
	}

	repairs := []*Repair{
		{StoreID: main.ID, CustomerID: customers[0].ID, ItemDescription: "Resize 14k ring from 7 to 6", Status: "in_progress", QuotedPrice: 45, PromisedAt: ptr(day(-2, 17)), CreatedAt: day(3, 10)},
		{StoreID: main.ID, CustomerID: customers[2].ID, ItemDescription: "Replace watch crystal", Status: "ready", QuotedPrice: 120, PromisedAt: ptr(day(1, 17)), CreatedAt: day(6, 12)},
		{StoreID: main.ID, CustomerID: customers[1].ID, ItemDescription: "Solder broken chain clasp", Status: "intake", QuotedPrice: 35, PromisedAt: ptr(day(-5, 17)), CreatedAt: day(1, 9)},
		{StoreID: main.ID, CustomerID: customers[4].ID, ItemDescription: "Prong re-tip on solitaire", Status: "delivered", QuotedPrice: 85, PromisedAt: ptr(day(8, 17)), DeliveredAt: ptr(day(0, 11)), CreatedAt: day(14, 10)},
		{StoreID: second.ID, CustomerID: customers[5].ID, ItemDescription: "Engraving on lighter", Status: "intake", QuotedPrice: 25, CreatedAt: day(2, 15)},
	}
	for _, r := range repairs {
		if err := s.CreateRepair(ctx, r); err != nil {
			return 0, fmt.Errorf("seed repair: %w", err)
		}
	}

	memos := []*Memo{
		{StoreID: main.ID, Vendor: "Goldstein Estate Brokers", ItemDescription: "Art deco emerald brooch", Value: 4200, Status: "open", DueAt: ptr(day(-10, 12)), CreatedAt: day(95, 10)},
		{StoreID: main.ID, Vendor: "Pacific Gem Supply", ItemDescription: "Loose diamond parcel 2.1ctw", Value: 6800, Status: "open", DueAt: ptr(day(-35, 12)), CreatedAt: day(70, 10)},
		{StoreID: main.ID, Vendor: "Meridian Watch Co", ItemDescription: "Vintage chronograph", Value: 3100, Status: "open", DueAt: ptr(day(20, 12)), CreatedAt: day(18, 10)},
		{StoreID: main.ID, Vendor: "Pacific Gem Supply", ItemDescription: "Sapphire cocktail ring", Value: 1500, Status: "returned", DueAt: ptr(day(30, 12)), CreatedAt: day(120, 10)},
		{StoreID: second.ID, Vendor: "Morrow Estate Sales", ItemDescription: "Silver flatware set", Value: 900, Status: "open", CreatedAt: day(33, 10)},
	}
	for _, m := range memos {
		if err := s.CreateMemo(ctx, m); err != nil {
			return 0, fmt.Errorf("seed memo: %w", err)
		}
	}

	return main.ID, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
