package store

import "time"

// StoreInfo is one tenant. AIProvider/AIModel/AITemperature override the
// platform defaults when non-zero.
type StoreInfo struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Currency      string    `json:"currency"`
	AIProvider    string    `json:"ai_provider,omitempty"`
	AIModel       string    `json:"ai_model,omitempty"`
	AITemperature float64   `json:"ai_temperature,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Customer struct {
	ID        int64     `json:"id"`
	StoreID   int64     `json:"store_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Product statuses: active | archived.
type Product struct {
	ID          int64      `json:"id"`
	StoreID     int64      `json:"store_id"`
	SKU         string     `json:"sku,omitempty"`
	Name        string     `json:"name"`
	Category    string     `json:"category,omitempty"`
	MetalType   string     `json:"metal_type,omitempty"`
	WeightGrams float64    `json:"weight_grams,omitempty"`
	Cost        float64    `json:"cost"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	LastSoldAt  *time.Time `json:"last_sold_at,omitempty"`
}

// Order statuses: pending | paid | refunded | cancelled.
type Order struct {
	ID            int64       `json:"id"`
	StoreID       int64       `json:"store_id"`
	CustomerID    int64       `json:"customer_id,omitempty"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	Total         float64     `json:"total"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// OrderSummary is the list-view shape (customer name joined in).
type OrderSummary struct {
	ID            int64     `json:"id"`
	CustomerName  string    `json:"customer_name,omitempty"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Total         float64   `json:"total"`
	ItemCount     int       `json:"item_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Repair statuses: intake | in_progress | ready | delivered.
type Repair struct {
	ID              int64      `json:"id"`
	StoreID         int64      `json:"store_id"`
	CustomerID      int64      `json:"customer_id,omitempty"`
	ItemDescription string     `json:"item_description"`
	Status          string     `json:"status"`
	QuotedPrice     float64    `json:"quoted_price"`
	PromisedAt      *time.Time `json:"promised_at,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Memo statuses: open | returned | purchased.
type Memo struct {
	ID              int64      `json:"id"`
	StoreID         int64      `json:"store_id"`
	Vendor          string     `json:"vendor"`
	ItemDescription string     `json:"item_description"`
	Value           float64    `json:"value"`
	Status          string     `json:"status"`
	DueAt           *time.Time `json:"due_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Suggestion statuses: pending | accepted | rejected.
type Suggestion struct {
	ID          int64     `json:"id"`
	StoreID     int64     `json:"store_id"`
	SubjectType string    `json:"subject_type"`
	SubjectID   int64     `json:"subject_id,omitempty"`
	Kind        string    `json:"kind"`
	Content     string    `json:"content"`
	Metadata    string    `json:"metadata,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type UsageRow struct {
	ID               int64     `json:"id"`
	StoreID          int64     `json:"store_id"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	Feature          string    `json:"feature"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	Cost             float64   `json:"cost"`
	DurationMS       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// Read-side aggregate shapes.

type SalesSummary struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	Tax     float64 `json:"tax"`
	Average float64 `json:"average"`
}

type PaymentTotal struct {
	Method string  `json:"method"`
	Orders int     `json:"orders"`
	Amount float64 `json:"amount"`
}

type StatusTotal struct {
	Status string  `json:"status"`
	Orders int     `json:"orders"`
	Amount float64 `json:"amount"`
}

type ProductSales struct {
	ProductID int64   `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type CustomerSpend struct {
	CustomerID int64      `json:"customer_id"`
	Name       string     `json:"name"`
	Orders     int        `json:"orders"`
	Total      float64    `json:"total"`
	LastOrder  *time.Time `json:"last_order,omitempty"`
}

type CustomerCounts struct {
	New       int `json:"new"`
	Returning int `json:"returning"`
}

type CustomerProfile struct {
	Customer
	LifetimeSpend float64    `json:"lifetime_spend"`
	OrderCount    int        `json:"order_count"`
	LastPurchase  *time.Time `json:"last_purchase,omitempty"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type AlertCounts struct {
	LowStock  int `json:"low_stock"`
	SlowStock int `json:"slow_stock"`
	DeadStock int `json:"dead_stock"`
}

type CategoryValuation struct {
	Category    string  `json:"category"`
	Items       int     `json:"items"`
	Units       int     `json:"units"`
	RetailValue float64 `json:"retail_value"`
	CostValue   float64 `json:"cost_value"`
}

type MetalHolding struct {
	MetalType  string  `json:"metal_type"`
	Items      int     `json:"items"`
	TotalGrams float64 `json:"total_grams"`
}

type MemoStats struct {
	Open     int     `json:"open"`
	Exposure float64 `json:"exposure"`
	Overdue  int     `json:"overdue"`
}

type ModelUsage struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Calls       int     `json:"calls"`
	TotalTokens int     `json:"total_tokens"`
	Cost        float64 `json:"cost"`
}

type UsageSummary struct {
	Calls            int          `json:"calls"`
	PromptTokens     int          `json:"prompt_tokens"`
	CompletionTokens int          `json:"completion_tokens"`
	TotalTokens      int          `json:"total_tokens"`
	Cost             float64      `json:"cost"`
	ByModel          []ModelUsage `json:"by_model,omitempty"`
}
