package table

// definitions declares the four admin tables. Column keys line up with the
// row keys the store returns for the same table name; filter keys line up
// with its filter whitelist.
func definitions() map[string]Definition {
	defs := []Definition{
		{
			Name:  "orders",
			Title: "Orders",
			Columns: []Column{
				{Key: "id", Label: "#", Type: TypeNumber, Sortable: true, Align: "right"},
				{Key: "customer", Label: "Customer", Type: TypeText},
				{Key: "status", Label: "Status", Type: TypeBadge, Sortable: true},
				{Key: "payment_method", Label: "Payment", Type: TypeText},
				{Key: "subtotal", Label: "Subtotal", Type: TypeMoney, Align: "right"},
				{Key: "tax", Label: "Tax", Type: TypeMoney, Align: "right"},
				{Key: "total", Label: "Total", Type: TypeMoney, Sortable: true, Align: "right"},
				{Key: "created_at", Label: "Placed", Type: TypeDateTime, Sortable: true},
			},
			Filters: []Filter{
				{Key: "status", Label: "Status", Type: "select", Options: []string{"pending", "paid", "refunded", "cancelled"}},
				{Key: "payment_method", Label: "Payment", Type: "select", Options: []string{"cash", "card", "check", "financing"}},
			},
			Actions: []RowAction{
				{Key: "view", Label: "View"},
				{Key: "refund", Label: "Refund", Confirm: true},
			},
			DefaultSort: "created_at:desc",
		},
		{
			Name:  "products",
			Title: "Inventory",
			Columns: []Column{
				{Key: "id", Label: "#", Type: TypeNumber, Sortable: true, Align: "right"},
				{Key: "sku", Label: "SKU", Type: TypeText, Sortable: true},
				{Key: "name", Label: "Name", Type: TypeText, Sortable: true},
				{Key: "category", Label: "Category", Type: TypeText},
				{Key: "metal_type", Label: "Metal", Type: TypeText},
				{Key: "weight_grams", Label: "Weight (g)", Type: TypeNumber, Align: "right"},
				{Key: "cost", Label: "Cost", Type: TypeMoney, Align: "right"},
				{Key: "price", Label: "Price", Type: TypeMoney, Sortable: true, Align: "right"},
				{Key: "quantity", Label: "Qty", Type: TypeNumber, Sortable: true, Align: "right"},
				{Key: "status", Label: "Status", Type: TypeBadge},
				{Key: "created_at", Label: "Added", Type: TypeDateTime, Sortable: true},
			},
			Filters: []Filter{
				{Key: "category", Label: "Category", Type: "select", Options: []string{"rings", "chains", "bracelets", "earrings", "pendants", "watches", "bullion", "tools"}},
				{Key: "status", Label: "Status", Type: "select", Options: []string{"active", "archived"}},
				{Key: "metal_type", Label: "Metal", Type: "select", Options: []string{"gold_10k", "gold_14k", "gold_18k", "gold_22k", "gold_24k", "sterling_silver", "fine_silver", "platinum", "palladium"}},
			},
			Actions: []RowAction{
				{Key: "view", Label: "View"},
				{Key: "edit", Label: "Edit"},
				{Key: "archive", Label: "Archive", Confirm: true},
			},
			DefaultSort: "created_at:desc",
		},
		{
			Name:  "repairs",
			Title: "Repairs",
			Columns: []Column{
				{Key: "id", Label: "#", Type: TypeNumber, Sortable: true, Align: "right"},
				{Key: "customer", Label: "Customer", Type: TypeText},
				{Key: "item_description", Label: "Item", Type: TypeText},
				{Key: "status", Label: "Status", Type: TypeBadge, Sortable: true},
				{Key: "quoted_price", Label: "Quote", Type: TypeMoney, Sortable: true, Align: "right"},
				{Key: "promised_at", Label: "Promised", Type: TypeDateTime, Sortable: true},
				{Key: "created_at", Label: "Taken in", Type: TypeDateTime, Sortable: true},
			},
			Filters: []Filter{
				{Key: "status", Label: "Status", Type: "select", Options: []string{"intake", "in_progress", "ready", "delivered"}},
			},
			Actions: []RowAction{
				{Key: "view", Label: "View"},
				{Key: "advance", Label: "Advance status"},
			},
			DefaultSort: "created_at:desc",
		},
		{
			Name:  "memos",
			Title: "Memo Items",
			Columns: []Column{
				{Key: "id", Label: "#", Type: TypeNumber, Sortable: true, Align: "right"},
				{Key: "vendor", Label: "Vendor", Type: TypeText, Sortable: true},
				{Key: "item_description", Label: "Item", Type: TypeText},
				{Key: "value", Label: "Value", Type: TypeMoney, Sortable: true, Align: "right"},
				{Key: "status", Label: "Status", Type: TypeBadge},
				{Key: "due_at", Label: "Due", Type: TypeDateTime, Sortable: true},
				{Key: "created_at", Label: "Received", Type: TypeDateTime, Sortable: true},
			},
			Filters: []Filter{
				{Key: "status", Label: "Status", Type: "select", Options: []string{"open", "returned", "purchased"}},
			},
			Actions: []RowAction{
				{Key: "view", Label: "View"},
				{Key: "return", Label: "Return to vendor", Confirm: true},
			},
			DefaultSort: "created_at:desc",
		},
	}

	out := make(map[string]Definition, len(defs))
	for _, def := range defs {
		out[def.Name] = def
	}
	return out
}
