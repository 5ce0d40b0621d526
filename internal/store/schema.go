package store

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		ai_provider TEXT NOT NULL DEFAULT '',
		ai_model TEXT NOT NULL DEFAULT '',
		ai_temperature REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store_id INTEGER NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_customers_store ON customers(store_id);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store_id INTEGER NOT NULL,
		sku TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		metal_type TEXT NOT NULL DEFAULT '',
		weight_grams REAL NOT NULL DEFAULT 0,
		cost REAL NOT NULL DEFAULT 0,
		price REAL NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL,
		last_sold_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_products_store ON products(store_id);
	CREATE INDEX IF NOT EXISTS idx_products_store_sku ON products(store_id, sku);

	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store_id INTEGER NOT NULL,
		customer_id INTEGER,
		status TEXT NOT NULL DEFAULT 'pending',
		payment_method TEXT NOT NULL DEFAULT '',
		subtotal REAL NOT NULL DEFAULT 0,
		tax REAL NOT NULL DEFAULT 0,
		total REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_orders_store_created ON orders(store_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_orders_store_status ON orders(store_id, status);

	CREATE TABLE IF NOT EXISTS order_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL,
		product_id INTEGER,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		unit_price REAL NOT NULL DEFAULT 0,
		total REAL NOT NULL DEFAULT 0,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

	CREATE TABLE IF NOT EXISTS repairs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store_id INTEGER NOT NULL,
		customer_id INTEGER,
		item_description TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'intake',
		quoted_price REAL NOT NULL DEFAULT 0,
		promised_at DATETIME,
		delivered_at DATETIME,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_repairs_store_status ON repairs(store_id, status);

	CREATE TABLE IF NOT EXISTS memos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store_id INTEGER NOT NULL,
		vendor TEXT NOT NULL,
		item_description TEXT NOT NULL,
		value REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'open',
		due_at DATETIME,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_memos_store_status ON memos(store_id, status);

	CREATE TABLE IF NOT EXISTS ai_suggestions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store_id INTEGER NOT NULL,
		subject_type TEXT NOT NULL,
		subject_id INTEGER NOT NULL DEFAULT 0,
		kind TEXT NOT NULL,
		content TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_suggestions_store_status ON ai_suggestions(store_id, status);

	CREATE TABLE IF NOT EXISTS ai_usage (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store_id INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		feature TEXT NOT NULL,
		prompt_tokens INTEGER NOT NULL DEFAULT 0,
		completion_tokens INTEGER NOT NULL DEFAULT 0,
		total_tokens INTEGER NOT NULL DEFAULT 0,
		cost REAL NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_usage_store_created ON ai_usage(store_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}
