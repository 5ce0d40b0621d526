package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/settatam/shop-sub011/internal/config"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnknownTable = errors.New("unknown table")
)

// Store is the tenant-scoped persistence layer. Every read and write takes
// a store (tenant) identifier and filters on it; nothing here crosses
// tenants.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

func New(cfg config.Config, logger *zap.Logger) (*Store, error) {
	return Open(cfg.DBPath, logger)
}

func Open(path string, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, logger: logger.Named("store")}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Store rows (tenants).

func (s *Store) CreateStore(ctx context.Context, st *StoreInfo) error {
	if st.Currency == "" {
		st.Currency = "USD"
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO stores (name, currency, ai_provider, ai_model, ai_temperature, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, st.Name, st.Currency, st.AIProvider, st.AIModel, st.AITemperature, st.CreatedAt.UTC())
	if err != nil {
		return err
	}
	st.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetStore(ctx context.Context, id int64) (StoreInfo, error) {
	var st StoreInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, currency, ai_provider, ai_model, ai_temperature, created_at
		FROM stores WHERE id = ?
	`, id).Scan(&st.ID, &st.Name, &st.Currency, &st.AIProvider, &st.AIModel, &st.AITemperature, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return StoreInfo{}, fmt.Errorf("store %d: %w", id, ErrNotFound)
	}
	return st, err
}

func (s *Store) ListStores(ctx context.Context) ([]StoreInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, currency, ai_provider, ai_model, ai_temperature, created_at
		FROM stores ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []StoreInfo
	for rows.Next() {
		var st StoreInfo
		if err := rows.Scan(&st.ID, &st.Name, &st.Currency, &st.AIProvider, &st.AIModel, &st.AITemperature, &st.CreatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, st)
	}
	return stores, rows.Err()
}

// utcRange normalizes a query window so lexical DATETIME comparisons hold
// regardless of the caller's zone. A zero from is kept (it sorts before any
// stored value).
func utcRange(from, to time.Time) (time.Time, time.Time) {
	if !from.IsZero() {
		from = from.UTC()
	}
	if to.IsZero() {
		to = time.Now()
	}
	return from, to.UTC()
}

// sqliteTimeFormats covers the encodings go-sqlite3 produces for DATETIME
// values surfaced through expressions (MAX, CASE), which scan as text.
var sqliteTimeFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
}

func parseSQLiteTime(value string) (time.Time, bool) {
	for _, format := range sqliteTimeFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func scanTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	if t, ok := parseSQLiteTime(ns.String); ok {
		return &t
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC()
}
