package store

import (
	"context"
	"time"
)

func (s *Store) InsertUsage(ctx context.Context, u *UsageRow) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_usage (store_id, provider, model, feature, prompt_tokens, completion_tokens, total_tokens, cost, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.StoreID, u.Provider, u.Model, u.Feature, u.PromptTokens, u.CompletionTokens, u.TotalTokens, u.Cost, u.DurationMS, u.CreatedAt.UTC())
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

// AIUsageSummary totals token spend for the window, with a per-provider and
// per-model breakdown.
func (s *Store) AIUsageSummary(ctx context.Context, storeID int64, from, to time.Time) (UsageSummary, error) {
	from, to = utcRange(from, to)

	var sum UsageSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(prompt_tokens), 0), COALESCE(SUM(completion_tokens), 0),
		       COALESCE(SUM(total_tokens), 0), COALESCE(SUM(cost), 0)
		FROM ai_usage
		WHERE store_id = ? AND created_at >= ? AND created_at <= ?
	`, storeID, from, to).Scan(&sum.Calls, &sum.PromptTokens, &sum.CompletionTokens, &sum.TotalTokens, &sum.Cost)
	if err != nil {
		return UsageSummary{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT provider, model, COUNT(*), COALESCE(SUM(total_tokens), 0), COALESCE(SUM(cost), 0)
		FROM ai_usage
		WHERE store_id = ? AND created_at >= ? AND created_at <= ?
		GROUP BY provider, model ORDER BY 5 DESC, provider, model
	`, storeID, from, to)
	if err != nil {
		return UsageSummary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var mu ModelUsage
		if err := rows.Scan(&mu.Provider, &mu.Model, &mu.Calls, &mu.TotalTokens, &mu.Cost); err != nil {
			return UsageSummary{}, err
		}
		sum.ByModel = append(sum.ByModel, mu)
	}
	return sum, rows.Err()
}
