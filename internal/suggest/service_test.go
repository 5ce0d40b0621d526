package suggest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/settatam/shop-sub011/internal/config"
	"github.com/settatam/shop-sub011/internal/llm"
	"github.com/settatam/shop-sub011/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedProvider struct {
	reply   string
	err     error
	lastReq llm.Request
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Chat(_ context.Context, req llm.Request) (llm.Response, error) {
	p.lastReq = req
	if p.err != nil {
		return llm.Response{}, p.err
	}
	return llm.Response{
		Message:    llm.AssistantMessage(p.reply),
		StopReason: llm.StopReasonStop,
		Usage:      llm.Usage{PromptTokens: 20, CompletionTokens: 30, TotalTokens: 50},
	}, nil
}

func newFixture(t *testing.T, provider *scriptedProvider) (*Service, *store.Store, int64) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "suggest.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	info := &store.StoreInfo{Name: "Crown & Clasp", Currency: "USD"}
	require.NoError(t, s.CreateStore(context.Background(), info))

	mgr := llm.NewManager(config.Config{
		AIProvider:  "scripted",
		AIModel:     "test-model",
		AIMaxTokens: 128,
	}, s, zap.NewNop())
	if provider != nil {
		mgr.Register(provider)
	}

	return NewService(s, mgr, zap.NewNop()), s, info.ID
}

func TestGenerateDescriptionPersistsSuggestion(t *testing.T) {
	provider := &scriptedProvider{
		reply: "```json\n{\"description\": \"A lovely 14k band.\", \"highlights\": [\"14k gold\", \"size 7\"]}\n```",
	}
	svc, s, sid := newFixture(t, provider)
	ctx := context.Background()

	product := &store.Product{StoreID: sid, Name: "14k Gold Band", Category: "rings", MetalType: "gold_14k", WeightGrams: 5, Cost: 200, Price: 450, Quantity: 1}
	require.NoError(t, s.CreateProduct(ctx, product))

	res, err := svc.Generate(ctx, sid, KindDescription, Input{ProductID: product.ID})
	require.NoError(t, err)

	assert.False(t, res.Fallback)
	assert.Equal(t, "A lovely 14k band.", res.Fields["description"])
	assert.Equal(t, "product", res.Suggestion.SubjectType)
	assert.Equal(t, product.ID, res.Suggestion.SubjectID)
	assert.Contains(t, res.Suggestion.Metadata, `"model":"test-model"`)
	assert.Contains(t, res.Suggestion.Metadata, `"fallback":false`)

	// Prompt carried the product details.
	require.Len(t, provider.lastReq.Messages, 1)
	assert.Contains(t, provider.lastReq.Messages[0].Content, "14k Gold Band")
	assert.Contains(t, provider.lastReq.System, "Crown & Clasp")

	rows, err := s.ListSuggestions(ctx, sid, "", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, KindDescription, rows[0].Kind)
	assert.Equal(t, "pending", rows[0].Status)
	assert.JSONEq(t, `{"description": "A lovely 14k band.", "highlights": ["14k gold", "size 7"]}`, rows[0].Content)
}

func TestGenerateFallsBackOnProse(t *testing.T) {
	provider := &scriptedProvider{reply: "Happy to help! Let me think about pricing for you."}
	svc, s, sid := newFixture(t, provider)
	ctx := context.Background()

	product := &store.Product{StoreID: sid, Name: "Rope Chain", Cost: 100, Price: 180, Quantity: 1}
	require.NoError(t, s.CreateProduct(ctx, product))

	res, err := svc.Generate(ctx, sid, KindPricing, Input{ProductID: product.ID})
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Equal(t, 166.67, res.Fields["suggested_price"])
	assert.Equal(t, 115.0, res.Fields["floor_price"])
	assert.Contains(t, res.Suggestion.Metadata, `"fallback":true`)

	rows, err := s.ListSuggestions(ctx, sid, "", 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "fallback still writes exactly one row")
}

func TestGenerateFallsBackWhenUnconfigured(t *testing.T) {
	svc, s, sid := newFixture(t, nil)
	ctx := context.Background()

	res, err := svc.Generate(ctx, sid, KindTemplate, Input{Notes: "estate sale haul"})
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Contains(t, res.Fields["body"], "Crown & Clasp")
	assert.Equal(t, "store", res.Suggestion.SubjectType)

	rows, err := s.ListSuggestions(ctx, sid, "pending", 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGenerateFallsBackWhenPrimaryFieldMissing(t *testing.T) {
	provider := &scriptedProvider{reply: `{"note": "wrong shape"}`}
	svc, _, sid := newFixture(t, provider)

	res, err := svc.Generate(context.Background(), sid, KindCategory, Input{Notes: "mens watch, gold tone"})
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.NotEmpty(t, res.Fields["category"])
}

func TestGenerateRejectsUnknownKind(t *testing.T) {
	svc, s, sid := newFixture(t, &scriptedProvider{reply: "{}"})

	_, err := svc.Generate(context.Background(), sid, "horoscope", Input{})
	require.ErrorIs(t, err, ErrUnknownKind)

	rows, err := s.ListSuggestions(context.Background(), sid, "", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGenerateUnknownProduct(t *testing.T) {
	svc, _, sid := newFixture(t, &scriptedProvider{reply: "{}"})

	_, err := svc.Generate(context.Background(), sid, KindDescription, Input{ProductID: 404})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestExtractJSON(t *testing.T) {
	fields, raw, err := extractJSON("```json\n{\"category\": \"rings\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "rings", fields["category"])
	assert.Equal(t, `{"category": "rings"}`, raw)

	fields, _, err = extractJSON(`Sure, here you go: {"category": "coins", "confidence": 0.9} Hope that helps!`)
	require.NoError(t, err)
	assert.Equal(t, "coins", fields["category"])

	_, _, err = extractJSON("no json here")
	require.Error(t, err)

	_, _, err = extractJSON(`{"busted": `)
	require.Error(t, err)
}
