package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/settatam/shop-sub011/internal/assist"
	"github.com/settatam/shop-sub011/internal/config"
	"github.com/settatam/shop-sub011/internal/llm"
	"github.com/settatam/shop-sub011/internal/metals"
	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/suggest"
	"github.com/settatam/shop-sub011/internal/table"
	"github.com/settatam/shop-sub011/internal/tool"
	"github.com/settatam/shop-sub011/internal/tool/retail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedProvider struct {
	responses []llm.Response
	requests  []llm.Request
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Chat(_ context.Context, req llm.Request) (llm.Response, error) {
	p.requests = append(p.requests, req)
	if len(p.responses) == 0 {
		return llm.Response{}, llm.ErrEmptyResponse
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

func textResponse(text string) llm.Response {
	return llm.Response{
		Message:    llm.AssistantMessage(text),
		StopReason: llm.StopReasonStop,
		Usage:      llm.Usage{PromptTokens: 100, CompletionTokens: 25, TotalTokens: 125},
	}
}

func toolCallResponse(id, name, args string) llm.Response {
	return llm.Response{
		Message: llm.Message{
			Role:      llm.RoleAssistant,
			ToolCalls: []llm.ToolCall{{ID: id, Name: name, Arguments: args}},
		},
		StopReason: llm.StopReasonToolCalls,
		Usage:      llm.Usage{PromptTokens: 90, CompletionTokens: 15, TotalTokens: 105},
	}
}

type testServer struct {
	handler  http.Handler
	st       *store.Store
	storeID  int64
	provider *scriptedProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	s, err := store.Open(filepath.Join(t.TempDir(), "api.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	info := &store.StoreInfo{Name: "Crown & Clasp", Currency: "USD"}
	require.NoError(t, s.CreateStore(context.Background(), info))

	provider := &scriptedProvider{}
	mgr := llm.NewManager(config.Config{
		AIProvider:  "scripted",
		AIModel:     "test-model",
		AIMaxTokens: 256,
	}, s, logger)
	mgr.Register(provider)

	quotes := metals.NewService(config.Config{
		GoldSpotUSD:      2400,
		SilverSpotUSD:    29,
		PlatinumSpotUSD:  980,
		PalladiumSpotUSD: 960,
	}, logger)

	registry := tool.NewRegistry()
	require.NoError(t, retail.Register(registry, s, quotes))
	dispatcher := tool.NewDispatcher(registry, logger)

	assistant := assist.NewAssistant(s, mgr, registry, dispatcher, logger)
	suggestions := suggest.NewService(s, mgr, logger)
	tables := table.NewService(s, logger)

	server := NewServer(s, assistant, suggestions, tables, registry, logger)
	return &testServer{
		handler:  server.Handler(),
		st:       s,
		storeID:  info.ID,
		provider: provider,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAssistEndpoint(t *testing.T) {
	ts := newTestServer(t)

	order := &store.Order{StoreID: ts.storeID, Status: "paid", PaymentMethod: "cash", Subtotal: 150, Total: 150,
		Items: []store.OrderItem{{Name: "Estate Ring", Quantity: 1, UnitPrice: 150}}}
	require.NoError(t, ts.st.CreateOrder(context.Background(), order))

	ts.provider.responses = []llm.Response{
		toolCallResponse("call_1", "sales_summary", `{"period":"today"}`),
		textResponse("One sale today for $150.00."),
	}

	w := ts.do(t, http.MethodPost, "/stores/1/assist", map[string]string{"query": "how are sales today?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	answer := decode[struct {
		Answer    string `json:"answer"`
		Rounds    int    `json:"rounds"`
		ToolCalls []struct {
			Name string `json:"name"`
			OK   bool   `json:"ok"`
		} `json:"tool_calls"`
	}](t, w)
	assert.Equal(t, "One sale today for $150.00.", answer.Answer)
	assert.Equal(t, 2, answer.Rounds)
	require.Len(t, answer.ToolCalls, 1)
	assert.Equal(t, "sales_summary", answer.ToolCalls[0].Name)
	assert.True(t, answer.ToolCalls[0].OK)
}

func TestAssistEndpointValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/stores/1/assist", map[string]string{"query": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/stores/1/assist", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = ts.do(t, http.MethodPost, "/stores/999/assist", map[string]string{"query": "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/stores/zero/assist", map[string]string{"query": "hello"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistEndpointReplaysHistory(t *testing.T) {
	ts := newTestServer(t)
	ts.provider.responses = []llm.Response{textResponse("Maria, as I said.")}

	w := ts.do(t, http.MethodPost, "/stores/1/assist", assistRequest{
		Query: "who was it again?",
		History: []historyTurn{
			{Role: "user", Content: "who spent the most?"},
			{Role: "assistant", Content: "Maria was the top spender."},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, ts.provider.requests, 1)
	msgs := ts.provider.requests[0].Messages
	require.Len(t, msgs, 3, "two history turns plus the new question")
	assert.Equal(t, llm.RoleUser, msgs[0].Role)
	assert.Equal(t, llm.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "who was it again?", msgs[2].Content)
}

func TestToolsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/stores/1/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[toolListResponse](t, w)
	require.Len(t, list.Tools, 15)
	assert.Equal(t, "business_pulse", list.Tools[0].Name)
	for _, def := range list.Tools {
		assert.NotEmpty(t, def.Description, def.Name)
		assert.Equal(t, "object", def.Parameters["type"], def.Name)
	}
}

func TestSuggestionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	product := &store.Product{StoreID: ts.storeID, Name: "14k Gold Band", Category: "rings", Cost: 200, Price: 450, Quantity: 1}
	require.NoError(t, ts.st.CreateProduct(ctx, product))

	ts.provider.responses = []llm.Response{
		textResponse(`{"description": "A classic 14k band.", "highlights": ["14k gold"]}`),
	}

	w := ts.do(t, http.MethodPost, "/stores/1/suggestions/description", suggestionRequest{ProductID: product.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[suggest.Result](t, w)
	assert.False(t, created.Fallback)
	assert.Equal(t, "pending", created.Suggestion.Status)
	require.NotZero(t, created.Suggestion.ID)

	w = ts.do(t, http.MethodGet, "/stores/1/suggestions?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[suggestionListResponse](t, w)
	require.Len(t, list.Suggestions, 1)

	w = ts.do(t, http.MethodPatch, "/stores/1/suggestions/1", reviewRequest{Status: "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reviewed := decode[store.Suggestion](t, w)
	assert.Equal(t, "accepted", reviewed.Status)

	w = ts.do(t, http.MethodGet, "/stores/1/suggestions?status=pending", nil)
	list = decode[suggestionListResponse](t, w)
	assert.Empty(t, list.Suggestions)
	assert.Contains(t, w.Body.String(), `"suggestions":[]`, "empty list marshals as [], not null")
}

func TestSuggestionValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/stores/1/suggestions/horoscope", suggestionRequest{Notes: "gold band"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPatch, "/stores/1/suggestions/1", reviewRequest{Status: "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPatch, "/stores/1/suggestions/404", reviewRequest{Status: "accepted"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsageEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.provider.responses = []llm.Response{textResponse("All quiet.")}

	w := ts.do(t, http.MethodPost, "/stores/1/assist", map[string]string{"query": "anything new?"})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/stores/1/usage?period=today", nil)
	require.Equal(t, http.StatusOK, w.Code)

	usage := decode[usageResponse](t, w)
	assert.Equal(t, "today", usage.Period)
	assert.Equal(t, 1, usage.Usage.Calls)
	assert.Equal(t, 125, usage.Usage.TotalTokens)
	require.Len(t, usage.Usage.ByModel, 1)
	assert.Equal(t, "test-model", usage.Usage.ByModel[0].Model)

	w = ts.do(t, http.MethodGet, "/stores/1/usage?period=fortnight", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTableEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	for i, status := range []string{"paid", "paid", "pending"} {
		order := &store.Order{StoreID: ts.storeID, Status: status, PaymentMethod: "cash",
			Subtotal: float64(100 + i), Total: float64(100 + i),
			CreatedAt: time.Date(2026, time.August, 1+i, 10, 0, 0, 0, time.UTC)}
		require.NoError(t, ts.st.CreateOrder(ctx, order))
	}

	w := ts.do(t, http.MethodGet, "/stores/1/tables", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[tableListResponse](t, w)
	require.Len(t, list.Tables, 4)

	w = ts.do(t, http.MethodGet, "/stores/1/tables/orders?per_page=1&sort=total&dir=desc&filter[status]=paid", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decode[tablePageResponse](t, w)
	assert.Equal(t, "orders", page.Definition.Name)
	assert.Equal(t, 2, page.Page.Total)
	assert.Equal(t, 2, page.Page.LastPage)
	require.Len(t, page.Page.Rows, 1)
	assert.Equal(t, 101.0, page.Page.Rows[0]["total"])

	w = ts.do(t, http.MethodGet, "/stores/1/tables/orders?sort=password_hash", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/stores/1/tables/payroll", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/stores/1/tables/orders?page=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodDelete, "/stores/1/tools", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
