package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/settatam/shop-sub011/internal/config"
	"github.com/settatam/shop-sub011/internal/store"

	"go.uber.org/zap"
)

// Selection is the provider/model choice for one request, with per-store
// overrides already applied. Resolved once, then immutable.
type Selection struct {
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Manager owns the registered providers, resolves per-store AI settings and
// records an ai_usage row for every completion.
type Manager struct {
	defaults  Selection
	store     *store.Store
	logger    *zap.Logger
	providers map[string]Provider
}

func NewManager(cfg config.Config, st *store.Store, logger *zap.Logger) *Manager {
	m := &Manager{
		defaults: Selection{
			Provider:    cfg.AIProvider,
			Model:       cfg.AIModel,
			Temperature: cfg.AITemperature,
			MaxTokens:   cfg.AIMaxTokens,
		},
		store:     st,
		logger:    logger.Named("llm"),
		providers: map[string]Provider{},
	}

	if strings.TrimSpace(cfg.OpenRouterAPIKey) != "" {
		m.Register(NewOpenRouter(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.Timeout))
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		m.Register(NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Timeout))
	}
	if strings.TrimSpace(cfg.AnthropicAPIKey) != "" {
		m.Register(NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, cfg.Timeout))
	}

	if len(m.providers) == 0 {
		m.logger.Warn("no llm provider configured; AI calls will fail until a key is set")
	}

	return m
}

// Register adds a provider. Later registrations under the same name replace
// earlier ones, so tests can swap in fakes.
func (m *Manager) Register(p Provider) {
	m.providers[p.Name()] = p
}

func (m *Manager) Providers() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve applies a store's AI overrides to the platform defaults.
func (m *Manager) Resolve(st store.StoreInfo) Selection {
	sel := m.defaults
	if st.AIProvider != "" {
		sel.Provider = st.AIProvider
	}
	if st.AIModel != "" {
		sel.Model = st.AIModel
	}
	if st.AITemperature != 0 {
		sel.Temperature = st.AITemperature
	}
	return sel
}

// Complete runs one chat round trip against the store's resolved provider,
// then records usage. A failed usage write is logged, never surfaced. The
// call itself is not retried (callers own malformed-output handling).
func (m *Manager) Complete(ctx context.Context, st store.StoreInfo, feature string, req Request) (Response, error) {
	if len(m.providers) == 0 {
		return Response{}, ErrNotConfigured
	}

	sel := m.Resolve(st)
	provider, ok := m.providers[sel.Provider]
	if !ok {
		return Response{}, fmt.Errorf("%w: %s", ErrUnknownProvider, sel.Provider)
	}

	if req.Model == "" {
		req.Model = sel.Model
	}
	if req.Temperature == 0 {
		req.Temperature = sel.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = sel.MaxTokens
	}

	start := time.Now()
	resp, err := provider.Chat(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		m.logger.Error("llm call failed",
			zap.String("provider", sel.Provider),
			zap.String("model", req.Model),
			zap.String("feature", feature),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return Response{}, fmt.Errorf("%s chat: %w", sel.Provider, err)
	}

	if resp.Usage.Cost == 0 {
		resp.Usage.Cost = EstimateCost(req.Model, resp.Usage)
	}

	m.logger.Info("llm usage",
		zap.String("provider", sel.Provider),
		zap.String("model", req.Model),
		zap.String("feature", feature),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Float64("cost", resp.Usage.Cost),
		zap.Duration("elapsed", elapsed),
	)

	row := &store.UsageRow{
		StoreID:          st.ID,
		Provider:         sel.Provider,
		Model:            req.Model,
		Feature:          feature,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Cost:             resp.Usage.Cost,
		DurationMS:       elapsed.Milliseconds(),
	}
	if err := m.store.InsertUsage(ctx, row); err != nil {
		m.logger.Warn("usage write failed", zap.Error(err))
	}

	return resp, nil
}
