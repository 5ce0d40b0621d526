package metals

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/settatam/shop-sub011/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	ErrUnknownMetal = errors.New("unknown metal")
	ErrUnknownUnit  = errors.New("unknown weight unit")
	ErrUnauthorized = errors.New("metals api unauthorized")
	ErrRateLimited  = errors.New("metals api rate limited")
)

type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("metals api error: %s", e.Status)
	}
	return fmt.Sprintf("metals api error: %s: %s", e.Status, e.Body)
}

// Quote is one spot price, normalized to USD per gram. Source is "live" when
// it came from the quote endpoint and "static" when it came from config.
type Quote struct {
	Metal           string    `json:"metal"`
	USDPerTroyOunce float64   `json:"usd_per_troy_ounce"`
	USDPerGram      float64   `json:"usd_per_gram"`
	Source          string    `json:"source"`
	AsOf            time.Time `json:"as_of"`
}

type spotResponse struct {
	Metal    string  `json:"metal"`
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
}

// Service serves spot prices for gold, silver, platinum and palladium. Live
// quotes are cached for the configured TTL; without an endpoint (or when a
// fetch fails) the static per-troy-ounce prices from config are used.
type Service struct {
	http   *resty.Client
	live   bool
	ttl    time.Duration
	static map[string]float64
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]Quote
}

func NewService(cfg config.Config, logger *zap.Logger) *Service {
	httpClient := resty.New().
		SetBaseURL(cfg.MetalsBaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(1).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && resp.StatusCode() == http.StatusTooManyRequests
		})

	if cfg.MetalsAPIKey != "" {
		httpClient.SetAuthScheme("Bearer")
		httpClient.SetAuthToken(cfg.MetalsAPIKey)
	}

	ttl := cfg.MetalsCacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &Service{
		http: httpClient,
		live: strings.TrimSpace(cfg.MetalsBaseURL) != "",
		ttl:  ttl,
		static: map[string]float64{
			"gold":      cfg.GoldSpotUSD,
			"silver":    cfg.SilverSpotUSD,
			"platinum":  cfg.PlatinumSpotUSD,
			"palladium": cfg.PalladiumSpotUSD,
		},
		logger: logger.Named("metals"),
		now:    time.Now,
		cache:  map[string]Quote{},
	}
}

// Spot returns the current quote for gold, silver, platinum or palladium.
func (s *Service) Spot(ctx context.Context, metal string) (Quote, error) {
	metal = strings.ToLower(strings.TrimSpace(metal))
	if _, ok := s.static[metal]; !ok {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnknownMetal, metal)
	}

	s.mu.Lock()
	cached, ok := s.cache[metal]
	s.mu.Unlock()
	if ok && s.now().Sub(cached.AsOf) < s.ttl {
		return cached, nil
	}

	quote := s.fetch(ctx, metal)

	s.mu.Lock()
	s.cache[metal] = quote
	s.mu.Unlock()

	return quote, nil
}

// SpotForMetalType resolves a product metal_type to its base metal's quote
// plus the fine-metal fraction.
func (s *Service) SpotForMetalType(ctx context.Context, metalType string) (Quote, float64, error) {
	base, ok := BaseMetal(metalType)
	if !ok {
		return Quote{}, 0, fmt.Errorf("%w: %s", ErrUnknownMetal, metalType)
	}
	purity, _ := PurityRatio(metalType)
	quote, err := s.Spot(ctx, base)
	if err != nil {
		return Quote{}, 0, err
	}
	return quote, purity, nil
}

// MeltValue prices the fine-metal content of an item: grams × purity ×
// USD/gram.
func (s *Service) MeltValue(ctx context.Context, metalType string, grams float64) (float64, Quote, error) {
	quote, purity, err := s.SpotForMetalType(ctx, metalType)
	if err != nil {
		return 0, Quote{}, err
	}
	return grams * purity * quote.USDPerGram, quote, nil
}

func (s *Service) fetch(ctx context.Context, metal string) Quote {
	if !s.live {
		return s.staticQuote(metal)
	}

	var resp spotResponse
	req := s.http.R().
		SetContext(ctx).
		SetResult(&resp).
		SetQueryParam("currency", "USD")

	httpResp, err := req.Get("/v1/spot/" + metal)
	if err != nil {
		s.logger.Warn("spot fetch failed, using static price", zap.String("metal", metal), zap.Error(err))
		return s.staticQuote(metal)
	}
	if httpResp.IsError() {
		s.logger.Warn("spot fetch failed, using static price",
			zap.String("metal", metal), zap.Error(apiErrorFromResponse(httpResp)))
		return s.staticQuote(metal)
	}
	if resp.Price <= 0 {
		s.logger.Warn("spot fetch returned no price, using static price", zap.String("metal", metal))
		return s.staticQuote(metal)
	}

	return Quote{
		Metal:           metal,
		USDPerTroyOunce: resp.Price,
		USDPerGram:      resp.Price / GramsPerTroyOunce,
		Source:          "live",
		AsOf:            s.now(),
	}
}

func (s *Service) staticQuote(metal string) Quote {
	perOunce := s.static[metal]
	return Quote{
		Metal:           metal,
		USDPerTroyOunce: perOunce,
		USDPerGram:      perOunce / GramsPerTroyOunce,
		Source:          "static",
		AsOf:            s.now(),
	}
}

func apiErrorFromResponse(resp *resty.Response) error {
	body := strings.TrimSpace(resp.String())
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       body,
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Error())
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Error())
	default:
		return apiErr
	}
}
