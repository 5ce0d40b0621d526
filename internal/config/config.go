package config

import (
	"fmt"
	"time"

	coreconfig "github.com/go-core-fx/config"
)

// Config carries every setting the service reads. Values load from the
// environment (and .env) by koanf key; per-store AI overrides live in the
// stores table and are resolved per request, never read ambiently.
type Config struct {
	DBPath string `koanf:"db_path"`
	Addr   string `koanf:"addr"`

	// Default tenant for CLI sessions (DEFAULT_STORE_ID).
	DefaultStoreID int64 `koanf:"default_store_id"`

	// Platform-wide AI defaults; a store row may override provider,
	// model and temperature.
	AIProvider    string  `koanf:"ai_provider"`
	AIModel       string  `koanf:"ai_model"`
	AITemperature float64 `koanf:"ai_temperature"`
	AIMaxTokens   int     `koanf:"ai_max_tokens"`

	OpenRouterAPIKey  string `koanf:"openrouter_api_key"`
	OpenRouterBaseURL string `koanf:"openrouter_base_url"`
	OpenAIAPIKey      string `koanf:"openai_api_key"`
	OpenAIBaseURL     string `koanf:"openai_base_url"`
	AnthropicAPIKey   string `koanf:"anthropic_api_key"`
	AnthropicBaseURL  string `koanf:"anthropic_base_url"`

	// Spot-price quotes. Without an endpoint the static fallback prices
	// below are used (USD per troy ounce).
	MetalsBaseURL    string        `koanf:"metals_base_url"`
	MetalsAPIKey     string        `koanf:"metals_api_key"`
	MetalsCacheTTL   time.Duration `koanf:"metals_cache_ttl"`
	GoldSpotUSD      float64       `koanf:"gold_spot_usd"`
	SilverSpotUSD    float64       `koanf:"silver_spot_usd"`
	PlatinumSpotUSD  float64       `koanf:"platinum_spot_usd"`
	PalladiumSpotUSD float64       `koanf:"palladium_spot_usd"`

	Timeout time.Duration `koanf:"timeout"`
	LogFile string        `koanf:"log_file"`
	Debug   bool          `koanf:"debug"`
}

func New() (Config, error) {
	cfg := Config{
		DBPath:           "./shop-ai.db",
		Addr:             ":8080",
		AIProvider:       "openrouter",
		AIModel:          "openai/gpt-4o-mini",
		AITemperature:    0.2,
		AIMaxTokens:      1024,
		MetalsCacheTTL:   15 * time.Minute,
		GoldSpotUSD:      2400.0,
		SilverSpotUSD:    29.0,
		PlatinumSpotUSD:  980.0,
		PalladiumSpotUSD: 960.0,
		Timeout:          30 * time.Second,
		LogFile:          "./shop-ai.log",
		Debug:            false,
	}

	if err := coreconfig.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}
