package cli

import (
	"time"

	"github.com/settatam/shop-sub011/internal/config"
)

// Options carries command-line overrides. Zero values mean "not set" so
// Apply can tell an explicit flag from an untouched setting.
type Options struct {
	Query    string
	StoreID  int64
	DBPath   string
	JSON     bool
	Debug    bool
	LogFile  string
	Timeout  time.Duration
	Serve    bool
	Addr     string
	SeedDemo bool
	Provider string
	Model    string
	APIKey   string
}

// Apply overlays the non-zero options onto cfg. The -api-key flag targets
// whichever provider is active after the -provider override is applied.
func (o Options) Apply(cfg config.Config) config.Config {
	if o.StoreID > 0 {
		cfg.DefaultStoreID = o.StoreID
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.Addr != "" {
		cfg.Addr = o.Addr
	}
	if o.Provider != "" {
		cfg.AIProvider = o.Provider
	}
	if o.Model != "" {
		cfg.AIModel = o.Model
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	if o.LogFile != "" {
		cfg.LogFile = o.LogFile
	}
	if o.Debug {
		cfg.Debug = true
	}
	if o.APIKey != "" {
		switch cfg.AIProvider {
		case "openai":
			cfg.OpenAIAPIKey = o.APIKey
		case "anthropic":
			cfg.AnthropicAPIKey = o.APIKey
		default:
			cfg.OpenRouterAPIKey = o.APIKey
		}
	}
	return cfg
}
