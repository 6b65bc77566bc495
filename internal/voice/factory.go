package voice

import (
	"context"
	"fmt"

	"github.com/daikw/meetbot/internal/config"
)

// Factory creates TTS providers from application configuration.
type Factory struct {
	cfg *config.Config
}

// NewFactory creates a new provider factory
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{cfg: cfg}
}

// CreateProvider creates a provider instance by name
func (f *Factory) CreateProvider(ctx context.Context, providerName string) (Provider, error) {
	switch providerName {
	case "cartesia":
		if f.cfg.CartesiaAPIKey == "" {
			return nil, fmt.Errorf("cartesia API key not found in CARTESIA_API_KEY environment variable")
		}
		return NewCartesiaProvider(f.cfg.CartesiaAPIKey), nil
	case "polly":
		return NewPollyProvider(f.cfg.AWSRegion)
	case "gcp":
		var opts []GCPProviderOption
		if f.cfg.GCPProjectID != "" {
			opts = append(opts, WithGCPProjectID(f.cfg.GCPProjectID))
		}
		return NewGCPProvider(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
}

// ListProviders returns available provider names
func (f *Factory) ListProviders() []string {
	return []string{"cartesia", "polly", "gcp"}
}
