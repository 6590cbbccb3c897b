package content

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/site-generator/internal/llm"
)

// Provider selects the primary source tried before the static catalog.
type Provider string

// Supported providers
const (
	ProviderEndpoint Provider = "endpoint"
	ProviderGemini   Provider = "gemini"
	ProviderStatic   Provider = "static"
)

// PrimaryOptions configures NewPrimarySource.
type PrimaryOptions struct {
	Provider         Provider
	Endpoint         string
	APIKey           string
	Timeout          time.Duration
	MaxRequestBytes  int
	MaxResponseBytes int
	LLMConfig        *llm.Config
	Cache            *Cache
	CacheTTL         time.Duration
	Logger           *zap.Logger
}

// NewPrimarySource builds the remote source for the configured provider,
// wrapped in a CachedSource when a cache is given. It returns a nil Source
// when the provider is static or no API key is set. The returned close
// function releases provider resources and is never nil.
func NewPrimarySource(ctx context.Context, opts PrimaryOptions) (Source, func() error, error) {
	noop := func() error { return nil }
	if opts.Provider == ProviderStatic || opts.APIKey == "" {
		return nil, noop, nil
	}

	var (
		source  Source
		closeFn = noop
	)
	switch opts.Provider {
	case ProviderEndpoint, "":
		remote, err := NewRemoteSource(RemoteOptions{
			Endpoint:         opts.Endpoint,
			APIKey:           opts.APIKey,
			Timeout:          opts.Timeout,
			MaxRequestBytes:  opts.MaxRequestBytes,
			MaxResponseBytes: opts.MaxResponseBytes,
		})
		if err != nil {
			return nil, noop, err
		}
		source = remote
	case ProviderGemini:
		cfg := opts.LLMConfig
		if cfg == nil {
			cfg = llm.DefaultConfig()
		}
		if opts.Timeout > 0 {
			next := *cfg
			next.Timeout = opts.Timeout
			cfg = &next
		}
		client, err := llm.NewClient(ctx, cfg, opts.APIKey)
		if err != nil {
			return nil, noop, err
		}
		source = NewLLMSource(client)
		closeFn = client.Close
	default:
		return nil, noop, fmt.Errorf("unknown content provider %q", opts.Provider)
	}

	if opts.Cache != nil {
		source = NewCachedSource(source, opts.Cache, opts.CacheTTL, opts.Logger)
	}
	return source, closeFn, nil
}
