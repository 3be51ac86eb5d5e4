package bank

import (
	"time"

	"quiz-drill/internal/config"
)

// SourcesFromConfig converts configured sources, keeping their order.
// An unknown format name falls back to detection by extension.
func SourcesFromConfig(cfg config.BankConfig) []Source {
	sources := make([]Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		format, err := ParseFormat(sc.Format)
		if err != nil {
			format = FormatAuto
		}
		sources = append(sources, Source{
			Location: sc.Location,
			Format:   format,
			Encoding: sc.Encoding,
		})
	}
	return sources
}

// NewProviderFromConfig wires a Loader with the configured fetch timeout and
// retries. A shared load may spend the full fetch budget on every source.
func NewProviderFromConfig(cfg config.BankConfig) *Provider {
	loader := NewLoader(WithHTTPFetcher(NewHTTPFetcher(cfg.FetchTimeout, WithRetries(cfg.FetchRetries))))
	p := NewProvider(loader, SourcesFromConfig(cfg)...)
	p.loadTimeout = loadBudget(cfg)
	return p
}

func loadBudget(cfg config.BankConfig) time.Duration {
	if cfg.FetchTimeout <= 0 || len(cfg.Sources) == 0 {
		return 0
	}
	attempts := max(cfg.FetchRetries, 0) + 1
	return cfg.FetchTimeout * time.Duration(attempts*len(cfg.Sources))
}
