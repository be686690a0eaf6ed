package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Source kinds accepted by Open.
const (
	KindEmbedded = "embedded"
	KindPostgres = "postgres"
)

// OpenOptions selects and decorates the catalog source.
type OpenOptions struct {
	Kind   string
	Repo   countryLister // required for KindPostgres
	Cache  Cache         // optional
	Logger zerolog.Logger
}

// Open loads the catalog from the configured source.
func Open(ctx context.Context, opts OpenOptions) (*Catalog, error) {
	var src Source
	switch opts.Kind {
	case "", KindEmbedded:
		src = NewEmbeddedSource()
	case KindPostgres:
		if opts.Repo == nil {
			return nil, fmt.Errorf("catalog source %q needs a country repository", opts.Kind)
		}
		src = NewStoreSource(opts.Repo)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", opts.Kind)
	}

	if opts.Cache != nil {
		src = NewCachedSource(src, opts.Cache, opts.Logger)
	}

	cat, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	opts.Logger.Info().Str("source", kindOrDefault(opts.Kind)).Int("countries", cat.Len()).Msg("catalog loaded")
	return cat, nil
}

func kindOrDefault(kind string) string {
	if kind == "" {
		return KindEmbedded
	}
	return kind
}
