package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aluiziolira/go-book-notes/models"
	"github.com/aluiziolira/go-book-notes/parser"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Fetcher issues a single request of the given kind.
type Fetcher interface {
	Fetch(ctx context.Context, kind RequestKind, arg string) ([]byte, error)
}

// Resolver turns a free-text keyword into one detail page reference. The
// domestic books search always wins; the catalog-wide search is consulted
// only when the domestic tier yields no link.
type Resolver struct {
	fetcher Fetcher
	cache   *lru.Cache[string, models.DetailPageRef]
	metrics *Metrics
}

// NewResolver builds a resolver that remembers up to cacheSize hits.
func NewResolver(fetcher Fetcher, cacheSize int, metrics *Metrics) (*Resolver, error) {
	cache, err := lru.New[string, models.DetailPageRef](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create resolver cache: %w", err)
	}
	return &Resolver{
		fetcher: fetcher,
		cache:   cache,
		metrics: metrics,
	}, nil
}

// Resolve returns the detail page reference for keyword, or false when
// neither tier has a result.
func (r *Resolver) Resolve(ctx context.Context, keyword string) (models.DetailPageRef, bool) {
	if ref, ok := r.cache.Get(keyword); ok {
		r.metrics.IncResolution("cache")
		return ref, true
	}

	for _, tier := range []RequestKind{KindDomesticSearch, KindCatalogSearch} {
		if ctx.Err() != nil {
			return "", false
		}
		if ref, ok := r.firstResult(ctx, tier, keyword); ok {
			r.cache.Add(keyword, ref)
			r.metrics.IncResolution(strings.TrimSuffix(string(tier), "_search"))
			return ref, true
		}
	}

	r.metrics.IncResolution("miss")
	return "", false
}

// firstResult runs one search tier. A failed request is parsed as an empty
// page, so it reads the same as a search with no results.
func (r *Resolver) firstResult(ctx context.Context, tier RequestKind, keyword string) (models.DetailPageRef, bool) {
	body, err := r.fetcher.Fetch(ctx, tier, keyword)
	if err != nil {
		slog.Debug("search failed", slog.String("tier", string(tier)), slog.String("keyword", keyword), slog.Any("error", err))
		body = nil
	}

	doc, err := parser.ParseHTML(body)
	if err != nil {
		slog.Debug("search page unreadable", slog.String("tier", string(tier)), slog.Any("error", err))
		return "", false
	}
	return parser.SearchResultHref(doc)
}
