// Package scraper talks to the bookstore: it issues search and detail page
// requests, resolves keywords to detail pages, and extracts book records.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aluiziolira/go-book-notes/config"
	"github.com/aluiziolira/go-book-notes/models"
	"github.com/aluiziolira/go-book-notes/parser"
	"github.com/gocolly/colly/v2"
)

// RequestKind names one of the three request shapes.
type RequestKind string

const (
	KindDomesticSearch RequestKind = "domestic_search"
	KindCatalogSearch  RequestKind = "catalog_search"
	KindDetailPage     RequestKind = "detail_page"
)

const searchPath = "/Product/Search"

const (
	ctxKind   = "kind"
	ctxStart  = "start"
	ctxBody   = "body"
	ctxStatus = "status"
)

// Stats is a snapshot of transport counters.
type Stats struct {
	RequestCount int
	ErrorCount   int
	ErrorsByType map[string]int
	FailedURLs   []string
}

// Client wraps a synchronous colly collector. Every request is a single
// attempt; failures are classified, counted, and returned to the caller.
type Client struct {
	cfg       *config.Config
	base      *url.URL
	collector *colly.Collector
	resolver  *Resolver
	Metrics   *Metrics

	requestCount int64
	errorCount   int64

	mu           sync.Mutex
	failedURLs   []string
	errorsByType map[string]int
}

// NewClient builds a client configured from cfg.
func NewClient(cfg *config.Config) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Hostname()),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	c := &Client{
		cfg:          cfg,
		base:         parsed,
		collector:    collector,
		errorsByType: make(map[string]int),
		Metrics:      NewMetrics(),
	}
	c.configureHandlers()

	resolver, err := NewResolver(c, cfg.CacheSize, c.Metrics)
	if err != nil {
		return nil, err
	}
	c.resolver = resolver
	return c, nil
}

// WithTransport swaps the HTTP transport used by the collector.
func (c *Client) WithTransport(rt http.RoundTripper) {
	c.collector.WithTransport(rt)
}

// Resolver returns the keyword resolver bound to this client.
func (c *Client) Resolver() *Resolver {
	return c.resolver
}

func (c *Client) configureHandlers() {
	c.collector.OnRequest(func(r *colly.Request) {
		r.Ctx.Put(ctxStart, time.Now())
		atomic.AddInt64(&c.requestCount, 1)
		c.Metrics.IncRequest(r.Ctx.Get(ctxKind))
		slog.Debug("request", slog.String("kind", r.Ctx.Get(ctxKind)), slog.String("url", r.URL.String()))
	})

	c.collector.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(ctxBody, r.Body)
		if start, ok := r.Ctx.GetAny(ctxStart).(time.Time); ok {
			c.Metrics.ObserveDuration(time.Since(start))
		}
	})

	c.collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.Ctx != nil {
			r.Ctx.Put(ctxStatus, r.StatusCode)
		}
	})
}

// Target builds the absolute URL for a request kind. Search keywords are
// query-escaped; detail refs are resolved against the base URL.
func (c *Client) Target(kind RequestKind, arg string) (string, error) {
	switch kind {
	case KindDomesticSearch, KindCatalogSearch:
		domain := "BOOK"
		if kind == KindCatalogSearch {
			domain = "ALL"
		}
		u := *c.base
		u.Path = searchPath
		u.RawQuery = url.Values{"domain": {domain}, "query": {arg}}.Encode()
		return u.String(), nil
	case KindDetailPage:
		ref, err := url.Parse(arg)
		if err != nil {
			return "", fmt.Errorf("parse detail ref %q: %w", arg, err)
		}
		return c.base.ResolveReference(ref).String(), nil
	default:
		return "", fmt.Errorf("unknown request kind %q", kind)
	}
}

// Fetch issues one GET of the given kind and returns the raw body. Any
// transport error or non-2xx status comes back classified; callers treat it
// as "no data".
func (c *Client) Fetch(ctx context.Context, kind RequestKind, arg string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := c.Target(kind, arg)
	if err != nil {
		return nil, err
	}

	reqCtx := colly.NewContext()
	reqCtx.Put(ctxKind, string(kind))

	if err := c.collector.Request(http.MethodGet, target, nil, reqCtx, nil); err != nil {
		status, _ := reqCtx.GetAny(ctxStatus).(int)
		return nil, c.recordError(target, classifyError(err, status))
	}

	body, _ := reqCtx.GetAny(ctxBody).([]byte)
	return body, nil
}

// Lookup resolves keyword to a detail page and extracts its record.
func (c *Client) Lookup(ctx context.Context, keyword string) (*models.BookRecord, error) {
	ref, ok := c.resolver.Resolve(ctx, keyword)
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotResolved
	}

	body, err := c.Fetch(ctx, KindDetailPage, string(ref))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Debug("detail page unavailable", slog.String("ref", string(ref)), slog.Any("error", err))
	}

	doc, err := parser.ParseHTML(body)
	if err != nil {
		return nil, err
	}
	rec, err := parser.Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", ref, err)
	}
	if target, err := c.Target(KindDetailPage, string(ref)); err == nil {
		rec.DetailURL = target
	}
	c.Metrics.IncRecords()
	return rec, nil
}

// Stats returns a snapshot of request and error counters.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	failed := make([]string, len(c.failedURLs))
	copy(failed, c.failedURLs)
	byType := make(map[string]int, len(c.errorsByType))
	for k, v := range c.errorsByType {
		byType[k] = v
	}
	return Stats{
		RequestCount: int(atomic.LoadInt64(&c.requestCount)),
		ErrorCount:   int(atomic.LoadInt64(&c.errorCount)),
		ErrorsByType: byType,
		FailedURLs:   failed,
	}
}

func (c *Client) recordError(target string, err error) error {
	atomic.AddInt64(&c.errorCount, 1)
	category := errorTypeLabel(err)

	c.mu.Lock()
	c.errorsByType[category]++
	c.failedURLs = append(c.failedURLs, target)
	c.mu.Unlock()

	c.Metrics.IncError(category)
	slog.Warn("request failed",
		slog.String("url", target),
		slog.String("category", category),
		slog.Any("error", err),
	)
	return err
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}

	if statusCode != 0 {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", statusCode)
		}
		switch statusCode {
		case http.StatusForbidden:
			return ErrForbidden{Err: wrapped}
		case http.StatusNotFound:
			return ErrNotFound{Err: wrapped}
		case http.StatusTooManyRequests:
			return ErrRateLimited{Err: wrapped}
		}
		if statusCode >= http.StatusMultipleChoices || statusCode < http.StatusOK {
			return ErrHTTPStatus{Status: statusCode, Err: wrapped}
		}
	}

	if err == nil {
		return nil
	}
	return err
}
