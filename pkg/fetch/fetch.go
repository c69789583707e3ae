// Package fetch retrieves web pages and reduces them to bounded plain
// text suitable as oracle evidence. Fetch failures are non-fatal to
// callers: FetchAll drops the failing URL and keeps going.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/model"
)

// browserUA is sent on page fetches; many shop sites refuse the Go
// default user agent outright.
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/124.0.0.0 Safari/537.36"

// maxBodyBytes caps how much of a response body is read before text
// extraction.
const maxBodyBytes = 1 << 20

// defaultMaxTextRunes bounds the cleaned text length per page.
const defaultMaxTextRunes = 15000

// Client fetches pages as cleaned, bounded plain text.
type Client interface {
	// Fetch retrieves one URL and returns it as a PageDocument.
	Fetch(ctx context.Context, pageURL string) (*model.PageDocument, error)
	// FetchAll retrieves urls sequentially, dropping failures.
	FetchAll(ctx context.Context, urls []string) []model.PageDocument
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithMaxTextRunes overrides the per-page text bound.
func WithMaxTextRunes(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.maxTextRunes = n
		}
	}
}

type httpClient struct {
	http         *http.Client
	maxTextRunes int
}

// NewClient creates a page fetcher.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxTextRunes: defaultMaxTextRunes,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Fetch(ctx context.Context, pageURL string) (*model.PageDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: get")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("fetch: status %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "fetch: read body")
	}

	utf8Body, err := decodeCharset(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, eris.Wrap(err, "fetch: decode charset")
	}

	text := truncateRunes(htmlToText(utf8Body), c.maxTextRunes)

	return &model.PageDocument{URL: pageURL, Text: text}, nil
}

func (c *httpClient) FetchAll(ctx context.Context, urls []string) []model.PageDocument {
	var pages []model.PageDocument
	for _, u := range urls {
		select {
		case <-ctx.Done():
			return pages
		default:
		}

		doc, err := c.Fetch(ctx, u)
		if err != nil {
			zap.L().Warn("fetch: page dropped", zap.String("url", u), zap.Error(err))
			continue
		}
		pages = append(pages, *doc)
	}
	return pages
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
