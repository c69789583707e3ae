// Package registry looks up corporate entities in the national
// corporate-number registry by the digits of an invoice registration
// number.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/model"
)

const defaultBaseURL = "https://www.houjin-bangou.nta.go.jp"

// maxRegistryBody caps the registry page read.
const maxRegistryBody = 1 << 20

// Client resolves a registration code against the registry.
type Client interface {
	// Lookup strips the code to its digits and fetches the registry
	// detail page. A fetched page whose entity-name field is missing
	// yields a partial record (name empty), not an error; a code with
	// no digits or a failed fetch yields an error and no record.
	Lookup(ctx context.Context, code string) (*model.RegistryRecord, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the registry base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a registry lookup client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// DigitsOnly strips every non-digit rune, preserving digit order:
// "T1234567890123" becomes "1234567890123".
func DigitsOnly(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (c *httpClient) Lookup(ctx context.Context, code string) (*model.RegistryRecord, error) {
	digits := DigitsOnly(code)
	if digits == "" {
		return nil, eris.Errorf("registry: code %q has no digits", code)
	}

	sourceURL := fmt.Sprintf("%s/henkorireki-johoto.html?selHouzinNo=%s", c.baseURL, digits)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "registry: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "registry: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("registry: status %d for number %s", resp.StatusCode, digits)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRegistryBody))
	if err != nil {
		return nil, eris.Wrap(err, "registry: read body")
	}

	record := &model.RegistryRecord{
		RegistrationNumber: digits,
		SourceURL:          sourceURL,
	}

	name, ok := extractEntityName(string(body))
	if !ok {
		// Page layout changed or number unknown: partial success.
		zap.L().Warn("registry: entity name field not found",
			zap.String("registration_number", digits),
		)
		return record, nil
	}
	record.CompanyName = name

	return record, nil
}
