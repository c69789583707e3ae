// Package sheets provides a thin client for the Google Sheets values
// API, used as the tabular record store for resolved identities.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4"

// Client performs spreadsheet write operations.
type Client interface {
	// UpdateRange writes rows of cell values at an A1-notation range,
	// e.g. "シート1!C5:H5".
	UpdateRange(ctx context.Context, spreadsheetID, a1Range string, values [][]string) error
	// FormatRows sets the background color of a row span on a sheet.
	FormatRows(ctx context.Context, spreadsheetID string, sheetID, startRow, endRow int, color RGB) error
}

// RGB is a fractional red/green/blue background color.
type RGB struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// Marker colors for the resolve-and-persist flow: the target row turns
// red while a resolution is in flight and white when it completes.
var (
	ColorInProgress = RGB{Red: 1, Green: 0.8, Blue: 0.8}
	ColorDone       = RGB{Red: 1, Green: 1, Blue: 1}
)

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
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
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a Sheets client authorized by an OAuth bearer
// token (the service caller supplies it per request).
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type valueRange struct {
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

func (c *httpClient) UpdateRange(ctx context.Context, spreadsheetID, a1Range string, values [][]string) error {
	body, err := json.Marshal(valueRange{
		Range:          a1Range,
		MajorDimension: "ROWS",
		Values:         values,
	})
	if err != nil {
		return eris.Wrap(err, "sheets: marshal values")
	}

	reqURL := fmt.Sprintf("%s/spreadsheets/%s/values/%s?valueInputOption=RAW",
		c.baseURL, url.PathEscape(spreadsheetID), url.PathEscape(a1Range))

	return c.do(ctx, http.MethodPut, reqURL, body, "update range")
}

// batchUpdateRequest carries a single repeatCell request setting the
// row background color.
type batchUpdateRequest struct {
	Requests []map[string]any `json:"requests"`
}

func (c *httpClient) FormatRows(ctx context.Context, spreadsheetID string, sheetID, startRow, endRow int, color RGB) error {
	body, err := json.Marshal(batchUpdateRequest{
		Requests: []map[string]any{
			{
				"repeatCell": map[string]any{
					"range": map[string]any{
						"sheetId":       sheetID,
						"startRowIndex": startRow,
						"endRowIndex":   endRow,
					},
					"cell": map[string]any{
						"userEnteredFormat": map[string]any{
							"backgroundColor": color,
						},
					},
					"fields": "userEnteredFormat.backgroundColor",
				},
			},
		},
	})
	if err != nil {
		return eris.Wrap(err, "sheets: marshal format request")
	}

	reqURL := fmt.Sprintf("%s/spreadsheets/%s:batchUpdate", c.baseURL, url.PathEscape(spreadsheetID))

	return c.do(ctx, http.MethodPost, reqURL, body, "format rows")
}

func (c *httpClient) do(ctx context.Context, method, reqURL string, body []byte, action string) error {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(body))
	if err != nil {
		return eris.Wrapf(err, "sheets: create %s request", action)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "sheets: %s", action)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return eris.Errorf("sheets: %s unexpected status %d: %s", action, resp.StatusCode, string(respBody))
	}
	return nil
}
