package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope-jp/shop-resolver/internal/model"
	"github.com/leadscope-jp/shop-resolver/pkg/sheets"
)

type fakeSheets struct {
	updates []struct {
		rng    string
		values [][]string
	}
	formats []sheets.RGB
	failUpdate bool
}

func (f *fakeSheets) UpdateRange(_ context.Context, _ string, rng string, values [][]string) error {
	f.updates = append(f.updates, struct {
		rng    string
		values [][]string
	}{rng, values})
	if f.failUpdate {
		return assert.AnError
	}
	return nil
}

func (f *fakeSheets) FormatRows(_ context.Context, _ string, _, _, _ int, color sheets.RGB) error {
	f.formats = append(f.formats, color)
	return nil
}

func newTestServer(resolve resolveFunc, sc sheets.Client) *server {
	return &server{
		resolve: resolve,
		newSheets: func(string) sheets.Client {
			return sc
		},
		spreadsheetID: "default-spreadsheet",
	}
}

func stubResult(route model.Route) *model.ResolutionResult {
	return &model.ResolutionResult{
		ShopName:       "麺や太郎",
		ShopAddress:    "東京都新宿区1-2-3",
		CompanyName:    "株式会社タロウフーズ",
		Representative: "山田太郎",
		Route:          route,
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestResolveEndpoint(t *testing.T) {
	var gotQuery model.ShopQuery
	var gotKey, gotModel string
	srv := newTestServer(func(_ context.Context, query model.ShopQuery, apiKey, oracleModel string) (*model.ResolutionResult, error) {
		gotQuery = query
		gotKey = apiKey
		gotModel = oracleModel
		return stubResult(model.RouteShopDirect), nil
	}, nil)

	rec := postJSON(t, srv.router(), "/api/resolve", map[string]string{
		"shop_name":    "麺や太郎",
		"shop_address": "東京都新宿区1-2-3",
		"api_key":      "sk-test",
		"model":        "openai/gpt-oss-20b:free",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "麺や太郎", gotQuery.Name)
	assert.Equal(t, "sk-test", gotKey)
	assert.Equal(t, "openai/gpt-oss-20b:free", gotModel)

	var result model.ResolutionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, model.RouteShopDirect, result.Route)
	assert.Equal(t, "山田太郎", result.Representative)
}

func TestResolveEndpointMissingFields(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := postJSON(t, srv.router(), "/api/resolve", map[string]string{
		"shop_name": "麺や太郎",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveEndpointBadBody(t *testing.T) {
	srv := newTestServer(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/resolve", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveEndpointPipelineError(t *testing.T) {
	srv := newTestServer(func(context.Context, model.ShopQuery, string, string) (*model.ResolutionResult, error) {
		return nil, assert.AnError
	}, nil)

	rec := postJSON(t, srv.router(), "/api/resolve", map[string]string{
		"shop_name":    "麺や太郎",
		"shop_address": "東京都新宿区1-2-3",
		"api_key":      "sk-test",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSheetEndpoint(t *testing.T) {
	fake := &fakeSheets{}
	srv := newTestServer(func(context.Context, model.ShopQuery, string, string) (*model.ResolutionResult, error) {
		// Resolution with gaps: title, invoice, and source are unknown.
		return &model.ResolutionResult{
			ShopName:       "麺や太郎",
			ShopAddress:    "東京都新宿区1-2-3",
			CompanyName:    "株式会社タロウフーズ",
			Representative: "山田太郎",
			Route:          model.RouteCorpRepresentative,
		}, nil
	}, fake)

	rec := postJSON(t, srv.router(), "/api/sheet", map[string]any{
		"shop_name":    "麺や太郎",
		"shop_address": "東京都新宿区1-2-3",
		"api_key":      "sk-test",
		"row":          5,
		"token":        "ya29.token",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	// Row marked red before, white after.
	require.Len(t, fake.formats, 2)
	assert.Equal(t, sheets.ColorInProgress, fake.formats[0])
	assert.Equal(t, sheets.ColorDone, fake.formats[1])

	require.Len(t, fake.updates, 1)
	assert.Equal(t, "C5:H5", fake.updates[0].rng)
	require.Len(t, fake.updates[0].values, 1)
	assert.Equal(t, []string{
		"株式会社タロウフーズ",
		"山田太郎",
		"不明",
		"不明",
		"corp_representative",
		"不明",
	}, fake.updates[0].values[0])

	var resp struct {
		Result     model.ResolutionResult `json:"result"`
		SheetWrite map[string]any         `json:"sheet_write"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.RouteCorpRepresentative, resp.Result.Route)
	assert.Equal(t, "success", resp.SheetWrite["status"])
}

func TestSheetEndpointWriteFailureReported(t *testing.T) {
	fake := &fakeSheets{failUpdate: true}
	srv := newTestServer(func(context.Context, model.ShopQuery, string, string) (*model.ResolutionResult, error) {
		return stubResult(model.RouteNoInfo), nil
	}, fake)

	rec := postJSON(t, srv.router(), "/api/sheet", map[string]any{
		"shop_name":    "麺や太郎",
		"shop_address": "東京都新宿区1-2-3",
		"api_key":      "sk-test",
		"row":          2,
		"token":        "ya29.token",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		SheetWrite map[string]any `json:"sheet_write"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.SheetWrite["status"])
	// Row is still restored to white.
	require.Len(t, fake.formats, 2)
	assert.Equal(t, sheets.ColorDone, fake.formats[1])
}

func TestSheetEndpointValidation(t *testing.T) {
	srv := newTestServer(nil, nil)

	tests := []map[string]any{
		{"shop_address": "東京都", "api_key": "k", "row": 1, "token": "t"},      // no name
		{"shop_name": "店", "shop_address": "東京都", "api_key": "k", "token": "t"}, // no row
		{"shop_name": "店", "shop_address": "東京都", "api_key": "k", "row": 1},     // no token
	}
	for _, body := range tests {
		rec := postJSON(t, srv.router(), "/api/sheet", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}
