package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchReturnsLinks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "麺や太郎 東京都新宿区1-2-3 代表 オーナー 店主", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("top_n"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"links":["https://a.example","https://b.example"]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	links, err := c.Search(context.Background(), "麺や太郎 東京都新宿区1-2-3 代表 オーナー 店主", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, links)
}

func TestSearchTruncatesToTopN(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"links":["u1","u2","u3","u4","u5"]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	links, err := c.Search(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Len(t, links, 3)
}

func TestSearchRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"links":["https://a.example"]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	links, err := c.Search(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example"}, links)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearchNonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	_, err := c.Search(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSearchMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	_, err := c.Search(context.Background(), "q", 3)
	require.Error(t, err)
}

func TestSearchRateLimiterHonorsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"links":[]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, WithRateLimit(0.001))

	// First call consumes the single burst token.
	_, err := c.Search(context.Background(), "q", 3)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Search(ctx, "q", 3)
	require.Error(t, err)
}
