package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func TestFetchCleansHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>店舗案内</title><style>p{color:red}</style></head>
<body><script>var x=1;</script><h1>麺や太郎</h1><p>店主 田中一郎</p></body></html>`))
	}))
	defer ts.Close()

	c := NewClient()
	doc, err := c.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, ts.URL, doc.URL)
	assert.Contains(t, doc.Text, "麺や太郎")
	assert.Contains(t, doc.Text, "店主 田中一郎")
	assert.NotContains(t, doc.Text, "var x=1")
	assert.NotContains(t, doc.Text, "color:red")
	assert.NotContains(t, doc.Text, "<h1>")
}

func TestFetchDecodesShiftJIS(t *testing.T) {
	sjis, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte("<html><body>株式会社タロウフーズ</body></html>"))
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=Shift_JIS")
		w.Write(sjis)
	}))
	defer ts.Close()

	c := NewClient()
	doc, err := c.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "株式会社タロウフーズ")
}

func TestFetchSniffsMetaCharset(t *testing.T) {
	sjis, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(),
		[]byte(`<html><head><meta charset="shift_jis"></head><body>有限会社めん</body></html>`))
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write(sjis)
	}))
	defer ts.Close()

	c := NewClient()
	doc, err := c.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "有限会社めん")
}

func TestFetchBoundsTextLength(t *testing.T) {
	long := strings.Repeat("あ", 500)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>" + long + "</body></html>"))
	}))
	defer ts.Close()

	c := NewClient(WithMaxTextRunes(100))
	doc, err := c.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, []rune(doc.Text), 100)
}

func TestFetchNonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient()
	_, err := c.Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchAllDropsFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	c := NewClient()
	pages := c.FetchAll(context.Background(), []string{bad.URL, good.URL, "://not-a-url"})

	require.Len(t, pages, 1)
	assert.Equal(t, good.URL, pages[0].URL)
	assert.Equal(t, "ok", pages[0].Text)
}

func TestDecodeCharsetDefaultsKeepUTF8(t *testing.T) {
	out, err := decodeCharset([]byte("こんにちは"), "text/html")
	require.NoError(t, err)
	assert.Equal(t, "こんにちは", out)
}

func TestHTMLToTextNestedMarkup(t *testing.T) {
	text := htmlToText(`<div><ul><li>営業時間 11:00</li><li>定休日 <b>月曜</b></li></ul></div>`)
	assert.Contains(t, text, "営業時間 11:00")
	assert.Contains(t, text, "定休日")
	assert.Contains(t, text, "月曜")
}
