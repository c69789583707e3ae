package fetch

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var charsetPattern = regexp.MustCompile(`(?i)charset=["']?([a-zA-Z0-9_\-]+)`)

// decodeCharset converts a page body to UTF-8. The charset comes from
// the Content-Type header, a meta tag in the first kilobytes, or a
// UTF-8 validity check; Japanese shop sites still commonly serve
// Shift_JIS or EUC-JP.
func decodeCharset(body []byte, contentType string) (string, error) {
	name := ""
	if m := charsetPattern.FindStringSubmatch(contentType); m != nil {
		name = m[1]
	}
	if name == "" {
		head := body
		if len(head) > 4096 {
			head = head[:4096]
		}
		if m := charsetPattern.FindSubmatch(head); m != nil {
			name = string(m[1])
		}
	}

	var dec *encoding.Decoder
	switch strings.ToLower(name) {
	case "shift_jis", "shift-jis", "sjis", "windows-31j", "cp932", "x-sjis":
		dec = japanese.ShiftJIS.NewDecoder()
	case "euc-jp", "eucjp", "x-euc-jp":
		dec = japanese.EUCJP.NewDecoder()
	case "iso-2022-jp":
		dec = japanese.ISO2022JP.NewDecoder()
	case "utf-8", "utf8", "us-ascii":
		return string(body), nil
	default:
		// No declared charset: keep UTF-8 as-is, otherwise guess
		// Shift_JIS, the dominant legacy encoding for these pages.
		if utf8.Valid(body) {
			return string(body), nil
		}
		dec = japanese.ShiftJIS.NewDecoder()
	}

	out, _, err := transform.Bytes(dec, body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// skipElements are subtrees that contribute no evidence text.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"head":     true,
}

// htmlToText strips markup and returns newline-separated text. Parse
// errors degrade to the raw input with tags dropped rather than
// failing the page.
func htmlToText(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return collapseWhitespace(stripTags(src))
	}

	var b bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				b.WriteString(t)
				b.WriteByte('\n')
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String())
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, " ")
}

var blankLinePattern = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(blankLinePattern.ReplaceAllString(s, " "))
}
