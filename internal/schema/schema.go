// Package schema defines the extraction contracts between the pipeline
// and the text-understanding oracle: the instruction text for each
// task, the JSON shape the oracle must return, and strict parsers that
// reduce anything malformed to "no evidence".
//
// Sentinel vocabulary is normalized here, once, at the parse boundary.
// Downstream code works with typed outcomes, never raw sentinel
// strings.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leadscope-jp/shop-resolver/internal/model"
)

// stripCodeFence removes a Markdown code fence the oracle sometimes
// wraps around its JSON output (```json ... ```).
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// decodeStrict unmarshals oracle output into v after fence stripping.
// Any decode failure means the contract was violated; callers treat
// that as absent evidence, not as a fault.
func decodeStrict(raw string, v any) error {
	return json.Unmarshal([]byte(stripCodeFence(raw)), v)
}

// singleResult is the shared response shape of the single-blob
// contracts: {"result": "..."}.
type singleResult struct {
	Result string `json:"result"`
}

// FormatEvidence renders fetched pages as the numbered evidence blob
// the single-blob contracts consume:
//
//	[1] URL: https://...
//	<page text>
//
//	[2] URL: ...
func FormatEvidence(pages []model.PageDocument) string {
	blocks := make([]string, 0, len(pages))
	for i, p := range pages {
		blocks = append(blocks, fmt.Sprintf("[%d] URL: %s\n%s", i+1, p.URL, p.Text))
	}
	return strings.Join(blocks, "\n\n")
}
