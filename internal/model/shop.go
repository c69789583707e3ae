// Package model defines the run-scoped entities of the resolution
// pipeline. Every value here is created, consumed, and discarded within
// a single pipeline run; nothing is shared across concurrent runs.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ShopQuery is the immutable input to a resolution run: the business
// listing's trade name and street address as they appear in the source
// roster.
type ShopQuery struct {
	Name    string `json:"shop_name"`
	Address string `json:"shop_address"`
}

// Validate rejects queries missing either field. Validation failure is
// a boundary error: the pipeline never starts.
func (q ShopQuery) Validate() error {
	if strings.TrimSpace(q.Name) == "" {
		return eris.New("model: shop name is required")
	}
	if strings.TrimSpace(q.Address) == "" {
		return eris.New("model: shop address is required")
	}
	return nil
}

// PageDocument is one cleaned web page used as evidence within a single
// stage. Text is already stripped of markup and bounded in length by
// the fetcher.
type PageDocument struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}
