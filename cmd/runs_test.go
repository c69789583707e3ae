package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leadscope-jp/shop-resolver/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	created := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:     "run-1",
			Query:  model.ShopQuery{Name: "麺や太郎", Address: "東京都新宿区1-2-3"},
			Status: model.RunStatusComplete,
			Result: &model.ResolutionResult{
				Route:          model.RouteShopDirect,
				Representative: "山田太郎",
			},
			CreatedAt: created,
		},
		{
			ID:        "run-2",
			Query:     model.ShopQuery{Name: "カフェ山田", Address: "大阪府"},
			Status:    model.RunStatusFailed,
			CreatedAt: created,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "shop_direct")
	assert.Contains(t, out, "山田太郎")
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "2026-08-31T12:00:00Z")
}
