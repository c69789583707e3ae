package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   ShopQuery
		wantErr bool
	}{
		{"both fields", ShopQuery{Name: "麺や太郎", Address: "東京都新宿区1-2-3"}, false},
		{"missing name", ShopQuery{Address: "東京都新宿区1-2-3"}, true},
		{"missing address", ShopQuery{Name: "麺や太郎"}, true},
		{"whitespace name", ShopQuery{Name: "   ", Address: "東京都新宿区1-2-3"}, true},
		{"both empty", ShopQuery{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRouteValid(t *testing.T) {
	for _, r := range Routes {
		assert.True(t, r.Valid(), "route %q should be valid", r)
	}

	assert.False(t, Route("").Valid())
	assert.False(t, Route("shop_indirect").Valid())
	assert.False(t, Route("SHOP_DIRECT").Valid())
}

func TestRouteSetIsClosedNineElements(t *testing.T) {
	assert.Len(t, Routes, 9)

	seen := map[Route]bool{}
	for _, r := range Routes {
		assert.False(t, seen[r], "duplicate route %q", r)
		seen[r] = true
	}
}
