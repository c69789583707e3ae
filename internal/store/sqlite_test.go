package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope-jp/shop-resolver/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_CreateAndGetRun(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.ShopQuery{Name: "カフェ山田", Address: "東京都渋谷区1-2-3"})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "カフェ山田", got.Query.Name)
	assert.Equal(t, "東京都渋谷区1-2-3", got.Query.Address)
	assert.Nil(t, got.Result)
}

func TestSQLiteStore_CompleteRun(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.ShopQuery{Name: "ラーメン鈴木", Address: "大阪府大阪市中央区4-5-6"})
	require.NoError(t, err)

	result := &model.ResolutionResult{
		ShopName:       "ラーメン鈴木",
		ShopAddress:    "大阪府大阪市中央区4-5-6",
		CompanyName:    "株式会社スズキフーズ",
		Representative: "鈴木一郎",
		InvoiceNumber:  "T1234567890123",
		Route:          model.RouteInvoiceOfficial,
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, result))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "株式会社スズキフーズ", got.Result.CompanyName)
	assert.Equal(t, "T1234567890123", got.Result.InvoiceNumber)
	assert.Equal(t, model.RouteInvoiceOfficial, got.Result.Route)
}

func TestSQLiteStore_CompleteRun_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	err := s.CompleteRun(context.Background(), "no-such-run", &model.ResolutionResult{Route: model.RouteNoInfo})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_FailRun(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.ShopQuery{Name: "店", Address: "住所"})
	require.NoError(t, err)

	require.NoError(t, s.FailRun(ctx, run.ID, errors.New("search backend unreachable")))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "search backend unreachable", got.Error)
}

func TestSQLiteStore_GetRun_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, model.ShopQuery{Name: "店1", Address: "住所1"})
	require.NoError(t, err)
	second, err := s.CreateRun(ctx, model.ShopQuery{Name: "店2", Address: "住所2"})
	require.NoError(t, err)
	third, err := s.CreateRun(ctx, model.ShopQuery{Name: "店3", Address: "住所3"})
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(ctx, first.ID, &model.ResolutionResult{Route: model.RouteShopDirect}))
	require.NoError(t, s.CompleteRun(ctx, second.ID, &model.ResolutionResult{Route: model.RouteNoInfo}))
	require.NoError(t, s.FailRun(ctx, third.ID, errors.New("boom")))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	completed, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	direct, err := s.ListRuns(ctx, RunFilter{Route: model.RouteShopDirect})
	require.NoError(t, err)
	require.Len(t, direct, 1)
	assert.Equal(t, first.ID, direct[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
