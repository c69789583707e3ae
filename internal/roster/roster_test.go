package roster

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeRoster(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)

	for _, cells := range rows {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}

	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadShops(t *testing.T) {
	path := writeRoster(t, "Sheet1", [][]string{
		{"店名", "住所"},
		{"麺や太郎", "東京都新宿区1-2-3"},
		{"カフェ山田", "大阪府大阪市中央区4-5-6"},
	})

	shops, err := ReadShops(path, Options{SkipRows: 1})
	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, "麺や太郎", shops[0].Name)
	assert.Equal(t, "東京都新宿区1-2-3", shops[0].Address)
	assert.Equal(t, "カフェ山田", shops[1].Name)
}

func TestReadShopsSkipsUnusableRows(t *testing.T) {
	path := writeRoster(t, "Sheet1", [][]string{
		{"麺や太郎", "東京都新宿区1-2-3"},
		{"住所なし"},
		{"", ""},
		{"カフェ山田", "大阪府大阪市中央区4-5-6"},
	})

	shops, err := ReadShops(path, Options{})
	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, "麺や太郎", shops[0].Name)
	assert.Equal(t, "カフェ山田", shops[1].Name)
}

func TestReadShopsBySheetName(t *testing.T) {
	path := writeRoster(t, "店舗一覧", [][]string{
		{"麺や太郎", "東京都新宿区1-2-3"},
	})

	shops, err := ReadShops(path, Options{SheetName: "店舗一覧"})
	require.NoError(t, err)
	assert.Len(t, shops, 1)

	_, err = ReadShops(path, Options{SheetName: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadShopsMissingFile(t *testing.T) {
	_, err := ReadShops(filepath.Join(t.TempDir(), "nope.xlsx"), Options{})
	require.Error(t, err)
}
