// Package roster reads shop rosters from XLSX workbooks for batch
// resolution. Expected layout: shop name in the first column, address
// in the second.
package roster

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/model"
)

// Options configures the roster parser.
type Options struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	SkipRows   int    // number of header rows to skip
}

// ReadShops reads an XLSX roster and returns one ShopQuery per usable
// row. Rows missing a name or address are logged and skipped; they
// never abort the batch.
func ReadShops(path string, opts Options) ([]model.ShopQuery, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "roster: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var shops []model.ShopQuery
	for i, row := range sheet.Rows {
		if i < opts.SkipRows {
			continue
		}

		cells := rowToStrings(row)
		query := model.ShopQuery{
			Name:    cellAt(cells, 0),
			Address: cellAt(cells, 1),
		}
		if isBlankRow(cells) {
			continue
		}
		if err := query.Validate(); err != nil {
			zap.L().Warn("roster: skipping unusable row",
				zap.Int("row", i+1), zap.Error(err))
			continue
		}
		shops = append(shops, query)
	}

	return shops, nil
}

func getSheet(f *xlsx.File, opts Options) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("roster: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("roster: sheet index %d out of range (%d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = strings.TrimSpace(cell.String())
	}
	return cells
}

func cellAt(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return cells[i]
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
