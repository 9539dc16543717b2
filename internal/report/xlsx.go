package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter writes a Report as a spreadsheet with one sheet per table:
// Snapshot, Flipping, RawSpread, and Historical. An empty table still gets
// its header row.
type XLSXExporter struct{}

// NewXLSXExporter creates an XLSXExporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Export writes the spreadsheet under dir and returns the full file path.
func (e *XLSXExporter) Export(r *Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: create export dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes Snapshot; the rest are appended.
	if err := f.SetSheetName("Sheet1", "Snapshot"); err != nil {
		return "", fmt.Errorf("report: rename sheet: %w", err)
	}
	for _, name := range []string{"Flipping", "RawSpread", "Historical"} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("report: create sheet %s: %w", name, err)
		}
	}

	if err := e.writeSnapshot(f, r); err != nil {
		return "", err
	}
	if err := e.writeFlipping(f, r); err != nil {
		return "", err
	}
	if err := e.writeRawSpread(f, r); err != nil {
		return "", err
	}
	if err := e.writeHistorical(f, r); err != nil {
		return "", err
	}

	path := filepath.Join(dir, r.Filename("xlsx"))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("report: save xlsx: %w", err)
	}
	return path, nil
}

func (e *XLSXExporter) writeSnapshot(f *excelize.File, r *Report) error {
	if err := setRow(f, "Snapshot", 1, "item", "city", "buy", "sell"); err != nil {
		return err
	}
	for i, q := range r.Snapshot {
		if err := setRow(f, "Snapshot", i+2, q.ItemID, q.City, q.BuyPrice, q.SellPrice); err != nil {
			return err
		}
	}
	return nil
}

func (e *XLSXExporter) writeFlipping(f *excelize.File, r *Report) error {
	if err := setRow(f, "Flipping", 1, flippingHeader()...); err != nil {
		return err
	}
	for i, o := range r.Opportunities {
		err := setRow(f, "Flipping", i+2,
			o.ItemID, o.SourceCity, o.DestCity, o.BuyPrice, o.SellPrice,
			o.GrossSpread, o.NetProfit, o.NetProfitPct)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *XLSXExporter) writeRawSpread(f *excelize.File, r *Report) error {
	if err := setRow(f, "RawSpread", 1,
		"item", "buy_in", "sell_in", "buy", "sell", "spread", "spread_pct"); err != nil {
		return err
	}
	for i, s := range r.RawSpreads {
		err := setRow(f, "RawSpread", i+2,
			s.ItemID, s.SourceCity, s.DestCity, s.BuyPrice, s.SellPrice,
			s.Spread, s.SpreadPct)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *XLSXExporter) writeHistorical(f *excelize.File, r *Report) error {
	if err := setRow(f, "Historical", 1, "item", "city", "median_sell"); err != nil {
		return err
	}
	for i, h := range r.Historical {
		if err := setRow(f, "Historical", i+2, h.ItemID, h.City, h.MedianSell); err != nil {
			return err
		}
	}
	return nil
}

// setRow writes values into row n of the sheet, starting at column A.
func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("report: cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("report: write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func flippingHeader() []any {
	return []any{"item", "buy_in", "sell_in", "buy_price", "sell_price", "spread", "net_profit", "profit_pct"}
}
