package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"albionflip/internal/domain"
)

// CSVExporter writes the ranked opportunity table as a single CSV file. The
// header row is always written, so an empty scan still produces a valid file.
type CSVExporter struct{}

// NewCSVExporter creates a CSVExporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes the CSV under dir and returns the full file path.
func (e *CSVExporter) Export(r *Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: create export dir: %w", err)
	}

	path := filepath.Join(dir, r.Filename("csv"))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("report: create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"item", "buy_in", "sell_in", "buy_price", "sell_price", "spread", "net_profit", "profit_pct"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("report: write csv header: %w", err)
	}
	for _, o := range r.Opportunities {
		if err := w.Write(csvRecord(o)); err != nil {
			return "", fmt.Errorf("report: write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("report: flush csv: %w", err)
	}
	return path, nil
}

func csvRecord(o domain.Opportunity) []string {
	return []string{
		o.ItemID,
		o.SourceCity,
		o.DestCity,
		strconv.Itoa(o.BuyPrice),
		strconv.Itoa(o.SellPrice),
		strconv.Itoa(o.GrossSpread),
		strconv.FormatFloat(o.NetProfit, 'f', 2, 64),
		strconv.FormatFloat(o.NetProfitPct, 'f', 2, 64),
	}
}
