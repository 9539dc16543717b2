package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"albionflip/internal/domain"
)

var testTime = time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)

func sampleOpps() []domain.Opportunity {
	return []domain.Opportunity{
		{ItemID: "T4_BAG", SourceCity: "Martlock", DestCity: "Bridgewatch", BuyPrice: 1000, SellPrice: 1400, GrossSpread: 400, NetProfit: 384, NetProfitPct: 38.4},
		{ItemID: "T5_BAG", SourceCity: "Thetford", DestCity: "Caerleon", BuyPrice: 2000, SellPrice: 3200, GrossSpread: 1200, NetProfit: 1152, NetProfitPct: 57.6},
		{ItemID: "T4_BAG", SourceCity: "Lymhurst", DestCity: "Caerleon", BuyPrice: 1000, SellPrice: 1400, GrossSpread: 400, NetProfit: 384, NetProfitPct: 38.4},
	}
}

func TestBuildRanksByNetPctDescending(t *testing.T) {
	r := Build("run-1", testTime, nil, sampleOpps(), nil, nil)

	require.Len(t, r.Opportunities, 3)
	assert.Equal(t, "T5_BAG", r.Opportunities[0].ItemID)
	// Stable sort keeps the original order of the two 38.4% entries.
	assert.Equal(t, "Martlock", r.Opportunities[1].SourceCity)
	assert.Equal(t, "Lymhurst", r.Opportunities[2].SourceCity)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	opps := sampleOpps()
	_ = Build("run-1", testTime, nil, opps, nil, nil)
	assert.Equal(t, "T4_BAG", opps[0].ItemID)
}

func TestTopTruncates(t *testing.T) {
	r := Build("run-1", testTime, nil, sampleOpps(), nil, nil)

	assert.Len(t, r.Top(2), 2)
	assert.Len(t, r.Top(10), 3)
	assert.Empty(t, r.Top(0))
}

func TestTopNegativeIsEmpty(t *testing.T) {
	r := Build("run-1", testTime, nil, sampleOpps(), nil, nil)

	assert.NotPanics(t, func() {
		assert.Empty(t, r.Top(-1))
	})
}

func TestFilenameCarriesTimestamp(t *testing.T) {
	r := Build("run-1", testTime, nil, nil, nil, nil)
	assert.Equal(t, "flipping_results_20260831_143000.xlsx", r.Filename("xlsx"))
}

func TestXLSXExportEmptyReport(t *testing.T) {
	dir := t.TempDir()
	r := Build("run-1", testTime, nil, nil, nil, nil)

	path, err := NewXLSXExporter().Export(r, dir)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Snapshot", "Flipping", "RawSpread", "Historical"}, f.GetSheetList())

	// Headers only.
	rows, err := f.GetRows("Flipping")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "item", rows[0][0])
}

func TestXLSXExportFullReport(t *testing.T) {
	dir := t.TempDir()
	snapshot := []domain.PriceQuote{
		{ItemID: "T4_BAG", City: "Martlock", BuyPrice: 1000, SellPrice: 950},
	}
	hist := []domain.HistoricalPrice{
		{ItemID: "T4_BAG", City: "Martlock", MedianSell: 980},
	}
	r := Build("run-1", testTime, snapshot, sampleOpps(), nil, hist)

	path, err := NewXLSXExporter().Export(r, dir)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Flipping")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "T5_BAG", rows[1][0])

	snap, err := f.GetRows("Snapshot")
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, []string{"T4_BAG", "Martlock", "1000", "950"}, snap[1])
}

func TestCSVExportEmptyReport(t *testing.T) {
	dir := t.TempDir()
	r := Build("run-1", testTime, nil, nil, nil, nil)

	path, err := NewCSVExporter().Export(r, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flipping_results_20260831_143000.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "item", records[0][0])
}

func TestCSVExportRankedRows(t *testing.T) {
	dir := t.TempDir()
	r := Build("run-1", testTime, nil, sampleOpps(), nil, nil)

	path, err := NewCSVExporter().Export(r, dir)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "T5_BAG", records[1][0])
	assert.Equal(t, "57.60", records[1][7])
}
