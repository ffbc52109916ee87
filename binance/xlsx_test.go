package binance

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds an export file with the given header and rows.
func writeWorkbook(t *testing.T, header []string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := append([][]string{header}, rows...)
	for r, row := range cells {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "export.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

var englishHeader = []string{"Date(UTC)", "Pair", "Side", "Price", "Executed", "Amount", "Fee", "Fee Coin"}

func TestParseExportEnglish(t *testing.T) {
	path := writeWorkbook(t, englishHeader, [][]string{
		{"2024-03-01 09:00:00", "XRPFDUSD", "BUY", "0.5", "1000", "500", "0.5", "FDUSD"},
		{"2024-03-01 10:30:00", "BTCUSDT", "SELL", "20000", "0.1", "2000", "0.001", "BNB"},
	})

	res, err := ParseExport(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Skipped) != 0 {
		t.Fatalf("skipped rows: %v", res.Skipped)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}

	first := res.Records[0]
	if first.Pair != "XRPFDUSD" || first.Side != "BUY" {
		t.Errorf("first record = %+v", first)
	}
	if !first.Price.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("price = %s, want 0.5", first.Price)
	}
	if !first.QuoteQuantity.Equal(decimal.RequireFromString("500")) {
		t.Errorf("quote quantity = %s, want 500", first.QuoteQuantity)
	}
	if first.FeeCurrency != "FDUSD" {
		t.Errorf("fee currency = %q, want FDUSD", first.FeeCurrency)
	}
	if first.Source != SourceExcel {
		t.Errorf("source = %q, want %q", first.Source, SourceExcel)
	}
	if got := first.Time.Format("2006-01-02 15:04:05"); got != "2024-03-01 09:00:00" {
		t.Errorf("time = %s", got)
	}
}

func TestParseExportChineseHeaders(t *testing.T) {
	header := []string{"时间", "交易对", "类型", "价格", "数量", "成交额", "手续费", "手续费结算币种"}
	path := writeWorkbook(t, header, [][]string{
		{"2024-03-01 09:00:00", "XRPUSDT", "BUY", "0.5", "1000", "500", "0.5", "USDT"},
	})

	res, err := ParseExport(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(res.Records))
	}
	if res.Records[0].Pair != "XRPUSDT" || res.Records[0].FeeCurrency != "USDT" {
		t.Errorf("record = %+v", res.Records[0])
	}
}

func TestParseExportDefaultsFeeCurrency(t *testing.T) {
	header := []string{"Date(UTC)", "Pair", "Side", "Price", "Executed", "Amount", "Fee"}
	path := writeWorkbook(t, header, [][]string{
		{"2024-03-01 09:00:00", "XRPUSDT", "BUY", "0.5", "1000", "500", "0.001"},
	})

	res, err := ParseExport(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Records[0].FeeCurrency != "BNB" {
		t.Errorf("fee currency = %q, want the BNB default", res.Records[0].FeeCurrency)
	}
}

func TestParseExportRowFailuresAreNotFatal(t *testing.T) {
	path := writeWorkbook(t, englishHeader, [][]string{
		{"2024-03-01 09:00:00", "XRPUSDT", "BUY", "0.5", "1000", "500", "0", "USDT"},
		{"not a time", "XRPUSDT", "BUY", "0.5", "1000", "500", "0", "USDT"},
		{"2024-03-01 10:00:00", "XRPUSDT", "SELL", "bogus", "1000", "500", "0", "USDT"},
		{"", "", "", "", "", "", "", ""}, // blank row, silently skipped
		{"2024-03-01 11:00:00", "XRPUSDT", "SELL", "0.6", "500", "300", "0", "USDT"},
	})

	res, err := ParseExport(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("skipped = %d, want 2", len(res.Skipped))
	}
	// Skipped rows carry their 1-based spreadsheet position.
	if res.Skipped[0].Row != 3 || res.Skipped[1].Row != 4 {
		t.Errorf("skipped rows = %d, %d, want 3, 4", res.Skipped[0].Row, res.Skipped[1].Row)
	}
}

func TestParseExportMissingColumns(t *testing.T) {
	path := writeWorkbook(t, []string{"Date(UTC)", "Pair", "Side"}, nil)
	if _, err := ParseExport(path); err == nil {
		t.Fatal("missing required columns should fail the whole file")
	}
}

func TestParseExportThousandSeparators(t *testing.T) {
	path := writeWorkbook(t, englishHeader, [][]string{
		{"2024-03-01 09:00:00", "BTCUSDT", "BUY", "61,250.50", "1,000", "2,000.25", "0", "USDT"},
	})
	res, err := ParseExport(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want 1 (skipped: %v)", len(res.Records), res.Skipped)
	}
	if !res.Records[0].Price.Equal(decimal.RequireFromString("61250.50")) {
		t.Errorf("price = %s, want 61250.50", res.Records[0].Price)
	}
}
