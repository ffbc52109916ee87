// Package binance turns Binance trade history, whether exported to a
// spreadsheet or pulled from the exchange API, into raw trade records for
// the journal engine. The engine never inspects spreadsheet structure or
// API payloads; this package owns both.
package binance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	journal "github.com/tti6o/trading-journal-cli"
)

// SourceExcel tags records parsed from an exported spreadsheet.
const SourceExcel = "excel"

// columnAliases maps localized header names onto the canonical English
// ones. Binance exports use either language depending on the account
// locale; both must parse identically.
var columnAliases = map[string]string{
	"时间":      "Date(UTC)",
	"交易对":     "Pair",
	"类型":      "Side",
	"价格":      "Price",
	"数量":      "Executed",
	"成交额":     "Amount",
	"手续费":     "Fee",
	"手续费结算币种": "Fee Coin",
	"Fee_Currency": "Fee Coin",
	"Fee Currency": "Fee Coin",
}

var requiredColumns = []string{"Date(UTC)", "Pair", "Side", "Price", "Executed", "Amount", "Fee"}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseResult reports what a spreadsheet parse produced. Row-level failures
// are collected, not fatal: one bad row never discards an export file.
type ParseResult struct {
	Records []journal.RawTradeRecord
	Skipped []RowError
}

// RowError pairs a 1-based spreadsheet row with its parse failure.
type RowError struct {
	Row    int
	Reason error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Reason) }

// ParseExport reads a Binance trade-history export (.xlsx) and returns raw
// trade records. Header names are matched bilingually and the column order
// is free.
func ParseExport(path string) (ParseResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("open export file %q: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ParseResult{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return ParseResult{}, fmt.Errorf("export file %q is empty", path)
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return ParseResult{}, err
	}

	var res ParseResult
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(columns, row)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: rowNum, Reason: err})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// mapHeader resolves each canonical column name to its index.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, name := range header {
		name = strings.TrimSpace(name)
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	var missing []string
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("export file is missing columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func parseRow(columns map[string]int, row []string) (journal.RawTradeRecord, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	when, err := parseTime(cell("Date(UTC)"))
	if err != nil {
		return journal.RawTradeRecord{}, err
	}
	price, err := parseDecimal("price", cell("Price"))
	if err != nil {
		return journal.RawTradeRecord{}, err
	}
	quantity, err := parseDecimal("executed quantity", cell("Executed"))
	if err != nil {
		return journal.RawTradeRecord{}, err
	}
	amount, err := parseDecimal("amount", cell("Amount"))
	if err != nil {
		return journal.RawTradeRecord{}, err
	}
	fee := decimal.Zero
	if v := cell("Fee"); v != "" {
		if fee, err = parseDecimal("fee", v); err != nil {
			return journal.RawTradeRecord{}, err
		}
	}
	// Exports without a fee-coin column settle fees in BNB.
	feeCurrency := cell("Fee Coin")
	if feeCurrency == "" {
		feeCurrency = "BNB"
	}

	return journal.RawTradeRecord{
		Time:          when,
		Pair:          cell("Pair"),
		Side:          cell("Side"),
		Price:         price,
		Quantity:      quantity,
		QuoteQuantity: amount,
		Fee:           fee,
		FeeCurrency:   feeCurrency,
		Source:        SourceExcel,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bad %s %q", field, s)
	}
	return d, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
