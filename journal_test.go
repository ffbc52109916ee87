package journal

import (
	"testing"
)

func TestIngestNormalizesAndStores(t *testing.T) {
	store := NewMemoryStore()
	j := New(store)

	res, err := j.Ingest([]RawTradeRecord{
		rawRecord(t, 0, "XRPFDUSD", "BUY", "0.5", "1000"),
		rawRecord(t, 10, "XRP/USDC", "sell", "0.6", "500"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Inserted != 2 || res.Duplicates != 0 || len(res.Rejected) != 0 {
		t.Fatalf("result = %+v, want 2 inserted", res)
	}
	if len(res.Touched) != 1 || res.Touched[0] != "XRPUSDT" {
		t.Fatalf("touched = %v, want [XRPUSDT]", res.Touched)
	}

	trades, err := j.Trades(Filter{})
	if err != nil {
		t.Fatal(err)
	}
	for _, tr := range trades {
		if tr.Symbol != "XRPUSDT" {
			t.Errorf("stored symbol = %s, want XRPUSDT", tr.Symbol)
		}
		if tr.ID == "" {
			t.Error("stored trade has no id")
		}
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	j := New(store)

	records := []RawTradeRecord{
		rawRecord(t, 0, "XRPUSDT", "BUY", "0.5", "1000"),
		rawRecord(t, 10, "XRPUSDT", "SELL", "0.6", "500"),
	}
	if _, err := j.Ingest(records); err != nil {
		t.Fatal(err)
	}
	res, err := j.Ingest(records)
	if err != nil {
		t.Fatal(err)
	}
	if res.Inserted != 0 || res.Duplicates != 2 {
		t.Fatalf("second ingest = %+v, want 0 inserted, 2 duplicates", res)
	}
	if store.Count() != 2 {
		t.Fatalf("store holds %d trades, want 2", store.Count())
	}
	if len(res.Touched) != 0 {
		t.Errorf("duplicates touched symbols: %v", res.Touched)
	}
}

func TestIngestSameTradeFromTwoSources(t *testing.T) {
	store := NewMemoryStore()
	j := New(store)

	fromExcel := rawRecord(t, 0, "XRPFDUSD", "BUY", "0.5", "1000")
	fromExcel.Source = "excel"
	fromAPI := rawRecord(t, 0, "XRPFDUSD", "BUY", "0.5", "1000")
	fromAPI.Source = "binance-api"

	if _, err := j.Ingest([]RawTradeRecord{fromExcel}); err != nil {
		t.Fatal(err)
	}
	res, err := j.Ingest([]RawTradeRecord{fromAPI})
	if err != nil {
		t.Fatal(err)
	}
	if res.Duplicates != 1 {
		t.Fatalf("duplicates = %d, want 1: identity must not depend on the source", res.Duplicates)
	}

	// First writer wins: the stored trade keeps the excel source tag.
	trades, _ := j.Trades(Filter{})
	if len(trades) != 1 || trades[0].Source != "excel" {
		t.Fatalf("stored trades = %v, want one excel-sourced trade", trades)
	}
}

func TestIngestRejectsBadRecordsIndividually(t *testing.T) {
	store := NewMemoryStore()
	j := New(store)

	bad := rawRecord(t, 0, "", "BUY", "0.5", "1000")
	badSide := rawRecord(t, 5, "XRPUSDT", "HOLD", "0.5", "1000")
	good := rawRecord(t, 10, "XRPUSDT", "BUY", "0.5", "1000")

	res, err := j.Ingest([]RawTradeRecord{bad, badSide, good})
	if err != nil {
		t.Fatal(err)
	}
	if res.Inserted != 1 || len(res.Rejected) != 2 {
		t.Fatalf("result = %+v, want 1 inserted, 2 rejected", res)
	}
}

func TestIngestWarnsOnForeignFeeCurrency(t *testing.T) {
	j := New(NewMemoryStore())

	buy := rawRecord(t, 0, "XRPUSDT", "BUY", "0.5", "1000")
	sellBNB := rawRecord(t, 10, "XRPUSDT", "SELL", "0.6", "500")
	sellBNB.Fee = d(t, "0.001")
	sellBNB.FeeCurrency = "BNB"
	sellUSDC := rawRecord(t, 20, "XRPUSDT", "SELL", "0.6", "100")
	sellUSDC.Fee = d(t, "0.03")
	sellUSDC.FeeCurrency = "USDC"

	res, err := j.Ingest([]RawTradeRecord{buy, sellBNB, sellUSDC})
	if err != nil {
		t.Fatal(err)
	}
	if res.Inserted != 3 {
		t.Fatalf("inserted = %d, want 3", res.Inserted)
	}
	// USDC normalizes to the reference quote, so only the BNB fee warns.
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", res.Warnings)
	}
}

func TestRecomputeAnnotatesSells(t *testing.T) {
	store := NewMemoryStore()
	j := New(store)

	if _, err := j.Ingest([]RawTradeRecord{
		rawRecord(t, 0, "XRPUSDT", "BUY", "0.5", "1000"),
		rawRecord(t, 10, "XRPUSDT", "SELL", "0.6", "500"),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := j.Recompute(); err != nil {
		t.Fatal(err)
	}

	trades, _ := j.Trades(Filter{})
	for _, tr := range trades {
		switch tr.Side {
		case Buy:
			if tr.RealizedPnL != nil {
				t.Error("buy trade carries a PnL annotation")
			}
		case Sell:
			if tr.RealizedPnL == nil {
				t.Fatal("sell trade not annotated after Recompute")
			}
			assertDecimal(t, "persisted PnL", *tr.RealizedPnL, "50")
		}
	}
}

func TestIncrementalEqualsBatch(t *testing.T) {
	recordSets := [][]RawTradeRecord{
		{
			rawRecord(t, 0, "XRPFDUSD", "BUY", "0.5123", "1234.5"),
			rawRecord(t, 10, "XRPUSDT", "BUY", "0.6011", "800.25"),
		},
		{
			rawRecord(t, 20, "XRPUSDC", "SELL", "0.6100", "1500"),
			rawRecord(t, 30, "XRPUSDT", "BUY", "0.5500", "100.1"),
		},
		{
			rawRecord(t, 40, "XRPUSDT", "SELL", "0.5700", "300.3"),
		},
	}

	// Incremental: ingest and recompute batch by batch.
	incStore := NewMemoryStore()
	inc := New(incStore)
	for _, records := range recordSets {
		res, err := inc.Ingest(records)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := inc.Recompute(res.Touched...); err != nil {
			t.Fatal(err)
		}
	}

	// Batch: ingest everything, recompute once.
	batchStore := NewMemoryStore()
	batch := New(batchStore)
	var all []RawTradeRecord
	for _, records := range recordSets {
		all = append(all, records...)
	}
	if _, err := batch.Ingest(all); err != nil {
		t.Fatal(err)
	}
	if _, err := batch.Recompute(); err != nil {
		t.Fatal(err)
	}

	incTrades, _ := inc.Trades(Filter{})
	batchTrades, _ := batch.Trades(Filter{})
	if len(incTrades) != len(batchTrades) {
		t.Fatalf("trade counts differ: %d vs %d", len(incTrades), len(batchTrades))
	}
	for i := range incTrades {
		a, b := incTrades[i], batchTrades[i]
		if a.ID != b.ID {
			t.Fatalf("trade %d: ids differ (%s vs %s)", i, a.ID, b.ID)
		}
		if (a.RealizedPnL == nil) != (b.RealizedPnL == nil) {
			t.Fatalf("trade %d: annotation presence differs", i)
		}
		if a.RealizedPnL != nil && !a.RealizedPnL.Equal(*b.RealizedPnL) {
			t.Fatalf("trade %d: incremental PnL %s != batch PnL %s", i, a.RealizedPnL, b.RealizedPnL)
		}
	}
}

func TestSymbols(t *testing.T) {
	j := New(NewMemoryStore())
	if _, err := j.Ingest([]RawTradeRecord{
		rawRecord(t, 0, "XRPFDUSD", "BUY", "0.5", "100"),
		rawRecord(t, 10, "BTCUSDT", "BUY", "20000", "0.1"),
		rawRecord(t, 20, "ETHBTC", "BUY", "0.05", "1"),
	}); err != nil {
		t.Fatal(err)
	}
	symbols, err := j.Symbols()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"BTCUSDT", "ETHBTC", "XRPUSDT"}
	if len(symbols) != len(want) {
		t.Fatalf("symbols = %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Fatalf("symbols = %v, want %v", symbols, want)
		}
	}
}

func TestAssetReport(t *testing.T) {
	j := New(NewMemoryStore())
	if _, err := j.Ingest([]RawTradeRecord{
		rawRecord(t, 0, "XRPFDUSD", "BUY", "0.5", "1000"),
		rawRecord(t, 10, "XRPUSDT", "SELL", "0.6", "400"),
		rawRecord(t, 20, "BTCUSDT", "BUY", "20000", "0.1"),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := j.Recompute(); err != nil {
		t.Fatal(err)
	}

	summary, trades, err := j.AssetReport("xrp")
	if err != nil {
		t.Fatal(err)
	}
	if summary.Trades != 2 || len(trades) != 2 {
		t.Fatalf("asset report covers %d/%d trades, want 2/2", summary.Trades, len(trades))
	}
	assertDecimal(t, "asset realized PnL", summary.RealizedPnL, "40")

	if _, _, err := j.AssetReport("DOGE"); err == nil {
		t.Error("asset report for an untraded asset should error")
	}
}
