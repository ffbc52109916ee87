package journal

import (
	"testing"
	"time"
)

func TestTradeIDIsStable(t *testing.T) {
	tr := trade(t, 0, "XRPUSDT", Buy, "0.5", "1000")
	id := TradeID(tr)

	if len(id) != 16 {
		t.Fatalf("TradeID length = %d, want 16", len(id))
	}
	for i := 0; i < 50; i++ {
		if got := TradeID(tr); got != id {
			t.Fatalf("TradeID not stable: %q != %q", got, id)
		}
	}
}

func TestTradeIDDiscriminatingFields(t *testing.T) {
	base := trade(t, 0, "XRPUSDT", Buy, "0.5", "1000")

	mutations := []struct {
		name   string
		mutate func(Trade) Trade
	}{
		{"time", func(tr Trade) Trade { tr.Time = tr.Time.Add(time.Second); return tr }},
		{"symbol", func(tr Trade) Trade { tr.Symbol = "ETHUSDT"; return tr }},
		{"side", func(tr Trade) Trade { tr.Side = Sell; return tr }},
		{"price", func(tr Trade) Trade { tr.Price = d(t, "0.51"); return tr }},
		{"quantity", func(tr Trade) Trade { tr.Quantity = d(t, "999"); return tr }},
		{"quote quantity", func(tr Trade) Trade { tr.QuoteQuantity = d(t, "501"); return tr }},
		{"fee currency", func(tr Trade) Trade { tr.FeeCurrency = "BNB"; return tr }},
	}
	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			if TradeID(m.mutate(base)) == TradeID(base) {
				t.Errorf("changing %s did not change the id", m.name)
			}
		})
	}
}

func TestTradeIDIgnoresNonDiscriminatingFields(t *testing.T) {
	a := trade(t, 0, "XRPUSDT", Sell, "0.6", "500")
	b := a
	b.Source = "binance-api"
	b.Fee = d(t, "0.25") // fee amount is not part of the identity, its currency is

	if TradeID(a) != TradeID(b) {
		t.Error("source or fee amount changed the id")
	}
}

func TestTradeIDTimezoneInvariant(t *testing.T) {
	a := trade(t, 0, "XRPUSDT", Buy, "0.5", "1000")
	b := a
	b.Time = a.Time.In(time.FixedZone("UTC+8", 8*3600))

	if TradeID(a) != TradeID(b) {
		t.Error("same instant in a different zone produced a different id")
	}
}

func TestTradeIDSubSecondTruncation(t *testing.T) {
	a := trade(t, 0, "XRPUSDT", Buy, "0.5", "1000")
	b := a
	b.Time = a.Time.Add(300 * time.Millisecond)

	// The API reports milliseconds, export files report seconds. stampID
	// truncates, so the same fill hashes identically from either source.
	if stampID(a).ID != stampID(b).ID {
		t.Error("sub-second difference changed the stamped id")
	}
}
