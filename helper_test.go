package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// d parses a decimal literal, failing the test on bad input.
func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return v
}

// at builds a UTC timestamp on a fixed trading day, offset by minutes, so
// tests control relative ordering without caring about absolute dates.
func at(minutes int) time.Time {
	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(minutes) * time.Minute)
}

// trade builds a normalized test trade with its id stamped the way
// ingestion would stamp it.
func trade(t *testing.T, minutes int, symbol string, side Side, price, qty string) Trade {
	t.Helper()
	p, q := d(t, price), d(t, qty)
	return stampID(Trade{
		Time:          at(minutes),
		Symbol:        symbol,
		Side:          side,
		Price:         p,
		Quantity:      q,
		QuoteQuantity: p.Mul(q),
		Fee:           decimal.Zero,
		FeeCurrency:   "USDT",
		Source:        "test",
	})
}

// withFee returns a copy of the trade with a fee in the given currency. The
// id is re-stamped because the fee currency participates in the identity.
func withFee(t *testing.T, tr Trade, fee, currency string) Trade {
	t.Helper()
	tr.Fee = d(t, fee)
	tr.FeeCurrency = currency
	return stampID(tr)
}

// rawRecord builds an unnormalized record the way a source adapter would.
func rawRecord(t *testing.T, minutes int, pair, side, price, qty string) RawTradeRecord {
	t.Helper()
	p, q := d(t, price), d(t, qty)
	return RawTradeRecord{
		Time:          at(minutes),
		Pair:          pair,
		Side:          side,
		Price:         p,
		Quantity:      q,
		QuoteQuantity: p.Mul(q),
		Fee:           decimal.Zero,
		FeeCurrency:   "USDT",
		Source:        "test",
	}
}
