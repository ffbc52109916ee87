// Package renderer turns aggregation results into Markdown reports. It
// formats; it never computes, so every number printed here was produced by
// the replay or aggregation engine.
package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// usdt is the reference quote as a currency. It is not an ISO code, so it
// is registered explicitly with two display decimals.
var usdt = money.AddCurrency("USDT", "USDT", "1 $", ".", ",", 2)

// FormatQuote renders a quote-denominated amount, e.g. "1,234.57 USDT".
// Display rounds to two decimals; stored values keep full precision.
func FormatQuote(d decimal.Decimal) string {
	units := d.Shift(int32(usdt.Fraction)).Round(0).IntPart()
	return money.New(units, usdt.Code).Display()
}

// SignedQuote is FormatQuote with an explicit sign, and "-" for zero.
func SignedQuote(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	if d.IsPositive() {
		return "+" + FormatQuote(d)
	}
	return FormatQuote(d)
}

// FormatQty renders an asset quantity with trailing zeros trimmed.
func FormatQty(d decimal.Decimal) string {
	return d.Round(8).String()
}

// FormatPrice renders a unit price with full stored precision capped at
// eight decimals.
func FormatPrice(d decimal.Decimal) string {
	return d.Round(8).String()
}
