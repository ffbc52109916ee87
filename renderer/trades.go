package renderer

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	journal "github.com/tti6o/trading-journal-cli"
)

// TradesMarkdown renders a flat trade listing in replay order.
func TradesMarkdown(title string, trades []journal.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(trades) == 0 {
		fmt.Fprint(&b, "No trades recorded.\n")
		return b.String()
	}

	fmt.Fprint(&b, "| Time (UTC) | Symbol | Side | Price | Quantity | Quote Amount | Realized PnL |\n")
	fmt.Fprint(&b, "|:---|:---|:---|---:|---:|---:|---:|\n")
	for _, t := range trades {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			t.Time.Format(time.DateTime),
			t.Symbol,
			t.Side,
			FormatPrice(t.Price),
			FormatQty(t.Quantity),
			FormatQuote(t.QuoteQuantity),
			pnlCell(t),
		)
	}
	fmt.Fprint(&b, "\n")
	return b.String()
}

func pnlCell(t journal.Trade) string {
	if t.RealizedPnL == nil {
		return "-"
	}
	cell := SignedQuote(*t.RealizedPnL)
	if t.ShortPosition {
		cell += " (short)"
	}
	if t.UnconvertedFee {
		cell += " (fee in " + t.FeeCurrency + ")"
	}
	return cell
}

// PnLMarkdown renders the realized PnL report: per-symbol totals plus the
// scored sells behind them.
func PnLMarkdown(s journal.Summary, bySymbol map[string]journal.Summary) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Realized PnL Report\n\n")
	if !s.From.IsZero() {
		fmt.Fprintf(&b, "Period: %s to %s\n\n", s.From.Format(time.DateOnly), s.To.Format(time.DateOnly))
	}

	fmt.Fprint(&b, "| Symbol | Sells | Win Rate | Realized PnL | Fee-Adjusted PnL | Profit Factor |\n")
	fmt.Fprint(&b, "|:---|---:|---:|---:|---:|---:|\n")
	for _, symbol := range sortedKeys(bySymbol) {
		sub := bySymbol[symbol]
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
			symbol,
			sub.ScoredSells,
			winRateCell(sub),
			SignedQuote(sub.RealizedPnL),
			SignedQuote(sub.FeeAdjustedPnL),
			sub.ProfitFactor,
		)
	}
	fmt.Fprintf(&b, "| **Total** | %d | %s | **%s** | **%s** | %s |\n",
		s.ScoredSells, winRateCell(s), SignedQuote(s.RealizedPnL), SignedQuote(s.FeeAdjustedPnL), s.ProfitFactor)
	fmt.Fprint(&b, "\n")
	return b.String()
}

func winRateCell(s journal.Summary) string {
	if s.ScoredSells == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", s.WinRate*100)
}

func sortedKeys(m map[string]journal.Summary) []string {
	return slices.Sorted(maps.Keys(m))
}
