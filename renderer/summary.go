package renderer

import (
	"fmt"
	"strings"
	"time"

	journal "github.com/tti6o/trading-journal-cli"
)

// SummaryMarkdown renders the global performance report.
func SummaryMarkdown(s journal.Summary) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Trading Performance Summary\n\n")
	if !s.From.IsZero() {
		fmt.Fprintf(&b, "Period: %s to %s\n\n", s.From.Format(time.DateOnly), s.To.Format(time.DateOnly))
	}

	fmt.Fprint(&b, "| Metric | Value |\n")
	fmt.Fprint(&b, "|:---|---:|\n")
	fmt.Fprintf(&b, "| Trades | %d (%d buys, %d sells) |\n", s.Trades, s.Buys, s.Sells)
	fmt.Fprintf(&b, "| Buy Volume | %s |\n", FormatQuote(s.BuyVolume))
	fmt.Fprintf(&b, "| Sell Volume | %s |\n", FormatQuote(s.SellVolume))
	fmt.Fprintf(&b, "| Realized PnL | %s |\n", SignedQuote(s.RealizedPnL))
	fmt.Fprintf(&b, "| Fee-Adjusted PnL | %s |\n", SignedQuote(s.FeeAdjustedPnL))
	fmt.Fprintf(&b, "| Fees (quote) | %s |\n", FormatQuote(s.Fees))
	if s.ScoredSells > 0 {
		fmt.Fprintf(&b, "| Win Rate | %.1f%% (%d/%d winning sells) |\n", s.WinRate*100, s.WinningSells, s.ScoredSells)
		fmt.Fprintf(&b, "| Profit Factor | %s |\n", s.ProfitFactor)
	}
	if s.UnconvertedFees > 0 {
		fmt.Fprintf(&b, "| Unconverted Fees | %d trade(s) with fees in a foreign currency, excluded from fee totals |\n", s.UnconvertedFees)
	}
	fmt.Fprint(&b, "\n")

	if len(s.Holdings) > 0 {
		fmt.Fprint(&b, HoldingsMarkdown(s.Holdings))
	}
	return b.String()
}

// HoldingsMarkdown renders current positions valued at average cost.
func HoldingsMarkdown(holdings []journal.Holding) string {
	var b strings.Builder
	fmt.Fprint(&b, "## Current Holdings\n\n")
	fmt.Fprint(&b, "| Symbol | Quantity | Avg Cost | Cost Value |\n")
	fmt.Fprint(&b, "|:---|---:|---:|---:|\n")
	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			h.Symbol,
			FormatQty(h.Quantity),
			FormatPrice(h.AverageCost),
			FormatQuote(h.Value),
		)
	}
	fmt.Fprint(&b, "\n")
	return b.String()
}
