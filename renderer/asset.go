package renderer

import (
	"fmt"
	"strings"
	"time"

	journal "github.com/tti6o/trading-journal-cli"
)

// AssetMarkdown renders the single-asset deep dive: summary numbers, the
// final position, and a trade-by-trade walkthrough showing how the average
// cost moved. Steps must come from a replay of the same trades, oldest
// first.
func AssetMarkdown(asset string, s journal.Summary, steps []journal.Step) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Asset Report: %s\n\n", asset)
	if !s.From.IsZero() {
		fmt.Fprintf(&b, "Period: %s to %s\n\n", s.From.Format(time.DateOnly), s.To.Format(time.DateOnly))
	}

	fmt.Fprint(&b, "| Metric | Value |\n")
	fmt.Fprint(&b, "|:---|---:|\n")
	fmt.Fprintf(&b, "| Trades | %d (%d buys, %d sells) |\n", s.Trades, s.Buys, s.Sells)
	fmt.Fprintf(&b, "| Bought | %s |\n", FormatQty(s.BoughtQuantity))
	fmt.Fprintf(&b, "| Sold | %s |\n", FormatQty(s.SoldQuantity))
	fmt.Fprintf(&b, "| Realized PnL | %s |\n", SignedQuote(s.RealizedPnL))
	fmt.Fprintf(&b, "| Fee-Adjusted PnL | %s |\n", SignedQuote(s.FeeAdjustedPnL))
	if s.ScoredSells > 0 {
		fmt.Fprintf(&b, "| Win Rate | %.1f%% |\n", s.WinRate*100)
	}
	fmt.Fprint(&b, "\n")

	fmt.Fprint(&b, "## Position Walkthrough\n\n")
	fmt.Fprint(&b, "| Time (UTC) | Side | Price | Quantity | Realized PnL | Position | Avg Cost |\n")
	fmt.Fprint(&b, "|:---|:---|---:|---:|---:|---:|---:|\n")
	for _, step := range steps {
		t := step.Trade
		pnl := "-"
		if step.RealizedPnL != nil {
			pnl = SignedQuote(*step.RealizedPnL)
			if step.ShortPosition {
				pnl += " (short)"
			}
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			t.Time.Format(time.DateTime),
			t.Side,
			FormatPrice(t.Price),
			FormatQty(t.Quantity),
			pnl,
			FormatQty(step.Quantity),
			FormatPrice(step.AverageCost),
		)
	}
	fmt.Fprint(&b, "\n")

	if len(steps) > 0 {
		last := steps[len(steps)-1]
		if last.Quantity.IsZero() {
			fmt.Fprint(&b, "Position is fully closed.\n")
		} else {
			fmt.Fprintf(&b, "Open position: %s at average cost %s.\n",
				FormatQty(last.Quantity), FormatPrice(last.AverageCost))
		}
	}
	return b.String()
}
