package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	journal "github.com/tti6o/trading-journal-cli"
	"github.com/tti6o/trading-journal-cli/binance"
	"github.com/tti6o/trading-journal-cli/renderer"
)

// holdingsCmd displays the open positions.
type holdingsCmd struct {
	live bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display open positions at average cost" }
func (*holdingsCmd) Usage() string {
	return `tj holdings [-live]

  Displays per-symbol open positions with their average cost. With -live
  the current spot price is fetched from the public ticker endpoint and an
  unrealized PnL column is added; no credentials are needed.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.live, "live", false, "Fetch spot prices and show unrealized PnL")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	j, s, _, err := openJournal()
	if err != nil {
		return errExit(err)
	}
	defer s.Close()

	summary, err := j.Summary(journal.Filter{})
	if err != nil {
		return errExit(err)
	}
	if len(summary.Holdings) == 0 {
		fmt.Println("No open positions.")
		return subcommands.ExitSuccess
	}

	if !c.live {
		printMarkdown(renderer.HoldingsMarkdown(summary.Holdings))
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	fmt.Fprint(&b, "## Current Holdings (live)\n\n")
	fmt.Fprint(&b, "| Symbol | Quantity | Avg Cost | Spot | Unrealized PnL |\n")
	fmt.Fprint(&b, "|:---|---:|---:|---:|---:|\n")
	for _, h := range summary.Holdings {
		spot, err := binance.SpotPrice(h.Symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			fmt.Fprintf(&b, "| %s | %s | %s | - | - |\n",
				h.Symbol, renderer.FormatQty(h.Quantity), renderer.FormatPrice(h.AverageCost))
			continue
		}
		unrealized := spot.Sub(h.AverageCost).Mul(h.Quantity)
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			h.Symbol,
			renderer.FormatQty(h.Quantity),
			renderer.FormatPrice(h.AverageCost),
			renderer.FormatPrice(spot),
			renderer.SignedQuote(unrealized),
		)
	}
	fmt.Fprint(&b, "\n")
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
