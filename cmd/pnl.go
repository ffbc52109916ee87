package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	journal "github.com/tti6o/trading-journal-cli"
	"github.com/tti6o/trading-journal-cli/renderer"
)

// pnlCmd displays the realized PnL report, broken down per symbol.
type pnlCmd struct {
	since string
	until string
}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "display realized PnL per symbol" }
func (*pnlCmd) Usage() string {
	return `tj pnl [-since <date>] [-until <date>]

  Displays realized and fee-adjusted PnL per canonical symbol, with the
  overall total. Dates are YYYY-MM-DD, inclusive.
`
}

func (c *pnlCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.since, "since", "", "Earliest trade date (YYYY-MM-DD)")
	f.StringVar(&c.until, "until", "", "Latest trade date (YYYY-MM-DD)")
}

func (c *pnlCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := parseFilter("", c.since, c.until)
	if err != nil {
		return errExit(err)
	}

	j, s, _, err := openJournal()
	if err != nil {
		return errExit(err)
	}
	defer s.Close()

	total, err := j.Summary(filter)
	if err != nil {
		return errExit(err)
	}

	symbols, err := j.Symbols()
	if err != nil {
		return errExit(err)
	}
	bySymbol := make(map[string]journal.Summary, len(symbols))
	for _, symbol := range symbols {
		sub := filter
		sub.Symbol = symbol
		summary, err := j.Summary(sub)
		if err != nil {
			return errExit(err)
		}
		if summary.Trades == 0 {
			continue
		}
		bySymbol[symbol] = summary
	}

	printMarkdown(renderer.PnLMarkdown(total, bySymbol))
	return subcommands.ExitSuccess
}
