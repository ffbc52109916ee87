package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	journal "github.com/tti6o/trading-journal-cli"
	"github.com/tti6o/trading-journal-cli/renderer"
)

// tradesCmd lists stored trades.
type tradesCmd struct {
	symbol string
	side   string
	since  string
	until  string
	limit  int
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "list trades in the ledger" }
func (*tradesCmd) Usage() string {
	return `tj trades [-s <symbol>] [-side BUY|SELL] [-since <date>] [-until <date>] [-n <limit>]

  Lists stored trades in replay order (time, then identity). With -n only
  the most recent matching trades are shown.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Restrict to one canonical symbol")
	f.StringVar(&c.side, "side", "", "Restrict to BUY or SELL")
	f.StringVar(&c.since, "since", "", "Earliest trade date (YYYY-MM-DD)")
	f.StringVar(&c.until, "until", "", "Latest trade date (YYYY-MM-DD)")
	f.IntVar(&c.limit, "n", 0, "Show only the most recent n trades")
}

func (c *tradesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := parseFilter(c.symbol, c.since, c.until)
	if err != nil {
		return errExit(err)
	}
	if c.side != "" {
		side, err := journal.ParseSide(c.side)
		if err != nil {
			return errExit(err)
		}
		filter.Side = side
	}
	filter.Limit = c.limit

	j, s, _, err := openJournal()
	if err != nil {
		return errExit(err)
	}
	defer s.Close()

	trades, err := j.Trades(filter)
	if err != nil {
		return errExit(err)
	}

	title := "Trades"
	if c.symbol != "" {
		title = "Trades " + strings.ToUpper(c.symbol)
	}
	printMarkdown(renderer.TradesMarkdown(title, trades))
	return subcommands.ExitSuccess
}
