package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"

	journal "github.com/tti6o/trading-journal-cli"
	"github.com/tti6o/trading-journal-cli/renderer"
)

// summaryCmd displays the global performance summary.
type summaryCmd struct {
	symbol string
	since  string
	until  string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the trading performance summary" }
func (*summaryCmd) Usage() string {
	return `tj summary [-s <symbol>] [-since <date>] [-until <date>]

  Displays win rate, profit factor, realized PnL and current holdings over
  the (optionally filtered) ledger. Dates are YYYY-MM-DD, inclusive.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Restrict to one canonical symbol, e.g. XRPUSDT")
	f.StringVar(&c.since, "since", "", "Earliest trade date (YYYY-MM-DD)")
	f.StringVar(&c.until, "until", "", "Latest trade date (YYYY-MM-DD)")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := parseFilter(c.symbol, c.since, c.until)
	if err != nil {
		return errExit(err)
	}

	j, s, _, err := openJournal()
	if err != nil {
		return errExit(err)
	}
	defer s.Close()

	summary, err := j.Summary(filter)
	if err != nil {
		return errExit(err)
	}
	printMarkdown(renderer.SummaryMarkdown(summary))
	return subcommands.ExitSuccess
}

// parseFilter builds a trade filter from the common report flags.
func parseFilter(symbol, since, until string) (journal.Filter, error) {
	var f journal.Filter
	f.Symbol = symbol
	if since != "" {
		t, err := time.Parse(time.DateOnly, since)
		if err != nil {
			return f, err
		}
		f.Since = t
	}
	if until != "" {
		t, err := time.Parse(time.DateOnly, until)
		if err != nil {
			return f, err
		}
		// Inclusive end of day.
		f.Until = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	return f, nil
}
