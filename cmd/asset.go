package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	journal "github.com/tti6o/trading-journal-cli"
	"github.com/tti6o/trading-journal-cli/renderer"
)

// assetCmd displays the deep dive for one base asset.
type assetCmd struct{}

func (*assetCmd) Name() string     { return "asset" }
func (*assetCmd) Synopsis() string { return "display the detail report for one asset" }
func (*assetCmd) Usage() string {
	return `tj asset <base>

  Displays every trade of a base asset (e.g. "XRP" covers XRPUSDT after
  stablecoin normalization) with a trade-by-trade walkthrough of the
  position and its average cost.
`
}

func (*assetCmd) SetFlags(*flag.FlagSet) {}

func (c *assetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one asset expected, e.g. tj asset XRP")
		return subcommands.ExitUsageError
	}
	base := f.Arg(0)

	j, s, _, err := openJournal()
	if err != nil {
		return errExit(err)
	}
	defer s.Close()

	summary, trades, err := j.AssetReport(base)
	if err != nil {
		return errExit(err)
	}
	res := journal.Replay(j.Synonyms(), trades)
	for _, rej := range res.Rejected {
		fmt.Fprintf(os.Stderr, "Warning: replay: %v\n", rej.Reason)
	}

	printMarkdown(renderer.AssetMarkdown(base, summary, res.Steps))
	return subcommands.ExitSuccess
}
