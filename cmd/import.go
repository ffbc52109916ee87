package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/tti6o/trading-journal-cli/binance"
)

// importCmd ingests a Binance trade-history export file.
type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a Binance trade-history export (.xlsx)" }
func (*importCmd) Usage() string {
	return `tj import <file.xlsx>...

  Parses Binance trade-history exports and appends the trades to the
  ledger. Importing the same file twice is safe: trades carry a
  content-derived identity, so every duplicate is skipped and the stored
  trade stays untouched. Realized PnL is recomputed for the symbols the
  import touched.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no export file given")
		return subcommands.ExitUsageError
	}

	j, s, _, err := openJournal()
	if err != nil {
		return errExit(err)
	}
	defer s.Close()

	for _, path := range f.Args() {
		parsed, err := binance.ParseExport(path)
		if err != nil {
			return errExit(err)
		}
		for _, skip := range parsed.Skipped {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", path, skip)
		}

		res, err := j.Ingest(parsed.Records)
		if err != nil {
			return errExit(err)
		}
		for _, rej := range res.Rejected {
			fmt.Fprintf(os.Stderr, "Warning: %s: rejected record: %v\n", path, rej.Reason)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", path, w)
		}

		replayRejected, err := j.Recompute(res.Touched...)
		if err != nil {
			return errExit(err)
		}
		for _, rej := range replayRejected {
			fmt.Fprintf(os.Stderr, "Warning: replay: %v\n", rej.Reason)
		}

		fmt.Printf("%s: %d new, %d duplicate(s), %d rejected", path, res.Inserted, res.Duplicates, len(res.Rejected))
		if len(res.Touched) > 0 {
			fmt.Printf(" (updated %s)", strings.Join(res.Touched, ", "))
		}
		fmt.Println()
	}
	return subcommands.ExitSuccess
}
