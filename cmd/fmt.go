package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// fmtCmd re-replays the whole ledger and rewrites every PnL annotation.
type fmtCmd struct{}

func (*fmtCmd) Name() string     { return "fmt" }
func (*fmtCmd) Synopsis() string { return "re-replay the ledger and rewrite PnL annotations" }
func (*fmtCmd) Usage() string {
	return `tj fmt

  Replays every symbol from the beginning of its history and persists the
  resulting PnL annotations. Replay is deterministic, so this is a no-op
  on a healthy ledger; it repairs annotations after a manual database edit
  or an interrupted import.
`
}

func (*fmtCmd) SetFlags(*flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	j, s, _, err := openJournal()
	if err != nil {
		return errExit(err)
	}
	defer s.Close()

	rejected, err := j.Recompute()
	if err != nil {
		return errExit(err)
	}
	for _, rej := range rejected {
		fmt.Fprintf(os.Stderr, "Warning: replay: %v\n", rej.Reason)
	}

	n, err := s.Count()
	if err != nil {
		return errExit(err)
	}
	fmt.Printf("Replayed %d trade(s)\n", n)
	return subcommands.ExitSuccess
}
