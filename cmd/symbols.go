package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// symbolsCmd lists the canonical symbols in the ledger.
type symbolsCmd struct{}

func (*symbolsCmd) Name() string     { return "symbols" }
func (*symbolsCmd) Synopsis() string { return "list canonical symbols in the ledger" }
func (*symbolsCmd) Usage() string {
	return `tj symbols

  Lists every canonical symbol present in the ledger, one per line. Pairs
  quoted in stablecoin synonyms were collapsed at ingestion, so XRPFDUSD
  and XRPUSDT appear as one symbol.
`
}

func (*symbolsCmd) SetFlags(*flag.FlagSet) {}

func (c *symbolsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, s, _, err := openJournal()
	if err != nil {
		return errExit(err)
	}
	defer s.Close()

	symbols, err := s.Symbols()
	if err != nil {
		return errExit(err)
	}
	for _, symbol := range symbols {
		fmt.Println(symbol)
	}
	return subcommands.ExitSuccess
}
