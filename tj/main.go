// Command tj is a crypto trading journal: it ingests Binance trade history,
// deduplicates it into a SQLite ledger, and reports realized PnL computed by
// weighted-average-cost replay.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/tti6o/trading-journal-cli/cmd"
)

func main() {
	// Shell completion. Complete() exits the process when invoked by the
	// completion machinery and returns otherwise.
	completion().Complete("tj")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(int(commander.Execute(ctx)))
}

func completion() *complete.Command {
	reportFlags := map[string]complete.Predictor{
		"s":     predict.Something,
		"since": predict.Something,
		"until": predict.Something,
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"db":     predict.Files("*.db"),
		},
		Sub: map[string]*complete.Command{
			"init":   {Flags: map[string]complete.Predictor{"force": predict.Nothing}},
			"import": {Args: predict.Files("*.xlsx")},
			"sync": {Flags: map[string]complete.Predictor{
				"days":    predict.Something,
				"symbols": predict.Something,
				"full":    predict.Nothing,
			}},
			"symbols": {},
			"summary": {Flags: reportFlags},
			"pnl": {Flags: map[string]complete.Predictor{
				"since": predict.Something,
				"until": predict.Something,
			}},
			"asset": {Args: predict.Something},
			"trades": {Flags: map[string]complete.Predictor{
				"s":     predict.Something,
				"side":  predict.Set{"BUY", "SELL"},
				"since": predict.Something,
				"until": predict.Something,
				"n":     predict.Something,
			}},
			"holdings": {Flags: map[string]complete.Predictor{"live": predict.Nothing}},
			"watch": {Flags: map[string]complete.Predictor{
				"interval": predict.Something,
				"once":     predict.Nothing,
				"no-email": predict.Nothing,
			}},
			"insight": {Flags: map[string]complete.Predictor{"model": predict.Something}},
			"fmt":     {},
		},
	}
}
