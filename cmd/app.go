// Package cmd implements the CLI application to manage a crypto trading
// journal.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	journal "github.com/tti6o/trading-journal-cli"
	"github.com/tti6o/trading-journal-cli/config"
	"github.com/tti6o/trading-journal-cli/store"
)

// Register the subcommands. A main package calls Register(), then Execute()
// on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "setup")

	c.Register(&importCmd{}, "ingestion")
	c.Register(&syncCmd{}, "ingestion")
	c.Register(&fmtCmd{}, "ingestion")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&pnlCmd{}, "reports")
	c.Register(&assetCmd{}, "reports")
	c.Register(&tradesCmd{}, "reports")
	c.Register(&holdingsCmd{}, "reports")
	c.Register(&symbolsCmd{}, "reports")
	c.Register(&insightCmd{}, "reports")

	c.Register(&watchCmd{}, "monitoring")
}

// As a CLI application the lifecycle is short lived, so global flags are ok.

var configPath = flag.String("config", "config.yaml", "Path to the configuration file")
var dbPath = flag.String("db", "", "Path to the ledger database, overrides the configuration")

// loadConfig reads the configuration and applies the -db override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}
	return cfg, nil
}

// openJournal opens the ledger database and builds the journal around it.
// The caller owns the returned store and must Close it.
func openJournal() (*journal.Journal, *store.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := store.Open(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	opts := synonymOptions(cfg)
	return journal.New(s, opts...), s, cfg, nil
}

// synonymOptions converts the configured synonym extensions into journal
// options. Configured synonyms add to the built-in stablecoin table; a
// configured reference quote replaces the default one.
func synonymOptions(cfg *config.Config) []journal.Option {
	if cfg.Symbols.ReferenceQuote == "" && len(cfg.Symbols.Synonyms) == 0 {
		return nil
	}
	table := journal.DefaultSynonyms()
	if cfg.Symbols.ReferenceQuote != "" {
		table = journal.NewSynonymTable(cfg.Symbols.ReferenceQuote, cfg.Symbols.Synonyms)
	} else {
		table = table.Extend(cfg.Symbols.Synonyms...)
	}
	return []journal.Option{journal.WithSynonyms(table)}
}

// errExit prints an error the way every subcommand reports failures.
func errExit(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
