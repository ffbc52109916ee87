package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tti6o/trading-journal-cli/config"
	"github.com/tti6o/trading-journal-cli/store"
)

// initCmd creates the configuration file and an empty ledger database.
type initCmd struct {
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create the configuration file and the ledger database" }
func (*initCmd) Usage() string {
	return `tj init [-force]

  Writes a default configuration file and creates the ledger database with
  its schema. Running init on an existing journal is safe: the database
  schema is migrated in place and the configuration is only overwritten
  with -force.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Overwrite an existing configuration file")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return errExit(err)
	}

	if _, err := os.Stat(*configPath); os.IsNotExist(err) || c.force {
		if err := config.Save(*configPath, cfg); err != nil {
			return errExit(err)
		}
		fmt.Printf("Wrote configuration to %s\n", *configPath)
	} else {
		fmt.Printf("Configuration %s already exists, keeping it (use -force to overwrite)\n", *configPath)
	}

	s, err := store.Open(cfg.Database)
	if err != nil {
		return errExit(err)
	}
	defer s.Close()
	n, err := s.Count()
	if err != nil {
		return errExit(err)
	}
	fmt.Printf("Ledger database ready at %s (%d trades)\n", cfg.Database, n)
	return subcommands.ExitSuccess
}
