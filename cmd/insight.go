package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	journal "github.com/tti6o/trading-journal-cli"
	"github.com/tti6o/trading-journal-cli/agent"
	"github.com/tti6o/trading-journal-cli/renderer"
)

// insightCmd asks a Gemini model to review the performance summary.
type insightCmd struct {
	model string
}

func (*insightCmd) Name() string     { return "insight" }
func (*insightCmd) Synopsis() string { return "ask an AI reviewer to comment on the summary" }
func (*insightCmd) Usage() string {
	return `tj insight [-model <name>]

  Renders the performance summary and sends it to a Gemini model for a
  short review. The model sees only the rendered report, never the ledger
  or any credentials. Requires GEMINI_API_KEY in the environment.
`
}

func (c *insightCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", agent.DefaultModel, "Gemini model to use")
}

func (c *insightCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	j, s, _, err := openJournal()
	if err != nil {
		return errExit(err)
	}
	defer s.Close()

	summary, err := j.Summary(journal.Filter{})
	if err != nil {
		return errExit(err)
	}
	if summary.Trades == 0 {
		fmt.Println("Nothing to review: the ledger is empty.")
		return subcommands.ExitSuccess
	}
	report := renderer.SummaryMarkdown(summary)

	analyst, err := agent.NewAnalyst(ctx, c.model)
	if err != nil {
		return errExit(err)
	}
	review, err := analyst.Review(ctx, report)
	if err != nil {
		return errExit(err)
	}
	printMarkdown(review)
	return subcommands.ExitSuccess
}
