package renderer

import (
	"fmt"
	"strings"
	"time"

	journal "github.com/tti6o/trading-journal-cli"
	"github.com/tti6o/trading-journal-cli/signal"
)

// WatchMarkdown renders one watch-loop pass: sync outcome plus the graded
// signals. It is used both for terminal output and as the email body.
func WatchMarkdown(at time.Time, ingest journal.IngestResult, signals []signal.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Watch Report %s\n\n", at.UTC().Format(time.DateTime))

	fmt.Fprintf(&b, "Sync: %d new trade(s), %d duplicate(s), %d rejected.\n\n",
		ingest.Inserted, ingest.Duplicates, len(ingest.Rejected))
	if len(ingest.Touched) > 0 {
		fmt.Fprintf(&b, "Updated symbols: %s\n\n", strings.Join(ingest.Touched, ", "))
	}
	for _, w := range ingest.Warnings {
		fmt.Fprintf(&b, "- Warning: %s\n", w)
	}
	if len(ingest.Warnings) > 0 {
		fmt.Fprint(&b, "\n")
	}

	if len(signals) == 0 {
		return b.String()
	}
	fmt.Fprint(&b, "## Signals\n\n")
	fmt.Fprint(&b, "| Symbol | Signal | Confidence | RSI | Close | Notes |\n")
	fmt.Fprint(&b, "|:---|:---|---:|---:|---:|:---|\n")
	for _, s := range signals {
		fmt.Fprintf(&b, "| %s | %s | %.0f%% | %.1f | %.8g | %s |\n",
			s.Symbol, s.Action, s.Confidence*100, s.RSI, s.LastClose, strings.Join(s.Reasons, "; "))
	}
	fmt.Fprint(&b, "\n")
	return b.String()
}
