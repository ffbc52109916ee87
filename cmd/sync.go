package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	journal "github.com/tti6o/trading-journal-cli"
	"github.com/tti6o/trading-journal-cli/binance"
	"github.com/tti6o/trading-journal-cli/config"
	"github.com/tti6o/trading-journal-cli/store"
)

// syncCmd pulls account trades from the exchange API into the ledger.
type syncCmd struct {
	days    int
	symbols string
	full    bool
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "sync account trades from the Binance API" }
func (*syncCmd) Usage() string {
	return `tj sync [-days <n>] [-symbols <a,b,...>] [-full]

  Fetches account trades since the last sync and appends them to the
  ledger. Which pairs are checked is resolved from the -symbols flag, the
  configuration, the pairs already in the ledger, the account balances,
  and finally a common-pair list, in that order. Requires API credentials
  in the configuration.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "Override the look-back window in days for the first sync")
	f.StringVar(&c.symbols, "symbols", "", "Comma-separated exchange pairs to sync")
	f.BoolVar(&c.full, "full", false, "Ignore the last sync watermark and fetch the whole history")
}

func (c *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	j, s, cfg, err := openJournal()
	if err != nil {
		return errExit(err)
	}
	defer s.Close()

	res, err := runSync(ctx, j, s, cfg, syncParams{
		days:    c.days,
		symbols: splitList(c.symbols),
		full:    c.full,
	})
	if err != nil {
		return errExit(err)
	}

	fmt.Printf("Sync complete: %d new, %d duplicate(s), %d rejected\n",
		res.Inserted, res.Duplicates, len(res.Rejected))
	if len(res.Touched) > 0 {
		fmt.Printf("Updated symbols: %s\n", strings.Join(res.Touched, ", "))
	}
	return subcommands.ExitSuccess
}

type syncParams struct {
	days    int
	symbols []string
	full    bool
}

// runSync is the shared sync pipeline used by both the sync command and the
// watch loop: resolve the window from the stored watermark, fetch, ingest,
// recompute the touched symbols, advance the watermark.
func runSync(ctx context.Context, j *journal.Journal, s *store.Store, cfg *config.Config, p syncParams) (journal.IngestResult, error) {
	if cfg.Binance.APIKey == "" || cfg.Binance.APISecret == "" {
		return journal.IngestResult{}, fmt.Errorf("binance API credentials are not configured")
	}
	client := binance.NewClient(cfg.Binance.APIKey, cfg.Binance.APISecret)

	since, err := syncWindow(s, cfg, p)
	if err != nil {
		return journal.IngestResult{}, err
	}

	known, err := s.Symbols()
	if err != nil {
		return journal.IngestResult{}, err
	}
	symbols := p.symbols
	if len(symbols) == 0 {
		symbols = cfg.Binance.Symbols
	}

	records, newest, err := client.FetchTrades(ctx, binance.SyncOptions{
		Symbols:      symbols,
		Since:        since,
		KnownSymbols: known,
	})
	if err != nil {
		return journal.IngestResult{}, err
	}

	res, err := j.Ingest(records)
	if err != nil {
		return res, err
	}
	for _, rej := range res.Rejected {
		fmt.Fprintf(os.Stderr, "Warning: rejected record: %v\n", rej.Reason)
	}
	if len(res.Touched) > 0 {
		if _, err := j.Recompute(res.Touched...); err != nil {
			return res, err
		}
	}

	if !newest.IsZero() {
		if err := s.SetMetadata(journal.LastSyncKey, newest.UTC().Format(time.RFC3339)); err != nil {
			return res, err
		}
	}
	return res, nil
}

// syncWindow resolves the lower time bound for a sync pass.
func syncWindow(s *store.Store, cfg *config.Config, p syncParams) (time.Time, error) {
	if p.full {
		return time.Time{}, nil
	}
	if p.days > 0 {
		return time.Now().UTC().AddDate(0, 0, -p.days), nil
	}
	if v, ok, err := s.Metadata(journal.LastSyncKey); err != nil {
		return time.Time{}, err
	} else if ok {
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad %s metadata %q: %w", journal.LastSyncKey, v, err)
		}
		// One second of overlap; duplicates are deduplicated anyway.
		return at.Add(-time.Second), nil
	}
	return time.Now().UTC().AddDate(0, 0, -cfg.Watch.InitialSyncDays), nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
