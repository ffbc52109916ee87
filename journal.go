package journal

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Journal ties the normalizer, the identity hasher and the replay engine to
// a Store. It owns no file format or wire protocol; collaborators feed it
// RawTradeRecord values and consume its result structures.
type Journal struct {
	store Store
	table SynonymTable
}

// Option configures a Journal.
type Option func(*Journal)

// WithSynonyms replaces the default stablecoin synonym table.
func WithSynonyms(table SynonymTable) Option {
	return func(j *Journal) { j.table = table }
}

// New creates a Journal over the given store.
func New(store Store, opts ...Option) *Journal {
	j := &Journal{store: store, table: DefaultSynonyms()}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Synonyms returns the synonym table in use.
func (j *Journal) Synonyms() SynonymTable { return j.table }

// Ingest normalizes, validates, identity-stamps and stores a batch of raw
// records. Re-ingesting a record whose derived id already exists is a no-op
// reported as a duplicate; the previously stored trade stays authoritative.
// A malformed record is rejected individually and does not abort the batch;
// a storage failure does.
func (j *Journal) Ingest(records []RawTradeRecord) (IngestResult, error) {
	var res IngestResult
	touched := make(map[string]bool)

	for _, raw := range records {
		t, err := normalize(j.table, raw)
		if err != nil {
			res.Rejected = append(res.Rejected, RecordError{Record: raw, Reason: err})
			continue
		}
		inserted, err := j.store.AppendIfAbsent(t)
		if err != nil {
			return res, fmt.Errorf("ledger append failed: %w", err)
		}
		if !inserted {
			res.Duplicates++
			continue
		}
		res.Inserted++
		touched[t.Symbol] = true

		if t.Side == Sell && !t.Fee.IsZero() && t.FeeCurrency != j.table.Reference() {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("trade %s: fee paid in %s will not be converted", t.ID, t.FeeCurrency))
		}
	}

	res.Touched = slices.Sorted(maps.Keys(touched))
	return res, nil
}

// Recompute replays the given symbols and persists the resulting PnL
// annotations. With no symbols it recomputes the whole ledger. Every replay
// starts from the beginning of the symbol's history, so a full batch pass
// and an incremental pass over freshly touched symbols write identical
// values.
func (j *Journal) Recompute(symbols ...string) ([]RecordError, error) {
	if len(symbols) == 0 {
		all, err := j.Symbols()
		if err != nil {
			return nil, err
		}
		symbols = all
	}

	var rejected []RecordError
	for _, symbol := range symbols {
		trades, err := j.store.FetchOrdered(Filter{Symbol: symbol})
		if err != nil {
			return rejected, fmt.Errorf("fetch %s: %w", symbol, err)
		}
		res := Replay(j.table, trades)
		rejected = append(rejected, res.Rejected...)
		for _, step := range res.Steps {
			if step.Trade.Side != Sell {
				continue
			}
			if err := j.store.PersistPnL(step.Trade.ID, step); err != nil {
				return rejected, fmt.Errorf("persist pnl for %s: %w", step.Trade.ID, err)
			}
		}
	}
	return rejected, nil
}

// Trades returns stored trades matching the filter, in replay order.
func (j *Journal) Trades(f Filter) ([]Trade, error) {
	return j.store.FetchOrdered(f)
}

// Symbols lists the canonical symbols present in the ledger.
func (j *Journal) Symbols() ([]string, error) {
	trades, err := j.store.FetchOrdered(Filter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, t := range trades {
		seen[t.Symbol] = true
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

// Summary aggregates the (optionally filtered) ledger.
func (j *Journal) Summary(f Filter) (Summary, error) {
	fetch := f
	fetch.Limit = 0
	trades, err := j.store.FetchOrdered(fetch)
	if err != nil {
		return Summary{}, err
	}
	return Aggregate(j.table, trades, f), nil
}

// AssetReport summarizes every symbol whose base asset matches, e.g. "XRP"
// covers XRPUSDT after normalization. The returned trades are annotated and
// in replay order.
func (j *Journal) AssetReport(base string) (Summary, []Trade, error) {
	all, err := j.store.FetchOrdered(Filter{})
	if err != nil {
		return Summary{}, nil, err
	}
	want := strings.ToUpper(strings.TrimSpace(base))
	var selected []Trade
	for _, t := range all {
		if j.table.BaseAsset(t.Symbol) == want {
			selected = append(selected, t)
		}
	}
	if len(selected) == 0 {
		return Summary{}, nil, fmt.Errorf("no trades recorded for asset %q", base)
	}
	SortTrades(selected)
	return Aggregate(j.table, selected, Filter{}), selected, nil
}
