package journal

import (
	"time"
)

// Store is the persistence contract the engine relies on. Implementations
// must make AppendIfAbsent atomic with respect to id uniqueness: the engine
// assumes a single-writer ledger and does not serialize concurrent callers
// itself.
type Store interface {
	// AppendIfAbsent stores the trade unless its id already exists, in which
	// case it reports inserted=false and leaves the stored trade untouched.
	AppendIfAbsent(t Trade) (inserted bool, err error)
	// FetchOrdered returns trades matching the filter in ascending
	// (time, id) order.
	FetchOrdered(f Filter) ([]Trade, error)
	// PersistPnL writes the one-time replay annotation for a trade.
	PersistPnL(id string, step Step) error
}

// MetadataStore is implemented by stores that can keep application-level
// key/value state, such as the last API sync timestamp.
type MetadataStore interface {
	SetMetadata(key, value string) error
	Metadata(key string) (string, bool, error)
}

// LastSyncKey is the metadata key holding the timestamp of the last
// successful exchange API sync, RFC 3339.
const LastSyncKey = "last_sync_timestamp"

// IngestResult is the structured outcome of a batch ingestion. Per-record
// validation failures land in Rejected; only storage failures abort the
// batch and surface as an error from Ingest.
type IngestResult struct {
	Inserted   int
	Duplicates int
	Rejected   []RecordError
	Warnings   []string

	// Symbols touched by newly inserted trades; the set of symbols whose
	// PnL must be recomputed.
	Touched []string
}

// normalize converts a raw record into a canonical, id-stamped Trade.
func normalize(table SynonymTable, raw RawTradeRecord) (Trade, error) {
	symbol, err := table.Normalize(raw.Pair)
	if err != nil {
		return Trade{}, err
	}
	side, err := ParseSide(raw.Side)
	if err != nil {
		return Trade{}, err
	}
	t := Trade{
		Time:          raw.Time.UTC().Truncate(time.Second),
		Symbol:        symbol,
		Side:          side,
		Price:         raw.Price,
		Quantity:      raw.Quantity,
		QuoteQuantity: raw.QuoteQuantity,
		Fee:           raw.Fee,
		FeeCurrency:   table.NormalizeAsset(raw.FeeCurrency),
		Source:        raw.Source,
	}
	if err := t.Validate(); err != nil {
		return Trade{}, err
	}
	return stampID(t), nil
}
