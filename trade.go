package journal

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// ParseSide parses a side string case-insensitively.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", newValidationError("side", fmt.Sprintf("unknown side %q", s))
	}
}

// RawTradeRecord is a trade tuple as supplied by a source (spreadsheet
// export, exchange API). It is transient: normalization turns it into a
// Trade and the raw record is discarded.
type RawTradeRecord struct {
	Time          time.Time
	Pair          string // "XRPFDUSD" or "XRP/FDUSD", pre-normalization
	Side          string
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	QuoteQuantity decimal.Decimal
	Fee           decimal.Decimal
	FeeCurrency   string
	Source        string // passthrough data-source tag, e.g. "excel", "binance-api"
}

// Trade is the canonical ledger entity. Once stored it is immutable except
// for the one-time PnL annotation written back after a replay pass.
type Trade struct {
	ID            string    // content hash, unique across the ledger
	Time          time.Time // UTC
	Symbol        string    // canonical, stablecoin synonyms collapsed
	Side          Side
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	QuoteQuantity decimal.Decimal
	Fee           decimal.Decimal
	FeeCurrency   string
	Source        string

	// RealizedPnL is nil for BUY trades and for SELL trades that have not
	// been through a replay pass yet.
	RealizedPnL *decimal.Decimal
	// FeeAdjustedPnL is RealizedPnL minus the fee, present only when the fee
	// currency normalizes to the reference quote asset.
	FeeAdjustedPnL *decimal.Decimal
	ShortPosition  bool // the sell exceeded recorded holdings at replay time
	UnconvertedFee bool // fee paid in a currency outside the synonym table
}

// Validate checks the ledger invariants on a single trade.
func (t Trade) Validate() error {
	if t.Symbol == "" {
		return newValidationError("symbol", "empty symbol")
	}
	if t.Side != Buy && t.Side != Sell {
		return newValidationError("side", fmt.Sprintf("unknown side %q", t.Side))
	}
	if t.Time.IsZero() {
		return newValidationError("time", "zero timestamp")
	}
	if !t.Quantity.IsPositive() {
		return newValidationError("quantity", "quantity must be > 0, got "+t.Quantity.String())
	}
	if t.Price.IsNegative() {
		return newValidationError("price", "price must be >= 0, got "+t.Price.String())
	}
	return nil
}

// compareTrades orders trades ascending by (time, id); the id is a
// deterministic tiebreak so replay order is total and reproducible.
func compareTrades(a, b Trade) int {
	if c := a.Time.Compare(b.Time); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// SortTrades sorts trades in replay order, ascending (time, id).
func SortTrades(trades []Trade) {
	slices.SortFunc(trades, compareTrades)
}
