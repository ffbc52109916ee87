package journal

import (
	"github.com/shopspring/decimal"
)

// Position is the running weighted-average-cost state for one symbol. It is
// transient: never persisted, always reconstructible by replaying the
// symbol's trade history from the beginning.
type Position struct {
	Symbol      string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
}

// Value returns the holding value at current average cost.
func (p Position) Value() decimal.Decimal {
	return p.Quantity.Mul(p.AverageCost)
}

// Step records the outcome of replaying a single trade: the PnL annotation
// for that trade and the position state immediately after it.
type Step struct {
	Trade Trade

	// RealizedPnL is gross of fees; nil for BUY trades.
	RealizedPnL *decimal.Decimal
	// FeeAdjustedPnL is RealizedPnL minus the fee when the fee currency
	// normalizes to the reference quote; nil otherwise.
	FeeAdjustedPnL *decimal.Decimal
	ShortPosition  bool
	UnconvertedFee bool

	// Position state after this trade.
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
}

// ReplayResult is the outcome of replaying one symbol's trade history.
type ReplayResult struct {
	Position Position
	Steps    []Step
	// Rejected lists trades that failed validation. They do not contribute
	// to the position and do not abort the replay of the remaining trades.
	Rejected []RecordError
}

// Annotated returns the input trades with their replay annotations applied,
// in replay order.
func (r ReplayResult) Annotated() []Trade {
	trades := make([]Trade, 0, len(r.Steps))
	for _, s := range r.Steps {
		t := s.Trade
		t.RealizedPnL = s.RealizedPnL
		t.FeeAdjustedPnL = s.FeeAdjustedPnL
		t.ShortPosition = s.ShortPosition
		t.UnconvertedFee = s.UnconvertedFee
		trades = append(trades, t)
	}
	return trades
}

// Replay folds one symbol's trades, in ascending (time, id) order, through
// the weighted-average-cost state machine starting at (0, 0):
//
//	BUY:  averageCost = (qty·avg + q·price) / (qty + q); qty += q
//	SELL: realizedPnL = (price − averageCost) × q; qty −= q; avg unchanged
//
// A sell beyond recorded holdings is not clamped: PnL is computed on the
// full requested quantity against the current average cost, the step is
// flagged ShortPosition, and the negative running quantity is preserved.
//
// Replay is deterministic and pure: replaying the same trades always yields
// bit-identical annotations. Callers never feed it a persisted position to
// resume from; incremental recomputation re-replays the touched symbol's
// full history, which is what makes incremental and batch passes agree.
func Replay(table SynonymTable, trades []Trade) ReplayResult {
	ordered := make([]Trade, len(trades))
	copy(ordered, trades)
	SortTrades(ordered)

	var res ReplayResult
	qty, avg := decimal.Zero, decimal.Zero

	for _, t := range ordered {
		if err := t.Validate(); err != nil {
			res.Rejected = append(res.Rejected, RecordError{Record: rawOf(t), Reason: err})
			continue
		}
		res.Position.Symbol = t.Symbol

		step := Step{Trade: t}
		switch t.Side {
		case Buy:
			total := qty.Mul(avg).Add(t.Quantity.Mul(t.Price))
			qty = qty.Add(t.Quantity)
			if !qty.IsZero() {
				avg = total.Div(qty)
			}
		case Sell:
			pnl := t.Price.Sub(avg).Mul(t.Quantity)
			step.RealizedPnL = &pnl
			if t.Quantity.GreaterThan(qty) {
				step.ShortPosition = true
			}
			qty = qty.Sub(t.Quantity)

			if table.NormalizeAsset(t.FeeCurrency) == table.Reference() {
				adj := pnl.Sub(t.Fee)
				step.FeeAdjustedPnL = &adj
			} else if !t.Fee.IsZero() {
				step.UnconvertedFee = true
			}
		}
		step.Quantity = qty
		step.AverageCost = avg
		res.Steps = append(res.Steps, step)
	}

	res.Position.Quantity = qty
	res.Position.AverageCost = avg
	return res
}

// rawOf rebuilds a raw record view of a trade for error reporting.
func rawOf(t Trade) RawTradeRecord {
	return RawTradeRecord{
		Time:          t.Time,
		Pair:          t.Symbol,
		Side:          string(t.Side),
		Price:         t.Price,
		Quantity:      t.Quantity,
		QuoteQuantity: t.QuoteQuantity,
		Fee:           t.Fee,
		FeeCurrency:   t.FeeCurrency,
		Source:        t.Source,
	}
}
