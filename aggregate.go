package journal

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Filter narrows a trade selection. Zero values mean "no constraint".
type Filter struct {
	Symbol string
	Since  time.Time
	Until  time.Time
	Side   Side
	Limit  int
}

// Match reports whether a trade satisfies the filter. Limit is a fetch
// concern and is ignored here.
func (f Filter) Match(t Trade) bool {
	if f.Symbol != "" && t.Symbol != f.Symbol {
		return false
	}
	if f.Side != "" && t.Side != f.Side {
		return false
	}
	if !f.Since.IsZero() && t.Time.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && t.Time.After(f.Until) {
		return false
	}
	return true
}

// ProfitFactor is the sum of winning PnL over the absolute sum of losing
// PnL. With no losing trades the ratio is undefined (infinite), which is a
// reportable state, not a division error.
type ProfitFactor struct {
	Ratio   decimal.Decimal
	Defined bool
}

func (p ProfitFactor) String() string {
	if !p.Defined {
		return "∞"
	}
	return p.Ratio.StringFixed(2)
}

// Holding is a per-symbol position snapshot derived from replay.
type Holding struct {
	Symbol      string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
	Value       decimal.Decimal // quantity at current average cost
}

// Summary aggregates a set of PnL-annotated trades into portfolio
// statistics. It is produced by Aggregate, which has no hidden state:
// identical inputs always yield an identical Summary.
type Summary struct {
	Trades int
	Buys   int
	Sells  int

	BoughtQuantity decimal.Decimal
	SoldQuantity   decimal.Decimal
	BuyVolume      decimal.Decimal // quote amount
	SellVolume     decimal.Decimal

	// RealizedPnL is the gross total over annotated SELL trades.
	RealizedPnL decimal.Decimal
	// FeeAdjustedPnL subtracts fees paid in the reference quote asset.
	// Trades with an unconverted fee contribute their gross PnL here and are
	// counted in UnconvertedFees instead of being silently mis-converted.
	FeeAdjustedPnL  decimal.Decimal
	Fees            decimal.Decimal // fees in the reference quote only
	UnconvertedFees int

	// Win rate over SELL trades that carry a PnL annotation.
	ScoredSells  int
	WinningSells int
	WinRate      float64

	ProfitFactor ProfitFactor

	Holdings []Holding

	From time.Time
	To   time.Time
}

// Aggregate reduces annotated trades into a Summary, honoring the optional
// filter. Holdings are rebuilt by replaying each selected symbol, so the
// reported average cost never depends on persisted state.
func Aggregate(table SynonymTable, trades []Trade, f Filter) Summary {
	var s Summary
	s.BoughtQuantity = decimal.Zero
	s.SoldQuantity = decimal.Zero
	s.BuyVolume = decimal.Zero
	s.SellVolume = decimal.Zero
	s.RealizedPnL = decimal.Zero
	s.FeeAdjustedPnL = decimal.Zero
	s.Fees = decimal.Zero

	wins, losses := decimal.Zero, decimal.Zero
	bySymbol := make(map[string][]Trade)

	for _, t := range trades {
		if !f.Match(t) {
			continue
		}
		s.Trades++
		if s.From.IsZero() || t.Time.Before(s.From) {
			s.From = t.Time
		}
		if t.Time.After(s.To) {
			s.To = t.Time
		}
		bySymbol[t.Symbol] = append(bySymbol[t.Symbol], t)

		switch t.Side {
		case Buy:
			s.Buys++
			s.BoughtQuantity = s.BoughtQuantity.Add(t.Quantity)
			s.BuyVolume = s.BuyVolume.Add(t.QuoteQuantity)
		case Sell:
			s.Sells++
			s.SoldQuantity = s.SoldQuantity.Add(t.Quantity)
			s.SellVolume = s.SellVolume.Add(t.QuoteQuantity)
		}

		if t.RealizedPnL == nil {
			continue
		}
		pnl := *t.RealizedPnL
		s.ScoredSells++
		s.RealizedPnL = s.RealizedPnL.Add(pnl)
		switch {
		case pnl.IsPositive():
			s.WinningSells++
			wins = wins.Add(pnl)
		case pnl.IsNegative():
			losses = losses.Add(pnl.Abs())
		}
		if t.FeeAdjustedPnL != nil {
			s.FeeAdjustedPnL = s.FeeAdjustedPnL.Add(*t.FeeAdjustedPnL)
			s.Fees = s.Fees.Add(pnl.Sub(*t.FeeAdjustedPnL))
		} else {
			s.FeeAdjustedPnL = s.FeeAdjustedPnL.Add(pnl)
			if t.UnconvertedFee {
				s.UnconvertedFees++
			}
		}
	}

	if s.ScoredSells > 0 {
		s.WinRate = float64(s.WinningSells) / float64(s.ScoredSells)
	}
	if losses.IsPositive() {
		s.ProfitFactor = ProfitFactor{Ratio: wins.Div(losses), Defined: true}
	}

	for symbol, symbolTrades := range bySymbol {
		res := Replay(table, symbolTrades)
		pos := res.Position
		if pos.Quantity.IsZero() {
			continue
		}
		s.Holdings = append(s.Holdings, Holding{
			Symbol:      symbol,
			Quantity:    pos.Quantity,
			AverageCost: pos.AverageCost,
			Value:       pos.Value(),
		})
	}
	slices.SortFunc(s.Holdings, func(a, b Holding) int {
		return strings.Compare(a.Symbol, b.Symbol)
	})

	return s
}
