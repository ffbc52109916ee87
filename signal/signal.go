// Package signal grades a close price series into a simple trading signal.
// It exists to feed the watch loop's notifications; it is advisory output,
// not an order router.
package signal

import (
	"fmt"
	"strings"

	"github.com/tti6o/trading-journal-cli/indicators"
)

// Action is the graded direction of a signal.
type Action string

const (
	Buy     Action = "BUY"
	Sell    Action = "SELL"
	Neutral Action = "NEUTRAL"
)

// Default indicator parameters.
const (
	rsiPeriod  = 14
	smaPeriod  = 20
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// RSI thresholds.
const (
	rsiOversold   = 30
	rsiOverbought = 70
)

// Signal is the graded outcome for one symbol.
type Signal struct {
	Symbol     string
	Action     Action
	Confidence float64 // 0..1, share of indicators agreeing
	Reasons    []string
	RSI        float64
	LastClose  float64
}

// String renders a one-line human-readable form.
func (s Signal) String() string {
	return fmt.Sprintf("%s %s (%.0f%%): %s", s.Symbol, s.Action, s.Confidence*100, strings.Join(s.Reasons, "; "))
}

// MinBars is the minimum close series length Evaluate needs.
const MinBars = macdSlow + macdSignal

// Evaluate grades a close price series, oldest first. Three votes are
// cast: RSI extremes, MACD histogram sign, and price versus its SMA. The
// majority direction wins; confidence is the agreeing share.
func Evaluate(symbol string, closes []float64) (Signal, error) {
	if len(closes) < MinBars {
		return Signal{}, fmt.Errorf("need at least %d closes for %s, got %d", MinBars, symbol, len(closes))
	}
	last := closes[len(closes)-1]
	sig := Signal{Symbol: symbol, Action: Neutral, LastClose: last}

	var buy, sell int

	rsi := indicators.RSI(closes, rsiPeriod)
	sig.RSI = rsi[len(rsi)-1]
	switch {
	case sig.RSI <= rsiOversold:
		buy++
		sig.Reasons = append(sig.Reasons, fmt.Sprintf("RSI %.1f oversold", sig.RSI))
	case sig.RSI >= rsiOverbought:
		sell++
		sig.Reasons = append(sig.Reasons, fmt.Sprintf("RSI %.1f overbought", sig.RSI))
	}

	if macd := indicators.MACD(closes, macdFast, macdSlow, macdSignal); macd != nil {
		hist := macd.Histogram[len(macd.Histogram)-1]
		if hist > 0 {
			buy++
			sig.Reasons = append(sig.Reasons, "MACD above signal")
		} else if hist < 0 {
			sell++
			sig.Reasons = append(sig.Reasons, "MACD below signal")
		}
	}

	if sma := indicators.SMA(closes, smaPeriod); sma != nil {
		mean := sma[len(sma)-1]
		if last > mean {
			buy++
			sig.Reasons = append(sig.Reasons, fmt.Sprintf("price above SMA%d", smaPeriod))
		} else if last < mean {
			sell++
			sig.Reasons = append(sig.Reasons, fmt.Sprintf("price below SMA%d", smaPeriod))
		}
	}

	switch {
	case buy > sell:
		sig.Action = Buy
		sig.Confidence = float64(buy) / 3
	case sell > buy:
		sig.Action = Sell
		sig.Confidence = float64(sell) / 3
	default:
		sig.Reasons = append(sig.Reasons, "indicators disagree")
	}
	return sig, nil
}
