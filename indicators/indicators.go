// Package indicators computes standard technical indicators over close
// price series. Inputs are plain float64 slices ordered oldest first; every
// function returns nil when the series is too short for the requested
// period.
package indicators

// SMA returns the simple moving average. The result has
// len(values)-period+1 points, aligned to the end of the input.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	out := make([]float64, 0, len(values)-period+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// EMA returns the exponential moving average, seeded with the SMA of the
// first period values.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	k := 2.0 / float64(period+1)
	var seed float64
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)

	out := make([]float64, 0, len(values)-period+1)
	out = append(out, seed)
	prev := seed
	for _, v := range values[period:] {
		prev = v*k + prev*(1-k)
		out = append(out, prev)
	}
	return out
}

// RSI returns the relative strength index in [0, 100], smoothed with an
// EMA of gains and losses.
func RSI(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period+1 {
		return nil
	}
	gains := make([]float64, len(values)-1)
	losses := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}
	avgGain := EMA(gains, period)
	avgLoss := EMA(losses, period)
	if avgGain == nil || avgLoss == nil {
		return nil
	}

	out := make([]float64, len(avgGain))
	for i := range avgGain {
		if avgLoss[i] == 0 {
			// No losses: saturated at 100, except a fully flat series which
			// has no momentum either way.
			if avgGain[i] == 0 {
				out[i] = 50
			} else {
				out[i] = 100
			}
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACDResult holds the three aligned MACD series.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD returns the moving average convergence divergence with the usual
// fast/slow/signal EMA construction. All three series share the same
// length and alignment.
func MACD(values []float64, fast, slow, signal int) *MACDResult {
	if fast <= 0 || slow <= fast || signal <= 0 || len(values) < slow+signal {
		return nil
	}
	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)

	offset := len(fastEMA) - len(slowEMA)
	macdLine := make([]float64, len(slowEMA))
	for i := range macdLine {
		macdLine[i] = fastEMA[i+offset] - slowEMA[i]
	}

	signalLine := EMA(macdLine, signal)
	if signalLine == nil {
		return nil
	}
	offset = len(macdLine) - len(signalLine)
	macdLine = macdLine[offset:]

	histogram := make([]float64, len(signalLine))
	for i := range histogram {
		histogram[i] = macdLine[i] - signalLine[i]
	}
	return &MACDResult{MACD: macdLine, Signal: signalLine, Histogram: histogram}
}
