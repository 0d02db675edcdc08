package feature

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"SwingSentinel/internal/model"
)

// MinBars is the minimum history the engine needs before it will emit a
// feature vector for live scanning (bounded by the 20-period Bollinger window).
const MinBars = 20

// epsilon guards divisions against zero denominators.
const epsilon = 1e-8

// liveWindow is the trailing span used for quote-relative features.
const liveWindow = 14

func extractCloses(bars []model.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// EMA computes the exponential moving average with alpha = 2/(span+1),
// seeded with the first value (no warm-up bias correction).
func EMA(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// rollingMean computes a trailing-window mean with a minimum-periods policy of 1:
// before the window fills, whatever history exists is averaged.
func rollingMean(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		out[i] = stat.Mean(xs[start:i+1], nil)
	}
	return out
}

// rollingStd computes a trailing-window sample standard deviation.
// A single observation has no sample deviation, so the first value is NaN.
func rollingStd(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		out[i] = stat.StdDev(xs[start:i+1], nil)
	}
	return out
}

// RSI computes the relative strength index over the given period, averaging
// positive and negative deltas separately with a minimum-periods policy.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	ups := make([]float64, n)
	downs := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			ups[i] = delta
		} else {
			downs[i] = -delta
		}
	}
	rollUp := rollingMean(ups, period)
	rollDown := rollingMean(downs, period)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		rs := rollUp[i] / (rollDown[i] + epsilon)
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// trueRange computes TR = max(high-low, |high-prevClose|, |low-prevClose|).
// The first bar has no previous close and uses high-low only.
func trueRange(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		tr := b.High - b.Low
		if i > 0 {
			prev := bars[i-1].Close
			tr = math.Max(tr, math.Max(math.Abs(b.High-prev), math.Abs(b.Low-prev)))
		}
		out[i] = tr
	}
	return out
}

// OBV computes on-balance volume as a strict left-to-right fold starting at 0.
// The value is path-dependent on the entire supplied sequence.
func OBV(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// Table computes the per-row indicator table for one symbol's full ordered
// bar history. Rows with insufficient history carry NaN values and must be
// excluded downstream.
func Table(bars []model.Bar) []model.FeatureVector {
	n := len(bars)
	if n == 0 {
		return nil
	}
	closes := extractCloses(bars)

	ema5 := EMA(closes, 5)
	ema20 := EMA(closes, 20)
	rsi14 := RSI(closes, 14)
	ema12 := EMA(closes, 12)
	ema26 := EMA(closes, 26)
	macd := make([]float64, n)
	for i := range macd {
		macd[i] = ema12[i] - ema26[i]
	}
	macdSig := EMA(macd, 9)
	ma20 := rollingMean(closes, 20)
	std20 := rollingStd(closes, 20)
	atr14 := rollingMean(trueRange(bars), 14)
	obv := OBV(bars)

	rows := make([]model.FeatureVector, n)
	for i := 0; i < n; i++ {
		upper := ma20[i] + 2*std20[i]
		lower := ma20[i] - 2*std20[i]
		rows[i] = model.FeatureVector{
			"open":         bars[i].Open,
			"high":         bars[i].High,
			"low":          bars[i].Low,
			"close":        bars[i].Close,
			"volume":       bars[i].Volume,
			"EMA5":         ema5[i],
			"EMA20":        ema20[i],
			"EMA_diff":     ema5[i] - ema20[i],
			"RSI14":        rsi14[i],
			"MACD":         macd[i],
			"MACD_sig":     macdSig[i],
			"MACD_hist":    macd[i] - macdSig[i],
			"BB_upper":     upper,
			"BB_lower":     lower,
			"BB_%B":        (closes[i] - lower) / (upper - lower + epsilon),
			"BB_bandwidth": (upper - lower) / (ma20[i] + epsilon),
			"ATR14":        atr14[i],
			"OBV":          obv[i],
		}
	}
	return rows
}

// Latest returns the feature vector for the most recent bar, or nil when the
// window holds fewer than MinBars bars. OBV in the result is relative to the
// start of the supplied sequence.
func Latest(bars []model.Bar) model.FeatureVector {
	if len(bars) < MinBars {
		return nil
	}
	rows := Table(bars)
	return rows[len(rows)-1]
}

// LiveFeatures computes the quote-relative features over a trailing window of
// recent bars: ATR%, price change vs. the preceding session close, and VWAP
// distance. Empty windows and zero-volume windows yield 0, not NaN.
func LiveFeatures(q model.Quote, bars []model.Bar) model.FeatureVector {
	fv := model.FeatureVector{
		"price":            q.LastPrice,
		"volume":           q.Volume,
		"atp":              q.AvgTradedPrice,
		"atr_pct":          0,
		"price_change_pct": 0,
		"vwap_distance":    0,
	}

	window := bars
	if len(window) > liveWindow {
		window = window[len(window)-liveWindow:]
	}
	if len(window) > 0 {
		hi := math.Inf(-1)
		lo := math.Inf(1)
		var closeSum float64
		for _, b := range window {
			hi = math.Max(hi, b.High)
			lo = math.Min(lo, b.Low)
			closeSum += b.Close
		}
		if mean := closeSum / float64(len(window)); mean != 0 {
			fv["atr_pct"] = (hi - lo) / mean * 100
		}

		var pvSum, volSum float64
		for _, b := range window {
			typical := (b.High + b.Low + b.Close) / 3
			pvSum += typical * b.Volume
			volSum += b.Volume
		}
		if volSum != 0 {
			if vwap := pvSum / volSum; vwap != 0 {
				fv["vwap_distance"] = (q.LastPrice - vwap) / vwap
			}
		}
	}

	if len(bars) >= 2 {
		if prev := bars[len(bars)-2].Close; prev != 0 {
			fv["price_change_pct"] = (q.LastPrice - prev) / prev * 100
		}
	}
	return fv
}
