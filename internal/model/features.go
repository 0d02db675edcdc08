package model

import (
	"math"
	"time"
)

// FeatureVector maps indicator name to value for one (symbol, timestamp) row.
// A value may be NaN when there is not enough history; such rows must be
// excluded downstream, never zeroed.
type FeatureVector map[string]float64

// HasNaN reports whether any feature value is not a number.
func (fv FeatureVector) HasNaN() bool {
	for _, v := range fv {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// LabeledRow is a historical feature row with its swing-trade outcome label.
// Produced only over historical data with a known future window.
type LabeledRow struct {
	Symbol    string
	Timestamp time.Time
	Features  FeatureVector
	Label     int // 1 = profit target reached within horizon, 0 = not
}
