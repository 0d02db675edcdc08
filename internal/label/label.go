// Package label assigns swing-trade outcome labels to historical rows using a
// forward lookahead window over each symbol's close series.
package label

import "fmt"

// Params controls the labeling pass.
//
// StopLoss is accepted and validated but not currently applied: whether a
// first-touch stop should override a later profit hit is an open product
// decision, so labeling remains profit-only for now.
type Params struct {
	ProfitTarget float64 // fraction, e.g. 0.03 for +3%
	StopLoss     float64 // fraction, reserved
	Horizon      int     // forward trading days considered
}

// Validate checks the parameters.
func (p Params) Validate() error {
	if p.ProfitTarget <= 0 {
		return fmt.Errorf("profit target must be positive, got %v", p.ProfitTarget)
	}
	if p.StopLoss < 0 {
		return fmt.Errorf("stop loss must not be negative, got %v", p.StopLoss)
	}
	if p.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", p.Horizon)
	}
	return nil
}

// Labels assigns a binary label to each labelable row of one symbol's ordered
// close series: 1 when the maximum close over rows (i+1 .. i+Horizon) returns
// at least ProfitTarget relative to closes[i], else 0.
//
// Rows within Horizon of the end of the series have insufficient lookahead
// and are excluded entirely (the returned slice is shorter than the input),
// never defaulted to 0.
func Labels(closes []float64, p Params) ([]int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	labelable := len(closes) - 1 - p.Horizon
	if labelable <= 0 {
		return nil, nil
	}

	out := make([]int, labelable)
	for i := 0; i < labelable; i++ {
		entry := closes[i]
		maxClose := closes[i+1]
		for j := i + 2; j <= i+p.Horizon; j++ {
			if closes[j] > maxClose {
				maxClose = closes[j]
			}
		}
		if entry > 0 && (maxClose-entry)/entry >= p.ProfitTarget {
			out[i] = 1
		}
	}
	return out, nil
}
