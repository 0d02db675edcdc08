package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabels_ExactTargetWithinHorizon(t *testing.T) {
	closes := []float64{100, 101, 103, 99, 97}
	p := Params{ProfitTarget: 0.03, StopLoss: 0.01, Horizon: 3}

	labels, err := Labels(closes, p)
	require.NoError(t, err)

	// Row 0: max close 103 within horizon is exactly +3% -> 1.
	// Row 1 onward: insufficient lookahead, excluded from output, not labeled 0.
	require.Len(t, labels, 1)
	assert.Equal(t, 1, labels[0])
}

func TestLabels_TargetNotReached(t *testing.T) {
	closes := []float64{100, 100.5, 101, 100, 99, 98}
	labels, err := Labels(closes, Params{ProfitTarget: 0.03, Horizon: 3})
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, []int{0, 0}, labels)
}

func TestLabels_ShortSeriesYieldsNothing(t *testing.T) {
	labels, err := Labels([]float64{100, 103}, Params{ProfitTarget: 0.03, Horizon: 3})
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestLabels_InvalidParams(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"zero target", Params{ProfitTarget: 0, Horizon: 3}},
		{"negative stop", Params{ProfitTarget: 0.03, StopLoss: -0.01, Horizon: 3}},
		{"zero horizon", Params{ProfitTarget: 0.03, Horizon: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Labels([]float64{100, 101, 102, 103, 104}, tt.p)
			assert.Error(t, err)
		})
	}
}

func TestLabels_StopLossAcceptedButNotApplied(t *testing.T) {
	// Price dips below the stop before reaching the target. The current
	// profit-only policy still labels this 1.
	closes := []float64{100, 95, 104, 100, 100, 100}
	labels, err := Labels(closes, Params{ProfitTarget: 0.03, StopLoss: 0.01, Horizon: 3})
	require.NoError(t, err)
	require.NotEmpty(t, labels)
	assert.Equal(t, 1, labels[0])
}
