package training

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SwingSentinel/internal/label"
	"SwingSentinel/internal/model"
	"SwingSentinel/internal/store"
)

func seedBars(t *testing.T, st *store.Store, symbol string, closes []float64) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		_, err := st.AppendBar(model.Bar{
			Symbol:    symbol,
			Timestamp: base.AddDate(0, 0, i),
			Open:      c, High: c * 1.01, Low: c * 0.99, Close: c,
			Volume: 1000,
		})
		require.NoError(t, err)
	}
}

func TestExport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "train.db"))
	require.NoError(t, err)
	defer st.Close()

	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	seedBars(t, st, "NSE:TCS-EQ", closes)

	out := filepath.Join(t.TempDir(), "training.csv")
	n, err := Export(st, label.Params{ProfitTarget: 0.03, StopLoss: 0.01, Horizon: 3}, out)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	// 40 bars, horizon 3: 36 labelable rows, minus row 0 (NaN Bollinger).
	assert.Equal(t, 35, n)
	require.Len(t, rows, n+1)
	assert.Equal(t, "symbol", rows[0][0])
	assert.Equal(t, "label", rows[0][len(rows[0])-1])
	assert.Equal(t, "NSE:TCS-EQ", rows[1][0])
}

func TestExport_EmptyStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer st.Close()

	out := filepath.Join(t.TempDir(), "training.csv")
	n, err := Export(st, label.Params{ProfitTarget: 0.03, Horizon: 3}, out)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = os.Stat(out)
	assert.NoError(t, err, "header-only file still committed")
}

func TestExport_InvalidParams(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "bad.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = Export(st, label.Params{}, filepath.Join(t.TempDir(), "x.csv"))
	assert.Error(t, err)
}
