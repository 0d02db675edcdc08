package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_RoundTrip(t *testing.T) {
	path := writeModel(t, `{"features":["RSI14","MACD_hist"],"weights":[0.5,-1.0],"bias":0.1}`)
	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"RSI14", "MACD_hist"}, m.FeatureOrder())

	p, err := m.PredictProba([]float64{0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.525, p, 0.001) // sigmoid(0.1)
}

func TestLoad_ShapeMismatch(t *testing.T) {
	path := writeModel(t, `{"features":["RSI14"],"weights":[0.5,-1.0]}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EmptyFeatures(t *testing.T) {
	path := writeModel(t, `{"features":[],"weights":[]}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestPredictProba_Bounds(t *testing.T) {
	m := &LinearModel{Features: []string{"x"}, Weights: []float64{10}}

	hi, err := m.PredictProba([]float64{100})
	require.NoError(t, err)
	assert.Greater(t, hi, 0.999)
	assert.LessOrEqual(t, hi, 1.0)

	lo, err := m.PredictProba([]float64{-100})
	require.NoError(t, err)
	assert.Less(t, lo, 0.001)
	assert.GreaterOrEqual(t, lo, 0.0)
}

func TestPredictProba_WrongLength(t *testing.T) {
	m := &LinearModel{Features: []string{"x"}, Weights: []float64{1}}
	_, err := m.PredictProba([]float64{1, 2})
	assert.Error(t, err)
}
