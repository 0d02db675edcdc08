package scanner

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SwingSentinel/internal/collector"
	"SwingSentinel/internal/model"
	"SwingSentinel/internal/store"
)

type stubModel struct {
	feats []string
	score float64
	err   error
}

func (m stubModel) FeatureOrder() []string { return m.feats }
func (m stubModel) PredictProba([]float64) (float64, error) {
	return m.score, m.err
}

func newTestStore(t *testing.T, entries ...model.UniverseEntry) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "scan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	for _, e := range entries {
		require.NoError(t, s.AddUniverseEntry(e))
	}
	return s
}

func newScanner(t *testing.T, st *store.Store, f collector.Fetcher, m stubModel) *Scanner {
	t.Helper()
	return &Scanner{
		Fetcher:    f,
		Model:      m,
		Store:      st,
		Throttle:   NopThrottler{},
		BatchSize:  100,
		RecentDays: 30,
		OutputPath: filepath.Join(t.TempDir(), "out", "scan.csv"),
	}
}

func flatBars(symbol string, price float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := range bars {
		bars[i] = model.Bar{
			Symbol:    symbol,
			Timestamp: time.Now().AddDate(0, 0, -(count - i)),
			Open:      price, High: price, Low: price, Close: price,
			Volume: 1000,
		}
	}
	return bars
}

func TestRun_SkipsSymbolWithEmptyBars(t *testing.T) {
	st := newTestStore(t,
		model.UniverseEntry{Symbol: "TCS", Exchange: "NSE"},
		model.UniverseEntry{Symbol: "INFY", Exchange: "NSE"},
	)
	fetcher := &collector.MockFetcher{
		Quotes: map[string]model.Quote{
			"NSE:TCS-EQ":  {Symbol: "NSE:TCS-EQ", LastPrice: 3500, Volume: 10000},
			"NSE:INFY-EQ": {Symbol: "NSE:INFY-EQ", LastPrice: 1500, Volume: 20000},
		},
		Bars: map[string][]model.Bar{
			// INFY quote is fine but bars are missing entirely
			"NSE:TCS-EQ": collector.GenerateBars("NSE:TCS-EQ", 3500, 30),
		},
	}
	sc := newScanner(t, st, fetcher, stubModel{feats: []string{"RSI14"}, score: 0.7})

	records, err := sc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1, "symbol with empty bar fetch must appear zero times")
	assert.Equal(t, "NSE:TCS-EQ", records[0].Symbol)
}

func TestRun_SkipsInsufficientHistory(t *testing.T) {
	st := newTestStore(t, model.UniverseEntry{Symbol: "TCS", Exchange: "NSE"})
	fetcher := &collector.MockFetcher{
		Quotes: map[string]model.Quote{"NSE:TCS-EQ": {LastPrice: 3500}},
		Bars:   map[string][]model.Bar{"NSE:TCS-EQ": collector.GenerateBars("NSE:TCS-EQ", 3500, 5)},
	}
	sc := newScanner(t, st, fetcher, stubModel{feats: []string{"RSI14"}, score: 0.7})

	records, err := sc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRun_TargetPriceFloor(t *testing.T) {
	// Flat bars: ATR is exactly zero, and the stub score is tiny. The target
	// must still sit 2% above the live price.
	st := newTestStore(t, model.UniverseEntry{Symbol: "TCS", Exchange: "NSE"})
	fetcher := &collector.MockFetcher{
		Quotes: map[string]model.Quote{"NSE:TCS-EQ": {LastPrice: 100, Volume: 500}},
		Bars:   map[string][]model.Bar{"NSE:TCS-EQ": flatBars("NSE:TCS-EQ", 100, 25)},
	}
	sc := newScanner(t, st, fetcher, stubModel{feats: []string{"RSI14"}, score: 0.01})

	records, err := sc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 102.0, records[0].TargetPrice, 1e-9)
}

func TestRun_InferenceFailureScoresZero(t *testing.T) {
	st := newTestStore(t, model.UniverseEntry{Symbol: "TCS", Exchange: "NSE"})
	fetcher := &collector.MockFetcher{
		Quotes: map[string]model.Quote{"NSE:TCS-EQ": {LastPrice: 3500}},
		Bars:   map[string][]model.Bar{"NSE:TCS-EQ": collector.GenerateBars("NSE:TCS-EQ", 3500, 30)},
	}
	sc := newScanner(t, st, fetcher, stubModel{feats: []string{"RSI14"}, err: assert.AnError})

	records, err := sc.Run(context.Background())
	require.NoError(t, err, "inference failure must not abort the cycle")
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, records[0].Score)
}

func TestRun_SortedByScoreDescending(t *testing.T) {
	st := newTestStore(t,
		model.UniverseEntry{Symbol: "AAA", Exchange: "NSE"},
		model.UniverseEntry{Symbol: "BBB", Exchange: "NSE"},
		model.UniverseEntry{Symbol: "CCC", Exchange: "NSE"},
	)
	fetcher := &collector.MockFetcher{
		Quotes: map[string]model.Quote{
			"NSE:AAA-EQ": {LastPrice: 100},
			"NSE:BBB-EQ": {LastPrice: 200},
			"NSE:CCC-EQ": {LastPrice: 300},
		},
		Bars: map[string][]model.Bar{
			"NSE:AAA-EQ": collector.GenerateBars("NSE:AAA-EQ", 100, 30),
			"NSE:BBB-EQ": collector.GenerateBars("NSE:BBB-EQ", 200, 30),
			"NSE:CCC-EQ": collector.GenerateBars("NSE:CCC-EQ", 300, 30),
		},
	}
	// Equal scores: the stable sort must keep universe scan order.
	sc := newScanner(t, st, fetcher, stubModel{feats: []string{"RSI14"}, score: 0.6})

	records, err := sc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "NSE:AAA-EQ", records[0].Symbol)
	assert.Equal(t, "NSE:BBB-EQ", records[1].Symbol)
	assert.Equal(t, "NSE:CCC-EQ", records[2].Symbol)
}

func TestRun_WritesAtomicArtifact(t *testing.T) {
	st := newTestStore(t, model.UniverseEntry{Symbol: "TCS", Exchange: "NSE"})
	fetcher := &collector.MockFetcher{
		Quotes: map[string]model.Quote{"NSE:TCS-EQ": {LastPrice: 3500, Volume: 9000}},
		Bars:   map[string][]model.Bar{"NSE:TCS-EQ": collector.GenerateBars("NSE:TCS-EQ", 3500, 30)},
	}
	sc := newScanner(t, st, fetcher, stubModel{feats: []string{"RSI14", "MACD_hist"}, score: 0.8})

	_, err := sc.Run(context.Background())
	require.NoError(t, err)

	f, err := os.Open(sc.OutputPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"symbol", "price", "score", "target_price", "volume", "RSI14", "MACD_hist"}, rows[0])
	assert.Equal(t, "NSE:TCS-EQ", rows[1][0])
}

func TestRun_EmptyCycleWritesHeaderOnly(t *testing.T) {
	st := newTestStore(t, model.UniverseEntry{Symbol: "TCS", Exchange: "NSE"})
	fetcher := &collector.MockFetcher{} // no quotes at all
	sc := newScanner(t, st, fetcher, stubModel{feats: []string{"RSI14"}, score: 0.8})

	records, err := sc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	f, err := os.Open(sc.OutputPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1, "no-picks state is a header-only artifact, not a missing file")
}

func TestIngestDaily_Dedup(t *testing.T) {
	st := newTestStore(t, model.UniverseEntry{Symbol: "TCS", Exchange: "NSE"})
	day := time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)
	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.Bar{
			"NSE:TCS-EQ": {{Symbol: "NSE:TCS-EQ", Timestamp: day, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 4000}},
		},
	}
	sc := newScanner(t, st, fetcher, stubModel{feats: []string{"RSI14"}})

	n, err := sc.IngestDaily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// second run appends nothing
	n, err = sc.IngestDaily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	bars, err := st.BarsFor("NSE:TCS-EQ")
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}
