package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SwingSentinel/internal/collector"
	"SwingSentinel/internal/model"
	"SwingSentinel/internal/picker"
	"SwingSentinel/internal/scanner"
	"SwingSentinel/internal/store"
)

type countingThrottler struct {
	symbols int
	batches int
}

func (c *countingThrottler) AfterSymbol(context.Context) { c.symbols++ }
func (c *countingThrottler) AfterBatch(context.Context)  { c.batches++ }

func TestRefetchLive_PacedByThrottler(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "sched.db"))
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.OpenRecord("NSE:AAA-EQ", 100, 110, time.Now()))
	require.NoError(t, st.OpenRecord("NSE:BBB-EQ", 200, 210, time.Now()))

	fetcher := &collector.MockFetcher{
		Quotes: map[string]model.Quote{
			"NSE:AAA-EQ": {Symbol: "NSE:AAA-EQ", LastPrice: 101},
			"NSE:BBB-EQ": {Symbol: "NSE:BBB-EQ", LastPrice: 201},
			"NSE:CCC-EQ": {Symbol: "NSE:CCC-EQ", LastPrice: 301},
		},
	}
	th := &countingThrottler{}
	sc := &scanner.Scanner{
		Fetcher:    fetcher,
		Store:      st,
		Throttle:   th,
		BatchSize:  100,
		RecentDays: 30,
	}

	hours, err := NewMarketHours("Asia/Kolkata", "09:15", "15:30", true)
	require.NoError(t, err)
	sched := NewScheduler(context.Background(), sc, st, fetcher, hours, picker.DefaultParams())

	top := []model.ScoredCandidate{
		{Symbol: "NSE:CCC-EQ", Price: 300, Score: 0.9, TargetPrice: 310},
	}
	live := sched.refetchLive(top)

	require.Len(t, live, 3, "Top-K union open records")
	assert.Equal(t, 101.0, live["NSE:AAA-EQ"])
	assert.Equal(t, 201.0, live["NSE:BBB-EQ"])
	assert.Equal(t, 301.0, live["NSE:CCC-EQ"])
	assert.Equal(t, 3, th.symbols, "each refetched quote shares the scan pacing")
	assert.Zero(t, th.batches)
}
