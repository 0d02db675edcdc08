package scanner

import (
	"context"
	"fmt"
	"log"
	"time"

	"SwingSentinel/internal/collector"
)

// IngestDaily appends today's bar for every universe symbol to the bar store,
// walking the universe with the same batch/throttle discipline as a scan.
// Duplicate (symbol, timestamp) bars are ignored by the store. Returns the
// number of bars actually appended.
func (s *Scanner) IngestDaily(ctx context.Context) (int, error) {
	universe, err := s.Store.Universe()
	if err != nil {
		return 0, fmt.Errorf("load universe: %w", err)
	}

	today := time.Now()
	appended := 0
	totalBatches := (len(universe) + s.BatchSize - 1) / s.BatchSize

	for bi := 0; bi < totalBatches; bi++ {
		end := (bi + 1) * s.BatchSize
		if end > len(universe) {
			end = len(universe)
		}
		log.Printf("[INFO] ingest batch %d/%d", bi+1, totalBatches)

		for _, e := range universe[bi*s.BatchSize : end] {
			if err := ctx.Err(); err != nil {
				return appended, err
			}
			sym := collector.VenueSymbol(e)
			bars, err := s.Fetcher.DailyBars(ctx, sym, today, today)
			if err != nil || len(bars) == 0 {
				log.Printf("[WARN] no bar for %s (%v)", sym, err)
				s.Throttle.AfterSymbol(ctx)
				continue
			}
			inserted, err := s.Store.AppendBar(bars[len(bars)-1])
			if err != nil {
				return appended, fmt.Errorf("persist bar %s: %w", sym, err)
			}
			if inserted {
				appended++
			}
			s.Throttle.AfterSymbol(ctx)
		}
		if bi != totalBatches-1 {
			s.Throttle.AfterBatch(ctx)
		}
	}

	log.Printf("[INFO] ingest done: %d new bars", appended)
	return appended, nil
}
