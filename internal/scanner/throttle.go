package scanner

import (
	"context"
	"time"
)

// Throttler paces outbound provider requests. The delays are part of the scan
// contract: the provider enforces a request budget and the pipeline must not
// run fire-and-forget. Injected so tests can run without real-time waits.
type Throttler interface {
	// AfterSymbol pauses between consecutive symbol fetches.
	AfterSymbol(ctx context.Context)
	// AfterBatch pauses between batches.
	AfterBatch(ctx context.Context)
}

// SleepThrottler implements Throttler with fixed sleeps.
type SleepThrottler struct {
	SymbolDelay time.Duration
	BatchDelay  time.Duration
}

func (t SleepThrottler) AfterSymbol(ctx context.Context) { sleepCtx(ctx, t.SymbolDelay) }
func (t SleepThrottler) AfterBatch(ctx context.Context)  { sleepCtx(ctx, t.BatchDelay) }

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// NopThrottler never waits. For tests.
type NopThrottler struct{}

func (NopThrottler) AfterSymbol(context.Context) {}
func (NopThrottler) AfterBatch(context.Context)  {}
