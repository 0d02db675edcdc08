package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"SwingSentinel/internal/model"
)

// ErrUnavailable indicates the provider returned no usable data for a symbol.
// The scan orchestrator treats it as "skip this symbol", never as fatal.
var ErrUnavailable = errors.New("market data unavailable")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
	DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]model.Bar, error)
	Name() string
}

// VenueSymbol builds the provider's venue-qualified equity symbol,
// e.g. {NSE, TCS} -> "NSE:TCS-EQ".
func VenueSymbol(e model.UniverseEntry) string {
	return fmt.Sprintf("%s:%s-EQ",
		strings.ToUpper(strings.TrimSpace(e.Exchange)),
		strings.ToUpper(strings.TrimSpace(e.Symbol)))
}
