// Package scanner turns the symbol universe into ranked swing-trade candidates.
package scanner

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"SwingSentinel/internal/classifier"
	"SwingSentinel/internal/collector"
	"SwingSentinel/internal/feature"
	"SwingSentinel/internal/model"
	"SwingSentinel/internal/store"
)

// Scanner orchestrates one scan cycle: batched, throttled fetches per universe
// symbol, feature computation, classifier scoring, and the ranked output
// artifact. Per-symbol failures skip the symbol; persistence failures abort
// the cycle.
type Scanner struct {
	Fetcher    collector.Fetcher
	Model      classifier.Classifier
	Store      *store.Store
	Throttle   Throttler
	BatchSize  int
	RecentDays int
	OutputPath string
}

// fetchBuffer widens the calendar range so weekends and holidays still leave
// enough trading sessions in the window.
const fetchBuffer = 1.5

// Run executes one full scan cycle and returns candidates sorted by score
// descending (ties keep scan order). The output artifact is replaced
// atomically; on persistence failure no partial artifact is committed and the
// error is returned to the caller.
func (s *Scanner) Run(ctx context.Context) ([]model.ScoredCandidate, error) {
	universe, err := s.Store.Universe()
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	symbols := make([]string, len(universe))
	for i, e := range universe {
		symbols[i] = collector.VenueSymbol(e)
	}
	log.Printf("[INFO] scan cycle: %d symbols, batch size %d", len(symbols), s.BatchSize)

	var records []model.ScoredCandidate
	totalBatches := (len(symbols) + s.BatchSize - 1) / s.BatchSize

	for bi := 0; bi < totalBatches; bi++ {
		end := (bi + 1) * s.BatchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[bi*s.BatchSize : end]
		log.Printf("[INFO] batch %d/%d (%d symbols)", bi+1, totalBatches, len(batch))

		for _, sym := range batch {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if rec, ok := s.scanSymbol(ctx, sym); ok {
				records = append(records, rec)
			}
			s.Throttle.AfterSymbol(ctx)
		}
		if bi != totalBatches-1 {
			s.Throttle.AfterBatch(ctx)
		}
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Score > records[j].Score })
	log.Printf("[INFO] scan cycle done: %d candidates", len(records))

	if err := s.writeOutput(records); err != nil {
		return nil, fmt.Errorf("write scan output: %w", err)
	}
	return records, nil
}

// scanSymbol fetches and scores one symbol. A false return means the symbol
// was skipped; skipped symbols appear zero times in the output.
func (s *Scanner) scanSymbol(ctx context.Context, sym string) (model.ScoredCandidate, bool) {
	quote, err := s.Fetcher.Quote(ctx, sym)
	if err != nil || quote.LastPrice == 0 {
		log.Printf("[WARN] skip %s: no price (%v)", sym, err)
		return model.ScoredCandidate{}, false
	}

	to := time.Now()
	from := to.AddDate(0, 0, -int(float64(s.RecentDays)*fetchBuffer))
	bars, err := s.Fetcher.DailyBars(ctx, sym, from, to)
	if err != nil || len(bars) == 0 {
		log.Printf("[WARN] skip %s: no bars (%v)", sym, err)
		return model.ScoredCandidate{}, false
	}
	if len(bars) > s.RecentDays {
		bars = bars[len(bars)-s.RecentDays:]
	}

	feats := feature.Latest(bars)
	if feats == nil {
		log.Printf("[WARN] skip %s: only %d bars, need %d", sym, len(bars), feature.MinBars)
		return model.ScoredCandidate{}, false
	}
	for k, v := range feature.LiveFeatures(quote, bars) {
		feats[k] = v
	}
	if feats.HasNaN() {
		log.Printf("[WARN] skip %s: feature not a number", sym)
		return model.ScoredCandidate{}, false
	}

	order := s.Model.FeatureOrder()
	vec := make([]float64, len(order))
	for i, name := range order {
		vec[i] = feats[name] // unknown features stay 0
	}
	score, err := s.Model.PredictProba(vec)
	if err != nil {
		log.Printf("[ERROR] predict %s: %v, using score 0.0", sym, err)
		score = 0.0
	}

	lastClose := bars[len(bars)-1].Close
	atr := feats["ATR14"]
	ratio := 0.03
	if atr != 0 && lastClose != 0 {
		ratio = atr / lastClose
	}
	expectedReturn := score * ratio
	// 2% floor keeps targets meaningful even when volatility is near zero.
	targetPrice := quote.LastPrice * (1 + math.Max(0.02, expectedReturn))

	return model.ScoredCandidate{
		Symbol:      sym,
		Price:       quote.LastPrice,
		Score:       round(score, 4),
		TargetPrice: round(targetPrice, 2),
		Volume:      quote.Volume,
		Features:    snapshot(feats),
	}, true
}

// rawColumns are bar/quote passthrough values that are not part of the
// indicator snapshot carried on a candidate.
var rawColumns = map[string]bool{
	"open": true, "high": true, "low": true, "close": true,
	"volume": true, "price": true, "atp": true,
}

func snapshot(feats model.FeatureVector) model.FeatureVector {
	out := make(model.FeatureVector, len(feats))
	for k, v := range feats {
		if !rawColumns[k] {
			out[k] = v
		}
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
