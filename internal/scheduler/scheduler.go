// Package scheduler drives scan and ingestion cycles on cron schedules, gated
// by the market-hours window.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"SwingSentinel/internal/collector"
	"SwingSentinel/internal/model"
	"SwingSentinel/internal/picker"
	"SwingSentinel/internal/scanner"
	"SwingSentinel/internal/store"
)

// Scheduler manages the periodic scan and daily ingestion tasks.
type Scheduler struct {
	Cron    *cron.Cron
	Scanner *scanner.Scanner
	Store   *store.Store
	Fetcher collector.Fetcher
	Hours   *MarketHours
	Params  picker.Params
	Ctx     context.Context

	mu        sync.Mutex
	lastPicks []model.Pick
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, st *store.Store, f collector.Fetcher, hours *MarketHours, params picker.Params) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Scanner: sc,
		Store:   st,
		Fetcher: f,
		Hours:   hours,
		Params:  params,
		Ctx:     ctx,
	}
}

// RegisterAll registers the scan and ingestion cron tasks.
func (s *Scheduler) RegisterAll(scanCron, ingestCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if _, err := s.Cron.AddFunc(ingestCron, s.ingestTask); err != nil {
		return fmt.Errorf("register ingest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes a scan cycle immediately, bypassing the market-hours
// gate (for manual trigger / RUN_ON_START). Returns the cycle error so a
// one-shot caller can exit non-zero on persistence failure.
func (s *Scheduler) RunScanNow() error {
	return s.runCycle()
}

// LastPicks returns the picks from the most recent completed cycle. Outside
// market hours the last computed set remains authoritative.
func (s *Scheduler) LastPicks() []model.Pick {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Pick(nil), s.lastPicks...)
}

func (s *Scheduler) scanTask() {
	if !s.Hours.OpenAt(time.Now()) {
		log.Println("[INFO] market closed, skipping scan cycle")
		return
	}
	if err := s.runCycle(); err != nil {
		log.Printf("[ERROR] scan cycle: %v", err)
	}
}

func (s *Scheduler) runCycle() error {
	log.Println("[INFO] running scan cycle")
	records, err := s.Scanner.Run(s.Ctx)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	top := picker.TopCandidates(records, s.Params)

	// Refetch live prices for the candidates and every open history symbol, so
	// action classification and reconciliation never reuse entry prices.
	live := s.refetchLive(top)

	picks := picker.BuildPicks(top, live, s.Params)
	if err := picker.Reconcile(s.Store, picks, live, s.Params, time.Now()); err != nil {
		return fmt.Errorf("reconcile history: %w", err)
	}

	s.mu.Lock()
	s.lastPicks = picks
	s.mu.Unlock()

	for _, p := range picks {
		log.Printf("[INFO] pick %s: entry=%.2f ltp=%.2f score=%.4f stop=%.2f target=%.2f action=%s",
			p.Symbol, p.EntryPrice, p.LTP, p.Score, p.StopLevel, p.TargetPrice, p.Action)
	}
	if rate, err := s.Store.HitRate(); err == nil {
		log.Printf("[INFO] overall hit rate: %.0f%%", rate)
	}
	return nil
}

func (s *Scheduler) refetchLive(top []model.ScoredCandidate) map[string]float64 {
	symbols := make(map[string]bool, len(top))
	for _, rec := range top {
		symbols[rec.Symbol] = true
	}
	if open, err := s.Store.OpenRecords(); err == nil {
		for _, rec := range open {
			symbols[rec.Symbol] = true
		}
	} else {
		log.Printf("[WARN] load open records for refetch: %v", err)
	}

	// Refetches count against the same provider budget as scan fetches, so
	// they share the scanner's pacing.
	live := make(map[string]float64, len(symbols))
	for sym := range symbols {
		q, err := s.Fetcher.Quote(s.Ctx, sym)
		if err != nil {
			log.Printf("[WARN] live refetch %s: %v", sym, err)
		} else {
			live[sym] = q.LastPrice
		}
		s.Scanner.Throttle.AfterSymbol(s.Ctx)
	}
	return live
}

func (s *Scheduler) ingestTask() {
	log.Println("[INFO] running daily bar ingestion")
	n, err := s.Scanner.IngestDaily(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] ingest: %v", err)
		return
	}
	log.Printf("[INFO] ingested %d bars", n)
}
