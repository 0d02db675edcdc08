package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"SwingSentinel/internal/classifier"
	"SwingSentinel/internal/collector"
	"SwingSentinel/internal/config"
	"SwingSentinel/internal/picker"
	"SwingSentinel/internal/scanner"
	"SwingSentinel/internal/scheduler"
	"SwingSentinel/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] SwingSentinel starting...")

	once := flag.Bool("once", false, "run a single scan cycle and exit")
	flag.Parse()

	// .env first, so the config env overrides see it
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	fetcher := collector.NewFyersFetcher(cfg.Provider.BaseURL, cfg.Provider.AppID, cfg.Provider.AccessToken)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init store
	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	if cfg.Universe.CSVPath != "" {
		n, err := st.ImportUniverseCSV(cfg.Universe.CSVPath)
		if err != nil {
			log.Fatalf("[FATAL] import universe: %v", err)
		}
		log.Printf("[INFO] universe seeded: %d rows from %s", n, cfg.Universe.CSVPath)
	}

	// Load trained model
	mdl, err := classifier.Load(cfg.Model.Path)
	if err != nil {
		log.Fatalf("[FATAL] load model: %v", err)
	}
	log.Printf("[INFO] model loaded: %d features", len(mdl.FeatureOrder()))

	// Init scanner
	sc := &scanner.Scanner{
		Fetcher:    fetcher,
		Model:      mdl,
		Store:      st,
		Throttle:   throttler(cfg),
		BatchSize:  cfg.Scan.BatchSize,
		RecentDays: cfg.Scan.RecentDays,
		OutputPath: cfg.Scan.OutputPath,
	}

	params := picker.Params{
		ConfidenceThreshold: cfg.Picks.ConfidenceThreshold,
		MinTargetPct:        cfg.Picks.MinTargetPct,
		TopK:                cfg.Picks.TopK,
		StopPct:             cfg.Picks.StopPct,
	}

	hours, err := scheduler.NewMarketHours(cfg.Market.Timezone, cfg.Market.OpenTime, cfg.Market.CloseTime, cfg.Market.ForceOpen)
	if err != nil {
		log.Fatalf("[FATAL] market hours: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, sc, st, fetcher, hours, params)

	if *once {
		if err := sched.RunScanNow(); err != nil {
			log.Printf("[ERROR] scan cycle failed: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.IngestCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan cycle now")
		go func() {
			if err := sched.RunScanNow(); err != nil {
				log.Printf("[ERROR] startup scan: %v", err)
			}
		}()
	}

	log.Println("[INFO] SwingSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] SwingSentinel stopped")
}

func throttler(cfg *config.Config) scanner.Throttler {
	return scanner.SleepThrottler{
		SymbolDelay: time.Duration(cfg.Scan.SymbolDelayMS) * time.Millisecond,
		BatchDelay:  time.Duration(cfg.Scan.BatchDelaySec) * time.Second,
	}
}
