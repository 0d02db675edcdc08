// Command trainset exports the labeled training table from the bar store.
// The classifier training pipeline consumes its output.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"SwingSentinel/internal/config"
	"SwingSentinel/internal/label"
	"SwingSentinel/internal/store"
	"SwingSentinel/internal/training"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	out := flag.String("out", "data/training_data_labeled.csv", "output CSV path")
	flag.Parse()

	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	params := label.Params{
		ProfitTarget: cfg.Label.ProfitTarget,
		StopLoss:     cfg.Label.StopLoss,
		Horizon:      cfg.Label.HorizonDays,
	}
	n, err := training.Export(st, params, *out)
	if err != nil {
		log.Fatalf("[FATAL] export training data: %v", err)
	}
	log.Printf("[INFO] wrote %d labeled rows to %s", n, *out)
}
