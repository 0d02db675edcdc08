package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Provider struct {
		BaseURL     string `yaml:"base_url"`
		AppID       string `yaml:"app_id"`
		AccessToken string `yaml:"access_token"`
	} `yaml:"provider"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Universe struct {
		CSVPath string `yaml:"csv_path"` // optional seed file with {symbol, exchange} rows
	} `yaml:"universe"`
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
	Scan struct {
		BatchSize     int    `yaml:"batch_size"`
		RecentDays    int    `yaml:"recent_days"`
		SymbolDelayMS int    `yaml:"symbol_delay_ms"`
		BatchDelaySec int    `yaml:"batch_delay_sec"`
		OutputPath    string `yaml:"output_path"`
	} `yaml:"scan"`
	Picks struct {
		ConfidenceThreshold float64 `yaml:"confidence_threshold"`
		MinTargetPct        float64 `yaml:"min_target_pct"`
		TopK                int     `yaml:"top_k"`
		StopPct             float64 `yaml:"stop_pct"`
	} `yaml:"picks"`
	Label struct {
		ProfitTarget float64 `yaml:"profit_target"`
		StopLoss     float64 `yaml:"stop_loss"`
		HorizonDays  int     `yaml:"horizon_days"`
	} `yaml:"label"`
	Market struct {
		Timezone  string `yaml:"timezone"`
		OpenTime  string `yaml:"open_time"`  // "HH:MM" local
		CloseTime string `yaml:"close_time"` // "HH:MM" local
		ForceOpen bool   `yaml:"force_open"`
	} `yaml:"market"`
	Schedule struct {
		ScanCron   string `yaml:"scan_cron"`
		IngestCron string `yaml:"ingest_cron"`
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("PROVIDER_APP_ID"); v != "" {
		cfg.Provider.AppID = v
	}
	if v := os.Getenv("PROVIDER_ACCESS_TOKEN"); v != "" {
		cfg.Provider.AccessToken = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("SCAN_OUTPUT"); v != "" {
		cfg.Scan.OutputPath = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("FORCE_MARKET_OPEN"); v == "true" {
		cfg.Market.ForceOpen = true
	}

	// Defaults
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/swing_sentinel.db"
	}
	if cfg.Model.Path == "" {
		cfg.Model.Path = "models/ai_model.json"
	}
	if cfg.Scan.BatchSize == 0 {
		cfg.Scan.BatchSize = 100
	}
	if cfg.Scan.RecentDays == 0 {
		cfg.Scan.RecentDays = 30
	}
	if cfg.Scan.SymbolDelayMS == 0 {
		cfg.Scan.SymbolDelayMS = 100
	}
	if cfg.Scan.BatchDelaySec == 0 {
		cfg.Scan.BatchDelaySec = 20
	}
	if cfg.Scan.OutputPath == "" {
		cfg.Scan.OutputPath = "data/ai_scanner_output.csv"
	}
	if cfg.Picks.ConfidenceThreshold == 0 {
		cfg.Picks.ConfidenceThreshold = 0.5
	}
	if cfg.Picks.MinTargetPct == 0 {
		cfg.Picks.MinTargetPct = 0.025
	}
	if cfg.Picks.TopK == 0 {
		cfg.Picks.TopK = 5
	}
	if cfg.Picks.StopPct == 0 {
		cfg.Picks.StopPct = 0.01
	}
	if cfg.Label.ProfitTarget == 0 {
		cfg.Label.ProfitTarget = 0.03
	}
	if cfg.Label.StopLoss == 0 {
		cfg.Label.StopLoss = 0.01
	}
	if cfg.Label.HorizonDays == 0 {
		cfg.Label.HorizonDays = 3
	}
	if cfg.Market.Timezone == "" {
		cfg.Market.Timezone = "Asia/Kolkata"
	}
	if cfg.Market.OpenTime == "" {
		cfg.Market.OpenTime = "09:15"
	}
	if cfg.Market.CloseTime == "" {
		cfg.Market.CloseTime = "15:30"
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 */5 * * * *"
	}
	if cfg.Schedule.IngestCron == "" {
		cfg.Schedule.IngestCron = "0 45 15 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if c.Provider.AccessToken == "" {
		return fmt.Errorf("provider.access_token is required")
	}
	if c.Scan.BatchSize <= 0 {
		return fmt.Errorf("scan.batch_size must be positive")
	}
	if c.Scan.RecentDays <= 0 {
		return fmt.Errorf("scan.recent_days must be positive")
	}
	if c.Picks.TopK <= 0 {
		return fmt.Errorf("picks.top_k must be positive")
	}
	if c.Label.HorizonDays <= 0 {
		return fmt.Errorf("label.horizon_days must be positive")
	}
	return nil
}
