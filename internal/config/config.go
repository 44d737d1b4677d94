package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. It is loaded once at startup
// and passed to components read-only; nothing mutates it afterwards.
type Config struct {
	Telegram struct {
		BotToken string   `yaml:"bot_token"`
		ChatIDs  []string `yaml:"chat_ids"`
	} `yaml:"telegram"`
	Data struct {
		BaseURL         string `yaml:"base_url"`
		Dir             string `yaml:"dir"`
		AdjustmentsFile string `yaml:"adjustments_file"`
		ActionsFile     string `yaml:"actions_file"`
		ReportFile      string `yaml:"report_file"`
	} `yaml:"data"`
	Schedule struct {
		DailyCron   string `yaml:"daily_cron"`
		WeeklyCron  string `yaml:"weekly_cron"`
		MonthlyCron string `yaml:"monthly_cron"`
	} `yaml:"schedule"`
	Backtest struct {
		Symbols      []string `yaml:"symbols"`
		SIPAmount    float64  `yaml:"sip_amount"`
		TopupAmount  float64  `yaml:"topup_amount"`
		RSIPeriod    int      `yaml:"rsi_period"`
		RSIThreshold float64  `yaml:"rsi_threshold"`
		SMAWindow    int      `yaml:"sma_window"`
		DropPct      float64  `yaml:"drop_pct"`
		DropWindow   int      `yaml:"drop_window"`
	} `yaml:"backtest"`
	Ledger struct {
		BookFile    string  `yaml:"book_file"`
		Allocation  float64 `yaml:"allocation"`
		StopLossPct float64 `yaml:"stop_loss_pct"`
		TargetPct   float64 `yaml:"target_pct"`
	} `yaml:"ledger"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
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
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_IDS"); v != "" {
		cfg.Telegram.ChatIDs = splitList(v)
	}
	if v := os.Getenv("NSE_BASE_URL"); v != "" {
		cfg.Data.BaseURL = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Data.BaseURL == "" {
		cfg.Data.BaseURL = "https://archives.nseindia.com"
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data/bhav"
	}
	if cfg.Data.AdjustmentsFile == "" {
		cfg.Data.AdjustmentsFile = "data/adjustments.csv"
	}
	if cfg.Data.ReportFile == "" {
		cfg.Data.ReportFile = "data/rsi_report.csv"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 18 * * 1-5" // after NSE close, IST
	}
	if cfg.Schedule.WeeklyCron == "" {
		cfg.Schedule.WeeklyCron = "0 0 20 * * 5"
	}
	if cfg.Schedule.MonthlyCron == "" {
		cfg.Schedule.MonthlyCron = "0 0 9 1 * *"
	}
	if cfg.Backtest.SIPAmount == 0 {
		cfg.Backtest.SIPAmount = 1000
	}
	if cfg.Backtest.TopupAmount == 0 {
		cfg.Backtest.TopupAmount = 1000
	}
	if cfg.Backtest.RSIPeriod == 0 {
		cfg.Backtest.RSIPeriod = 14
	}
	if cfg.Backtest.RSIThreshold == 0 {
		cfg.Backtest.RSIThreshold = 40
	}
	if cfg.Backtest.SMAWindow == 0 {
		cfg.Backtest.SMAWindow = 200
	}
	if cfg.Backtest.DropPct == 0 {
		cfg.Backtest.DropPct = 5
	}
	if cfg.Backtest.DropWindow == 0 {
		cfg.Backtest.DropWindow = 252
	}
	if cfg.Ledger.BookFile == "" {
		cfg.Ledger.BookFile = "data/paper_trade_book.csv"
	}
	if cfg.Ledger.Allocation == 0 {
		cfg.Ledger.Allocation = 10000
	}
	if cfg.Ledger.StopLossPct == 0 {
		cfg.Ledger.StopLossPct = 0.05
	}
	if cfg.Ledger.TargetPct == 0 {
		cfg.Ledger.TargetPct = 0.10
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if len(c.Telegram.ChatIDs) == 0 {
		return fmt.Errorf("telegram.chat_ids is required")
	}
	if c.Backtest.SIPAmount <= 0 {
		return fmt.Errorf("backtest.sip_amount must be positive")
	}
	if c.Ledger.StopLossPct <= 0 || c.Ledger.StopLossPct >= 1 {
		return fmt.Errorf("ledger.stop_loss_pct must be in (0, 1)")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
