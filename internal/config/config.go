package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	DataSource struct {
		Provider        string `yaml:"provider"` // "yahoo" or "alphavantage"
		AlphaVantageKey string `yaml:"alpha_vantage_key"`
		Proxy           string `yaml:"proxy"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Analysis struct {
		PeriodsPerYear      int      `yaml:"periods_per_year"`
		MAWindows           []int    `yaml:"ma_windows"`
		DefaultTicker       string   `yaml:"default_ticker"`
		DefaultLookbackDays int      `yaml:"default_lookback_days"`
		CompareTickers      []string `yaml:"compare_tickers"`
		NewsLimit           int      `yaml:"news_limit"`
		TipsCount           int      `yaml:"tips_count"`
	} `yaml:"analysis"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron string   `yaml:"digest_cron"`
		Watchlist  []string `yaml:"watchlist"`
	} `yaml:"schedule"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Load reads config from a YAML file and an optional .env file, then applies
// environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	envFile := ".env"
	if v := os.Getenv("ENV_FILE"); v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

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
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_KEY"); v != "" {
		cfg.DataSource.AlphaVantageKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("CRON_DIGEST"); v != "" {
		cfg.Schedule.DigestCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Schedule.Watchlist = splitList(v)
	}
	if v := os.Getenv("PERIODS_PER_YEAR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.PeriodsPerYear = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.Analysis.PeriodsPerYear == 0 {
		cfg.Analysis.PeriodsPerYear = 252
	}
	if len(cfg.Analysis.MAWindows) == 0 {
		cfg.Analysis.MAWindows = []int{20, 50}
	}
	if cfg.Analysis.DefaultTicker == "" {
		cfg.Analysis.DefaultTicker = "AAPL"
	}
	if cfg.Analysis.DefaultLookbackDays == 0 {
		cfg.Analysis.DefaultLookbackDays = 365
	}
	if cfg.Analysis.NewsLimit == 0 {
		cfg.Analysis.NewsLimit = 10
	}
	if cfg.Analysis.TipsCount == 0 {
		cfg.Analysis.TipsCount = 3
	}
	if cfg.Schedule.DigestCron == "" {
		cfg.Schedule.DigestCron = "0 30 22 * * 1-5"
	}
	if len(cfg.Schedule.Watchlist) == 0 {
		cfg.Schedule.Watchlist = []string{"AAPL", "MSFT", "SPY"}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "alphavantage":
		if c.DataSource.AlphaVantageKey == "" {
			return fmt.Errorf("data_source.alpha_vantage_key is required for the alphavantage provider")
		}
	default:
		return fmt.Errorf("data_source.provider must be yahoo or alphavantage, got %q", c.DataSource.Provider)
	}
	if c.Analysis.PeriodsPerYear < 1 {
		return fmt.Errorf("analysis.periods_per_year must be positive")
	}
	for _, w := range c.Analysis.MAWindows {
		if w < 1 {
			return fmt.Errorf("analysis.ma_windows entries must be at least 1, got %d", w)
		}
	}
	if c.Analysis.DefaultLookbackDays < 2 {
		return fmt.Errorf("analysis.default_lookback_days must be at least 2")
	}
	if c.Analysis.TipsCount < 0 || c.Analysis.NewsLimit < 0 {
		return fmt.Errorf("analysis.tips_count and analysis.news_limit must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}

// TelegramEnabled reports whether the bot and digest should run.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != 0
}

// FundamentalsEnabled reports whether financial statements can be fetched.
func (c *Config) FundamentalsEnabled() bool {
	return c.DataSource.AlphaVantageKey != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
