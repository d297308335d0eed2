package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultSymbols are refreshed when no symbols are configured.
var DefaultSymbols = []string{"QQQ", "SPY", "SCHG", "TQQQ", "MAGS"}

// cronParser accepts the six-field, seconds-first expressions the scheduler registers.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		// FileDir switches to saved payloads instead of the vendor API.
		FileDir string `yaml:"file_dir"`
	} `yaml:"data_source"`
	Symbols []string `yaml:"symbols" validate:"required,min=1,dive,required,alphanum"`
	Output  struct {
		Dir string `yaml:"dir" validate:"required"`
	} `yaml:"output"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron" validate:"required"`
		Workers     int    `yaml:"workers" validate:"gte=1,lte=16"`
	} `yaml:"schedule"`
	Report struct {
		Windows          []int     `yaml:"windows" validate:"required,dive,gt=0"`
		LevelPercentages []float64 `yaml:"level_percentages" validate:"dive,gt=0"`
	} `yaml:"report"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
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
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_FILE_DIR"); v != "" {
		cfg.DataSource.FileDir = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = append([]string(nil), DefaultSymbols...)
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "public/data"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.Workers == 0 {
		cfg.Schedule.Workers = 1
	}
	if len(cfg.Report.Windows) == 0 {
		cfg.Report.Windows = []int{1, 2, 5, 10, 20, 30}
	}
	if len(cfg.Report.LevelPercentages) == 0 {
		cfg.Report.LevelPercentages = []float64{0.5, 0.7, 0.9, 1, 1.3, 1.5, 2, 2.3, 2.6, 2.9, 3, 3.5, 4, 4.3}
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/periodstats.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and well formed.
func (c *Config) Validate() error {
	var errs error

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = errors.Join(errs, fmt.Errorf("%s: failed %q check", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = errors.Join(errs, err)
		}
	}

	if c.DataSource.FileDir == "" && c.DataSource.APIKey == "" {
		errs = errors.Join(errs, errors.New("data_source.api_key is required unless data_source.file_dir is set"))
	}
	if _, err := cronParser.Parse(c.Schedule.RefreshCron); err != nil {
		errs = errors.Join(errs, fmt.Errorf("schedule.refresh_cron: %w", err))
	}

	return errs
}

// TelegramEnabled reports whether refresh reports should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
