// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type ScheduleConfig struct {
	GameLengthMinutes    int `yaml:"game_length_minutes"`
	MaxGamesPerWeek      int `yaml:"max_games_per_week"`
	ExternalOfferPerWeek int `yaml:"external_offer_per_week"`

	NoDoubleHeaders bool `yaml:"no_double_headers"`
	BalanceHomeAway bool `yaml:"balance_home_away"`

	// Cron expression for the pending-swap reminder job.
	SwapReminderCron string `yaml:"swap_reminder_cron"`
	// Pending swap requests older than this many hours trigger a reminder.
	SwapReminderHours int `yaml:"swap_reminder_hours"`
}

type EmailConfig struct {
	Region string `yaml:"region"`
	Sender string `yaml:"sender"`
	// Optional dedicated from-address for swap notifications.
	SwapSender string `yaml:"swap_sender"`
	// Loaded from environment
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Email    EmailConfig    `yaml:"email"`

	Features struct {
		EnableSwapEmails   bool `yaml:"enable_swap_emails"`
		EnableSwapReminder bool `yaml:"enable_swap_reminder"`
		EnableDebug        bool `yaml:"enable_debug"`
		// Trust X-Forwarded-For when running behind a reverse proxy.
		TrustProxy bool `yaml:"trust_proxy"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Load sensitive values from environment
	cfg.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Schedule.GameLengthMinutes == 0 {
		c.Schedule.GameLengthMinutes = 75
	}
	if c.Schedule.SwapReminderCron == "" {
		c.Schedule.SwapReminderCron = "0 9 * * *"
	}
	if c.Schedule.SwapReminderHours == 0 {
		c.Schedule.SwapReminderHours = 48
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}
	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.Filename == "" {
		return fmt.Errorf("database filename is required for sqlite")
	}
	if c.Schedule.GameLengthMinutes < 0 {
		return fmt.Errorf("game length must not be negative")
	}
	if c.Features.EnableSwapEmails {
		if c.Email.Region == "" || c.Email.Sender == "" {
			return fmt.Errorf("email region and sender are required when swap emails are enabled")
		}
	}
	return nil
}
