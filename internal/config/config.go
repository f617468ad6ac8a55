package config

import (
	"fmt"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting. Only this struct should
// be consulted for configuration; no direct os.Getenv calls elsewhere.
// Google API credentials are not listed here: both the Sheets and Storage
// clients pick up Application Default Credentials.
type Config struct {
	AppEnv string `env:"APP_ENV,default=development"`
	Port   string `env:"PORT,default=8080"`

	// Shared write password. Empty means open access in development and a
	// configuration error in production.
	AppPassword string `env:"APP_PASSWORD"`

	PersonalSpreadsheetID string `env:"PERSONAL_SPREADSHEET_ID"`
	BusinessSpreadsheetID string `env:"BUSINESS_SPREADSHEET_ID"`

	ExchangeRateAPIKey string `env:"EXCHANGE_RATE_API_KEY"`

	ReceiptsBucket    string `env:"RECEIPTS_BUCKET"`
	ReceiptsPublicURL string `env:"RECEIPTS_PUBLIC_URL"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}
	return &cfg, nil
}

// Production reports whether the app runs with production policies
// (password required, generic error bodies).
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}
