package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Remote    RemoteConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options. Port serves the entry
// form; RemotePort is used by the reference remote service binary.
type ServerConfig struct {
	Port       string
	RemotePort string
}

// RemoteConfig points at the meal service that owns hospital records and
// persisted production records.
type RemoteConfig struct {
	BaseURL  string
	APIToken string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
// When CredentialsPath is empty the report export is disabled.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ExportRange     string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	ExportCronSchedule  string
	RefreshCronSchedule string
	Timezone            string
}

// MongoDBConfig holds settings for the reference remote service's store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:       getenvWithDefault("APP_PORT", "8080"),
			RemotePort: getenvWithDefault("REMOTE_APP_PORT", "9090"),
		},
		Remote: RemoteConfig{
			BaseURL:  getenvWithDefault("MEAL_API_BASE_URL", "http://localhost:9090"),
			APIToken: os.Getenv("MEAL_API_TOKEN"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			ExportRange:     getenvWithDefault("GOOGLE_SHEET_EXPORT_RANGE", "Production!A:H"),
		},
		Reporting: ReportingConfig{
			ExportCronSchedule:  getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * 5"),
			RefreshCronSchedule: getenvWithDefault("HOSPITAL_REFRESH_CRON", "0 * * * *"),
			Timezone:            getenvWithDefault("TIMEZONE", "Africa/Conakry"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "cantine"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Remote.BaseURL == "" {
		return errors.New("MEAL_API_BASE_URL must be provided")
	}

	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided when sheets credentials are set")
	}

	if c.Reporting.ExportCronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.RefreshCronSchedule == "" {
		return errors.New("HOSPITAL_REFRESH_CRON must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
