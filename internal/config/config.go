package config

import (
	"os"
	"strconv"
	"strings"

	"celldata/domain/cell"
	"celldata/internal/errors"
)

// Source selects where raw tables and metadata come from
type Source string

const (
	SourceDrive    Source = "drive"    // Google Drive + Google Sheets
	SourceLocal    Source = "local"    // local directory + local workbook
	SourcePostgres Source = "postgres" // local directory + database metadata mirror
)

// Config represents the complete application configuration
type Config struct {
	Google   GoogleConfig
	Local    LocalConfig
	Database DatabaseConfig
	Loader   LoaderConfig
}

// DatabaseConfig holds the metadata mirror connection settings
type DatabaseConfig struct {
	URL string
}

// GoogleConfig holds the remote collaborator settings
type GoogleConfig struct {
	CredentialsFile string
	DriveFolderID   string
	SpreadsheetID   string
}

// LocalConfig holds the offline collaborator settings
type LocalConfig struct {
	DataDir      string
	MetadataFile string
}

// LoaderConfig holds pipeline settings
type LoaderConfig struct {
	Source         Source
	CapacityColumn string
	MassField      string
	RequiredFields []string
	FailFast       bool
	Parallelism    int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Google: GoogleConfig{
			CredentialsFile: getEnvOrDefault("SERVICE_ACCOUNT_FILE", "credentials.json"),
			DriveFolderID:   os.Getenv("DRIVE_FOLDER_ID"),
			SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		},
		Local: LocalConfig{
			DataDir:      os.Getenv("DATA_DIR"),
			MetadataFile: os.Getenv("METADATA_FILE"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Loader: LoaderConfig{
			Source:         Source(getEnvOrDefault("DATA_SOURCE", string(SourceDrive))),
			CapacityColumn: getEnvOrDefault("CAPACITY_COLUMN", cell.DefaultCapacityColumn),
			MassField:      getEnvOrDefault("MASS_FIELD", cell.DefaultMassField),
			RequiredFields: getEnvListOrDefault("REQUIRED_FIELDS", cell.RequiredMetadataFields()),
			FailFast:       getEnvBoolOrDefault("FAIL_FAST", false),
			Parallelism:    getEnvIntOrDefault("PARALLELISM", 1),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Loader.Source {
	case SourceDrive:
		if cfg.Google.DriveFolderID == "" {
			return errors.ConfigInvalid("DRIVE_FOLDER_ID is required for the drive source")
		}
		if cfg.Google.SpreadsheetID == "" {
			return errors.ConfigInvalid("SPREADSHEET_ID is required for the drive source")
		}
	case SourceLocal:
		if cfg.Local.DataDir == "" {
			return errors.ConfigInvalid("DATA_DIR is required for the local source")
		}
		if cfg.Local.MetadataFile == "" {
			return errors.ConfigInvalid("METADATA_FILE is required for the local source")
		}
	case SourcePostgres:
		if cfg.Local.DataDir == "" {
			return errors.ConfigInvalid("DATA_DIR is required for the postgres source")
		}
		if cfg.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres source")
		}
	default:
		return errors.ConfigInvalid("DATA_SOURCE must be 'drive', 'local', or 'postgres'")
	}
	if cfg.Loader.CapacityColumn == "" {
		return errors.ConfigInvalid("capacity column name cannot be empty")
	}
	if cfg.Loader.MassField == "" {
		return errors.ConfigInvalid("mass field name cannot be empty")
	}
	return nil
}

// ValidationConfig converts loader settings into the domain config
func (c *Config) ValidationConfig() cell.ValidationConfig {
	return cell.ValidationConfig{
		CapacityColumn: c.Loader.CapacityColumn,
		MassField:      c.Loader.MassField,
		RequiredFields: c.Loader.RequiredFields,
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
