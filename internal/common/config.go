package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Data    DataConfig
	AI      AIConfig
	Archive ArchiveConfig
}

// DataConfig holds the on-disk layout of raw and processed data.
type DataConfig struct {
	JournalRawDir      string `yaml:"journal_raw_dir"`
	JournalExtractDir  string `yaml:"journal_extract_dir"`
	ShiftCountRawDir   string `yaml:"shiftcount_raw_dir"`
	ShiftCountDir      string `yaml:"shiftcount_extract_dir"`
	OrdersCSVPath      string `yaml:"orders_csv_path"`
	OrdersExtractDir   string `yaml:"orders_extract_dir"`
	UnifiedDir         string `yaml:"unified_dir"`
	QCDir              string `yaml:"qc_dir"`
	LookupTablePath    string `yaml:"lookup_table_path"`
	FallbackEncoding   string `yaml:"fallback_encoding"`
	EncodingSampleSize int    `yaml:"encoding_sample_size"`
}

// AIConfig holds settings for the shift-count transcription client.
type AIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"-"`
	Timeout      time.Duration `yaml:"timeout"`
	RequestDelay time.Duration `yaml:"request_delay"`
}

// ArchiveConfig holds settings for the SQLite consolidated-data archive.
type ArchiveConfig struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Data: DataConfig{
			JournalRawDir:      getEnv("JOURNAL_RAW_DIR", "data/raw/Fiskaljournale"),
			JournalExtractDir:  getEnv("JOURNAL_EXTRACT_DIR", "data/processed/Fiskaljournale"),
			ShiftCountRawDir:   getEnv("SHIFTCOUNT_RAW_DIR", "data/raw/Mengenlisten"),
			ShiftCountDir:      getEnv("SHIFTCOUNT_EXTRACT_DIR", "data/processed/Mengenlisten"),
			OrdersCSVPath:      getEnv("ORDERS_CSV_PATH", ""),
			OrdersExtractDir:   getEnv("ORDERS_EXTRACT_DIR", "data/processed/Bestellungen"),
			UnifiedDir:         getEnv("UNIFIED_DIR", "data/processed/Unified_data"),
			QCDir:              getEnv("QC_DIR", "data/processed/qc"),
			LookupTablePath:    getEnv("LOOKUP_TABLE_PATH", "data/master/lookup_table.json"),
			FallbackEncoding:   getEnv("FALLBACK_ENCODING", "utf-8"),
			EncodingSampleSize: getEnvAsInt("ENCODING_SAMPLE_SIZE", 10000),
		},
		AI: AIConfig{
			BaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			APIKey:       getEnv("GEMINI_API_KEY", ""),
			Timeout:      getEnvAsDuration("GEMINI_TIMEOUT", 90*time.Second),
			RequestDelay: getEnvAsDuration("GEMINI_REQUEST_DELAY", 5*time.Second),
		},
		Archive: ArchiveConfig{
			Path:    getEnv("ARCHIVE_DB_PATH", "data/processed/consolidated.db"),
			Enabled: getEnvAsBool("ARCHIVE_ENABLED", false),
		},
	}
}

// ApplyFile overlays values from a YAML config file onto the config.
// Only the data layout and archive settings are file-configurable; the
// API key always comes from the environment.
func (c *Config) ApplyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var overlay struct {
		Data    DataConfig    `yaml:"data"`
		AI      AIConfig      `yaml:"ai"`
		Archive ArchiveConfig `yaml:"archive"`
	}
	overlay.Data = c.Data
	overlay.AI = c.AI
	overlay.Archive = c.Archive
	if err := yaml.Unmarshal(b, &overlay); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.Data = overlay.Data
	c.AI = overlay.AI
	c.Archive = overlay.Archive
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks settings that have no workable default.
func (c *Config) ValidateForTranscription() error {
	if c.AI.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	return nil
}
