package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/biasharafund/discounting/constants"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	OCR    OCRConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir string
	PSM         int // e.g., 6 is good for uniform block of text
	OEM         int // 1 = LSTM; leave 0 to use default

	MaxFileSize int64 // upload ceiling in bytes
}

// LoadConfig loads configuration from the environment. A .env file in the
// working directory is honored when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OCR: OCRConfig{
			Pdftoppm:      getEnv("PDFTOPPM", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			PSM:           getEnvAsInt("OCR_PSM", 6),
			OEM:           getEnvAsInt("OCR_OEM", 3),
			MaxFileSize:   getEnvAsInt64("OCR_MAX_FILE_SIZE", constants.MaxFileSize),
		},
	}
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.OCR.MaxFileSize <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_MAX_FILE_SIZE must be positive", ErrInvalidInput)
	}
	return nil
}
