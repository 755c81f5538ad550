package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL        string
	PagesToScrape  int
	RateLimitMs    int
	MaxRetries     int
	MaxConcurrency int
	HTTPTimeoutSec int

	TopN int
	// QuadrantRatingSplit is the minimum rating counted as "high" in the
	// quadrant analysis. QuadrantPriceSplit is the price split point; 0
	// means "use the dataset median price".
	QuadrantRatingSplit int
	QuadrantPriceSplit  float64

	RawCSVPath   string
	CleanCSVPath string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		BaseURL:        getEnv("BASE_URL", "https://books.toscrape.com/"),
		PagesToScrape:  getEnvInt("PAGES_TO_SCRAPE", 15),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 200),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 1),
		HTTPTimeoutSec: getEnvInt("HTTP_TIMEOUT_SEC", 10),

		TopN:                getEnvInt("TOP_N", 10),
		QuadrantRatingSplit: getEnvInt("QUADRANT_RATING_SPLIT", 4),
		QuadrantPriceSplit:  getEnvFloat("QUADRANT_PRICE_SPLIT", 0),

		RawCSVPath:   getEnv("RAW_CSV_PATH", "./data/raw_books.csv"),
		CleanCSVPath: getEnv("CLEAN_CSV_PATH", "./data/cleaned_books.csv"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "books_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
