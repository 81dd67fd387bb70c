package service

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	DBPath      string

	Contentful struct {
		SpaceID     string
		AccessToken string
		Environment string
		Host        string
		Timeout     time.Duration
	}

	Stripe struct {
		SecretKey     string
		WebhookSecret string
	}

	Catalog struct {
		// Revalidate is how long shared caches may serve a catalog response.
		Revalidate time.Duration
	}

	Checkout struct {
		AllowedCountries []string
	}

	Server struct {
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}
}

// LoadConfig reads the environment, after loading a .env file when one is
// present in the working directory.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		DBPath:      getEnv("DB_PATH", "./db/slabcity.db"),
	}
	config.BaseURL = firstEnv([]string{"SITE_URL", "NEXT_PUBLIC_SITE_URL", "BASE_URL"}, "http://localhost:"+config.Port)

	// Contentful
	config.Contentful.SpaceID = getEnv("CONTENTFUL_SPACE_ID", "")
	config.Contentful.AccessToken = getEnv("CONTENTFUL_ACCESS_TOKEN", "")
	config.Contentful.Environment = getEnv("CONTENTFUL_ENVIRONMENT", "master")
	config.Contentful.Host = getEnv("CONTENTFUL_HOST", "cdn.contentful.com")
	config.Contentful.Timeout = getDuration("CONTENTFUL_TIMEOUT", 15*time.Second)

	// Stripe
	config.Stripe.SecretKey = getEnv("STRIPE_SECRET_KEY", "")
	config.Stripe.WebhookSecret = getEnv("STRIPE_WEBHOOK_SECRET", "")

	// Catalog
	config.Catalog.Revalidate = time.Duration(getInt("CATALOG_REVALIDATE_SECONDS", 60)) * time.Second

	// Checkout
	config.Checkout.AllowedCountries = splitList(getEnv("CHECKOUT_ALLOWED_COUNTRIES", "US,CA"))

	// Server
	config.Server.ReadTimeout = getDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	config.Server.WriteTimeout = getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	config.Server.ShutdownTimeout = getDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return d
}

// splitList turns "us, ca" into ["US", "CA"].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
