package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	AppEnv             string
	LogLevel           string
	MigrationsPath     string
	DBOperationTimeout time.Duration

	JWTSecret string
	JWTIssuer string

	FrontendBaseURL string
	RateLimit       string

	PosthogAPIKey   string
	PosthogEndpoint string

	SignatureWebhookSecret string

	// Payout proof documents
	PDFEnabled      bool
	PDFChromiumPath string
	PDFTimeout      time.Duration

	// Outbound email via the Gmail API with a service account
	GmailCredentialsFile string
	GmailSender          string
	AccountsNotifyEmail  string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("DB_OPERATION_TIMEOUT", "10s")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "incentive-wallet")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("SIGNATURE_WEBHOOK_SECRET", "")
	viper.SetDefault("PDF_ENABLED", true)
	viper.SetDefault("PDF_CHROMIUM_PATH", "")
	viper.SetDefault("PDF_TIMEOUT", "15s")
	viper.SetDefault("GMAIL_CREDENTIALS_FILE", "")
	viper.SetDefault("GMAIL_SENDER", "")
	viper.SetDefault("ACCOUNTS_NOTIFY_EMAIL", "")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:            viper.GetString("PGSQL_URL"),
		Port:                   viper.GetString("PORT"),
		IsProduction:           viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:          viper.GetBool("ENABLE_DB_CHECK"),
		AppEnv:                 viper.GetString("APP_ENV"),
		LogLevel:               viper.GetString("LOG_LEVEL"),
		MigrationsPath:         viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:              viper.GetString("JWT_SECRET"),
		JWTIssuer:              viper.GetString("JWT_ISSUER"),
		FrontendBaseURL:        viper.GetString("FRONTEND_BASE_URL"),
		RateLimit:              viper.GetString("RATE_LIMIT"),
		PosthogAPIKey:          viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:        viper.GetString("POSTHOG_ENDPOINT"),
		SignatureWebhookSecret: viper.GetString("SIGNATURE_WEBHOOK_SECRET"),
		PDFEnabled:             viper.GetBool("PDF_ENABLED"),
		PDFChromiumPath:        viper.GetString("PDF_CHROMIUM_PATH"),
		GmailCredentialsFile:   viper.GetString("GMAIL_CREDENTIALS_FILE"),
		GmailSender:            viper.GetString("GMAIL_SENDER"),
		AccountsNotifyEmail:    viper.GetString("ACCOUNTS_NOTIFY_EMAIL"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if cfg.SignatureWebhookSecret == "" {
		log.Println("Warning: SIGNATURE_WEBHOOK_SECRET not set. Signature webhooks will be refused.")
	}

	cfg.DBOperationTimeout = durationOrDefault("DB_OPERATION_TIMEOUT", 10*time.Second)
	cfg.PDFTimeout = durationOrDefault("PDF_TIMEOUT", 15*time.Second)

	if cfg.GmailCredentialsFile == "" || cfg.GmailSender == "" {
		log.Println("Warning: GMAIL_CREDENTIALS_FILE or GMAIL_SENDER not set. Email notifications are disabled.")
	}

	return cfg, nil
}

// IsDevelopment reports whether human readable logs should be used.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}
