package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Firebase  FirebaseConfig
	Quota     QuotaConfig
	Mail      MailConfig
	Billing   BillingConfig
	RateLimit RateLimitConfig
	App       AppConfig
}

type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	DSN           string
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxConns      int
	RunMigrations bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UploadURLTTL    time.Duration
	ViewURLTTL      time.Duration
	MaxUploadBytes  int64
}

const (
	AuthProviderJWT      = "jwt"
	AuthProviderFirebase = "firebase"
)

type AuthConfig struct {
	Provider  string
	JWTSecret string
	Audience  string
	CacheTTL  time.Duration
}

type FirebaseConfig struct {
	CredentialsPath string
}

// QuotaConfig holds the storage limit per plan, in bytes.
type QuotaConfig struct {
	FreeBytes int64
	ProBytes  int64
}

type MailConfig struct {
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	From           string
	AppURL         string
	NotifyCooldown time.Duration
}

type BillingConfig struct {
	StripeSecretKey     string
	StripeWebhookSecret string
	PriceProID          string
	SuccessURL          string
	CancelURL           string
}

type RateLimitConfig struct {
	FunctionsRPS   float64
	FunctionsBurst int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:           getEnv("DB_DSN", ""),
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnvAsInt("DB_PORT", 5432),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", ""),
			Name:          getEnv("DB_NAME", "pinmark"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MaxConns:      getEnvAsInt("DB_MAX_CONNS", 10),
			RunMigrations: getEnvAsBool("RUN_MIGRATIONS", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "auto"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UploadURLTTL:    getEnvAsDuration("UPLOAD_URL_TTL", 15*time.Minute),
			ViewURLTTL:      getEnvAsDuration("VIEW_URL_TTL", time.Hour),
			MaxUploadBytes:  getEnvAsInt64("MAX_UPLOAD_BYTES", 50<<20),
		},
		Auth: AuthConfig{
			Provider:  getEnv("AUTH_PROVIDER", AuthProviderJWT),
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
			Audience:  getEnv("AUTH_JWT_AUDIENCE", "authenticated"),
			CacheTTL:  getEnvAsDuration("AUTH_CACHE_TTL", 5*time.Minute),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Quota: QuotaConfig{
			FreeBytes: getEnvAsInt64("QUOTA_FREE_BYTES", 500<<20),
			ProBytes:  getEnvAsInt64("QUOTA_PRO_BYTES", 50<<30),
		},
		Mail: MailConfig{
			SMTPHost:       getEnv("SMTP_HOST", ""),
			SMTPPort:       getEnvAsInt("SMTP_PORT", 587),
			SMTPUsername:   getEnv("SMTP_USERNAME", ""),
			SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
			From:           getEnv("MAIL_FROM", "Pinmark <no-reply@pinmark.app>"),
			AppURL:         getEnv("APP_URL", "http://localhost:3000"),
			NotifyCooldown: getEnvAsDuration("NOTIFY_COOLDOWN", 10*time.Minute),
		},
		Billing: BillingConfig{
			StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PriceProID:          getEnv("STRIPE_PRICE_PRO", ""),
			SuccessURL:          getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/billing/success"),
			CancelURL:           getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/billing"),
		},
		RateLimit: RateLimitConfig{
			FunctionsRPS:   getEnvAsFloat("FUNCTIONS_RPS", 5),
			FunctionsBurst: getEnvAsInt("FUNCTIONS_BURST", 10),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}

	if c.Storage.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required")
	}

	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	switch c.Auth.Provider {
	case AuthProviderJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is required for the jwt auth provider")
		}
	case AuthProviderFirebase:
		if c.Firebase.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required for the firebase auth provider")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}

	if c.Quota.FreeBytes <= 0 || c.Quota.ProBytes <= 0 {
		return fmt.Errorf("quota limits must be positive")
	}

	return nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
