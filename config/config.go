package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string `validate:"required,numeric"`
	ServerHost string

	// Database configuration
	DBDriver    string `validate:"required,oneof=postgres sqlite"`
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string `validate:"required_if=DBDriver sqlite"`

	// Redis configuration, optional
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Generator configuration
	GeneratorProvider string        `validate:"required,oneof=gemini deepseek"`
	GeminiAPIKey      string        `validate:"required_if=GeneratorProvider gemini"`
	GeminiModel       string        `validate:"required_if=GeneratorProvider gemini"`
	DeepSeekAPIKey    string        `validate:"required_if=GeneratorProvider deepseek"`
	DeepSeekAPIURL    string        `validate:"omitempty,url"`
	DeepSeekModel     string        `validate:"required_if=GeneratorProvider deepseek"`
	GeneratorTimeout  time.Duration `validate:"min=1s,max=10m"`

	// Auth configuration
	JWTSecret    string `validate:"required_if=AuthRequired true"`
	AuthRequired bool

	// HTTP surface
	CORSAllowedOrigins       []string `validate:"min=1"`
	RecommendationRateLimit  int      `validate:"gte=0"`
	RecommendationRateWindow time.Duration

	// Report archive, optional
	S3BucketName string
	AWSRegion    string `validate:"required_with=S3BucketName"`

	// Logging
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json text"`
}

// Defaults
const (
	DefaultServerPort        = "8000"
	DefaultGeminiModel       = "gemini-2.5-flash"
	DefaultDeepSeekAPIURL    = "https://api.deepseek.com/v1/chat/completions"
	DefaultDeepSeekModel     = "deepseek-chat"
	DefaultGeneratorTimeout  = 60 * time.Second
	DefaultRateLimit         = 20
	DefaultRateWindow        = time.Hour
	DefaultSQLitePath        = "healthdiary.db"
	defaultSecretsDir        = "/run/secrets"
	defaultPostgresSSLMode   = "disable"
	defaultGeneratorProvider = "gemini"
)

// LoadConfig builds a Config from an optional .env file, environment
// variables and, for sensitive values, Docker secrets.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	env := GetEnvironment()
	cfg := &Config{Environment: env}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	cfg.ServerPort = getEnv("SERVER_PORT", DefaultServerPort)
	cfg.ServerHost = getEnv("SERVER_HOST", "")

	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
	cfg.DatabaseURL = getSecret("DATABASE_URL", "database_url")
	cfg.DBHost = getEnv("DB_HOST", "")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getSecret("DB_USER", "db_user")
	cfg.DBPassword = getSecret("DB_PASSWORD", "db_password")
	cfg.DBName = getEnv("DB_NAME", "health_agent")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", defaultPostgresSSLMode)
	if cfg.DBDriver == "sqlite" {
		cfg.SQLitePath = getEnv("SQLITE_PATH", DefaultSQLitePath)
	}

	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = getSecret("REDIS_PASSWORD", "redis_password")
	cfg.RedisURL = getSecret("REDIS_URL", "redis_url")
	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return err
	}
	cfg.RedisDB = redisDB

	cfg.GeneratorProvider = strings.ToLower(getEnv("GENERATOR_PROVIDER", defaultGeneratorProvider))
	cfg.GeminiAPIKey = getSecret("GEMINI_API_KEY", "gemini_api_key")
	cfg.GeminiModel = getEnv("GEMINI_MODEL", DefaultGeminiModel)
	cfg.DeepSeekAPIKey = getSecret("DEEPSEEK_API_KEY", "deepseek_api_key")
	cfg.DeepSeekAPIURL = getEnv("DEEPSEEK_API_URL", DefaultDeepSeekAPIURL)
	cfg.DeepSeekModel = getEnv("DEEPSEEK_MODEL", DefaultDeepSeekModel)
	timeout, err := getDuration("GENERATOR_TIMEOUT", DefaultGeneratorTimeout)
	if err != nil {
		return err
	}
	cfg.GeneratorTimeout = timeout

	cfg.JWTSecret = getSecret("JWT_SECRET", "jwt_secret")
	authRequired, err := getBool("AUTH_REQUIRED", false)
	if err != nil {
		return err
	}
	cfg.AuthRequired = authRequired

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	limit, err := getInt("RATE_LIMIT_RECOMMENDATIONS", DefaultRateLimit)
	if err != nil {
		return err
	}
	cfg.RecommendationRateLimit = limit
	window, err := getDuration("RATE_LIMIT_WINDOW", DefaultRateWindow)
	if err != nil {
		return err
	}
	cfg.RecommendationRateWindow = window

	cfg.S3BucketName = getEnv("S3_BUCKET_NAME", "")
	cfg.AWSRegion = getEnv("AWS_REGION", "")

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat(cfg.Environment)))

	return nil
}

// RedisEnabled reports whether a Redis endpoint was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// PostgresDSN returns the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func defaultLogFormat(env Environment) string {
	if env == Development {
		return "text"
	}
	return "json"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// getSecret prefers the environment variable and falls back to a Docker
// secret file of the given name.
func getSecret(envKey, secretName string) string {
	if v := getEnv(envKey, ""); v != "" {
		return v
	}
	return readSecret(secretName)
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = defaultSecretsDir
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
