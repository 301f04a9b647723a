package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret    string
	JWTExpiresIn time.Duration

	SMTPHost    string
	SMTPPort    int
	SMTPSecure  bool
	SMTPUser    string
	SMTPPass    string
	SMTPFrom    string
	SMTPTimeout time.Duration

	FrontendURL    string
	UploadDir      string
	MaxResumeBytes int64
	CORSOrigins    []string

	RedisURL    string
	RabbitMQURL string
	MailQueue   string

	StatusTransitionRule string
	CostPerHire          float64

	LogLevel  string
	LogFormat string

	// Malformed values found by FromEnv; reported by Validate.
	parseErrs []error
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv() *Config {
	env := &envReader{}
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "release"),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         env.integer("DB_PORT", 5432),
		DBUser:         getEnv("DB_USERNAME", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "smartrecruit"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: env.integer("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: env.integer("DB_MAX_IDLE_CONNS", 10),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: env.duration("JWT_EXPIRES_IN", 24*time.Hour),

		SMTPHost:    getEnv("SMTP_HOST", ""),
		SMTPPort:    env.integer("SMTP_PORT", 587),
		SMTPSecure:  env.boolean("SMTP_SECURE", false),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASS", ""),
		SMTPFrom:    getEnv("SMTP_FROM", ""),
		SMTPTimeout: env.duration("SMTP_TIMEOUT", 10*time.Second),

		FrontendURL:    strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxResumeBytes: int64(env.integer("MAX_RESUME_BYTES", 5*1024*1024)),
		CORSOrigins:    getList("CORS_ORIGINS", []string{"*"}),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),
		MailQueue:   getEnv("MAIL_QUEUE", "candidate_mail"),

		StatusTransitionRule: getEnv("STATUS_TRANSITION_RULE", ""),
		CostPerHire:          env.number("COST_PER_HIRE", 4000),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
	cfg.parseErrs = env.errs
	return cfg
}

func (c *Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.MaxResumeBytes <= 0 {
		errs = append(errs, errors.New("MAX_RESUME_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// PostgresDSN renders the keyword/value connection string gorm's postgres driver expects.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// envReader parses typed values and remembers the ones it had to reject.
type envReader struct {
	errs []error
}

func (r *envReader) lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func (r *envReader) reject(key, value, kind string) {
	r.errs = append(r.errs, fmt.Errorf("%s: invalid %s %q", key, kind, value))
}

func (r *envReader) integer(key string, fallback int) int {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.reject(key, value, "integer")
		return fallback
	}
	return parsed
}

func (r *envReader) number(key string, fallback float64) float64 {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.reject(key, value, "number")
		return fallback
	}
	return parsed
}

func (r *envReader) boolean(key string, fallback bool) bool {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		r.reject(key, value, "boolean")
		return fallback
	}
	return parsed
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := parseDuration(value)
	if err != nil {
		r.reject(key, value, "duration")
		return fallback
	}
	return parsed
}

// parseDuration accepts Go durations plus whole days such as "7d".
func parseDuration(value string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid day count %q", days)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}

func getList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
