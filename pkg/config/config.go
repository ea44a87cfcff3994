package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string        `yaml:"port"`
	DatabaseURL string        `yaml:"database_url"`
	JWTSecret   string        `yaml:"jwt_secret"`
	JWTExpiry   time.Duration `yaml:"jwt_expiry"`
	UploadDir   string        `yaml:"upload_dir"`
	AppURL      string        `yaml:"app_url"`

	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
	MailFrom     string `yaml:"mail_from"`
	MailFromName string `yaml:"mail_from_name"`

	FirebaseCredentials string `yaml:"firebase_credentials"`

	Timezone         string `yaml:"timezone"`
	TaskReminderTime string `yaml:"task_reminder_time"`
	NotesDigestTime  string `yaml:"notes_digest_time"`
	OutboxWorkers    int    `yaml:"outbox_workers"`

	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`
}

func defaults() *Config {
	return &Config{
		Port:             "8080",
		DatabaseURL:      "sqlite://planner.db",
		JWTSecret:        "your-secret-key-change-in-production",
		JWTExpiry:        168 * time.Hour, // 7 days
		UploadDir:        "uploads",
		AppURL:           "http://localhost:5173",
		SMTPPort:         587,
		MailFromName:     "Task Manager",
		Timezone:         "Local",
		TaskReminderTime: "09:00",
		NotesDigestTime:  "08:00",
		OutboxWorkers:    2,
		LogLevel:         "info",
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (highest precedence).
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTExpiry = getEnvDuration("JWT_EXPIRY", cfg.JWTExpiry)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.AppURL = getEnv("APP_URL", cfg.AppURL)

	cfg.SMTPHost = getEnv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnvInt("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = getEnv("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.MailFrom = getEnv("MAIL_FROM", cfg.MailFrom)
	cfg.MailFromName = getEnv("MAIL_FROM_NAME", cfg.MailFromName)

	cfg.FirebaseCredentials = getEnv("FIREBASE_CREDENTIALS", cfg.FirebaseCredentials)

	cfg.Timezone = getEnv("TIMEZONE", cfg.Timezone)
	cfg.TaskReminderTime = getEnv("TASK_REMINDER_TIME", cfg.TaskReminderTime)
	cfg.NotesDigestTime = getEnv("NOTES_DIGEST_TIME", cfg.NotesDigestTime)
	cfg.OutboxWorkers = getEnvInt("OUTBOX_WORKERS", cfg.OutboxWorkers)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = getEnvBool("LOG_PRETTY", cfg.LogPretty)

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUsername
	}

	return cfg, nil
}

// Location resolves the configured timezone. Scheduler triggers and calendar-day
// windows are computed in this location.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
